package cpu

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// machineState is the JSON-serializable snapshot of hart control state. RAM
// travels separately as a raw image so the archive stays inspectable.
type machineState struct {
	X        [32]uint64 `json:"x"`
	PC       uint64     `json:"pc"`
	Halted   bool       `json:"halted"`
	Waiting  bool       `json:"waiting"`
	ExitCode uint64     `json:"exit_code"`

	MStatus  uint64 `json:"mstatus"`
	MTVec    uint64 `json:"mtvec"`
	MScratch uint64 `json:"mscratch"`
	MEPC     uint64 `json:"mepc"`
	MCause   uint64 `json:"mcause"`
	MTVal    uint64 `json:"mtval"`
	Cycle    uint64 `json:"cycle"`
	Instret  uint64 `json:"instret"`

	RAMBase uint64 `json:"ram_base"`
	RAMSize int    `json:"ram_size"`
}

const (
	snapshotStateFile = "state.json"
	snapshotRAMFile   = "ram.bin"
)

// SnapshotToBytes serialises the machine into an in-memory ZIP archive:
// state.json with the control state, ram.bin with the raw memory image.
func (c *CPU) SnapshotToBytes() ([]byte, error) {
	state := machineState{
		X:        c.X,
		PC:       c.PC,
		Halted:   c.Halted,
		Waiting:  c.Waiting,
		ExitCode: c.ExitCode,
		MStatus:  c.csr.mstatus,
		MTVec:    c.csr.mtvec,
		MScratch: c.csr.mscratch,
		MEPC:     c.csr.mepc,
		MCause:   c.csr.mcause,
		MTVal:    c.csr.mtval,
		Cycle:    c.csr.cycle,
		Instret:  c.csr.instret,
		RAMBase:  c.Bus.Base,
		RAMSize:  len(c.Bus.RAM),
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	w, err := zw.Create(snapshotStateFile)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return nil, err
	}

	w, err = zw.Create(snapshotRAMFile)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(c.Bus.RAM); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveSnapshot writes the snapshot archive to path.
func (c *CPU) SaveSnapshot(path string) error {
	data, err := c.SnapshotToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RestoreFromBytes replaces the machine state with the contents of a
// snapshot archive. The bus is resized to match the snapshot.
func (c *CPU) RestoreFromBytes(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	var state machineState
	var ram []byte
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("snapshot: open %s: %w", f.Name, err)
		}
		switch f.Name {
		case snapshotStateFile:
			err = json.NewDecoder(rc).Decode(&state)
		case snapshotRAMFile:
			ram, err = io.ReadAll(rc)
		}
		rc.Close()
		if err != nil {
			return fmt.Errorf("snapshot: read %s: %w", f.Name, err)
		}
	}
	if state.RAMSize == 0 || len(ram) != state.RAMSize {
		return fmt.Errorf("snapshot: RAM image is %d bytes, state says %d", len(ram), state.RAMSize)
	}

	c.X = state.X
	c.PC = state.PC
	c.Halted = state.Halted
	c.Waiting = state.Waiting
	c.ExitCode = state.ExitCode
	c.csr = csrFile{
		mstatus:  state.MStatus,
		mtvec:    state.MTVec,
		mscratch: state.MScratch,
		mepc:     state.MEPC,
		mcause:   state.MCause,
		mtval:    state.MTVal,
		cycle:    state.Cycle,
		instret:  state.Instret,
	}
	c.Bus.Base = state.RAMBase
	c.Bus.RAM = ram
	return nil
}

// LoadSnapshot restores the machine from a snapshot file.
func (c *CPU) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.RestoreFromBytes(data)
}
