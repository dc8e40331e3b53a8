//go:build !js

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"rvlator/pkg/cpu"
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

func main() {
	binPath := flag.String("bin", "", "flat binary or ELF executable to run")
	base := flag.Uint64("base", 0x0, "RAM base address, load address and reset vector for flat binaries")
	memSize := flag.Int("mem", 16<<20, "RAM size in bytes")
	maxSteps := flag.Int("steps", 10_000_000, "maximum instructions to execute (0 = unlimited)")
	trace := flag.Bool("trace", false, "print each executed instruction")
	dumpRegs := flag.Bool("regs", false, "dump the register file after every instruction")
	snapshot := flag.String("snapshot", "", "write a machine snapshot to this file after the run")
	flag.Parse()

	if *binPath == "" && flag.NArg() > 0 {
		*binPath = flag.Arg(0)
	}
	if *binPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide a binary with -bin <file>")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*binPath, *base, *memSize, *maxSteps, *trace, *dumpRegs, *snapshot); err != nil {
		fmt.Fprintf(os.Stderr, "run failed for %q: %v\n", *binPath, err)
		os.Exit(1)
	}
}

func run(path string, base uint64, memSize, maxSteps int, trace, dumpRegs bool, snapshot string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var bus *cpu.Bus
	var entry uint64

	if isELF(data, path) {
		// The qemu layout links at 0x80000000; size the RAM window to
		// start there regardless of the -base flag.
		bus = cpu.NewBus(0x8000_0000, memSize)
		entry, err = cpu.LoadELF(path, bus)
		if err != nil {
			return err
		}
	} else {
		bus = cpu.NewBus(base, memSize)
		if err := bus.LoadBinary(base, data); err != nil {
			return fmt.Errorf("program too large for memory: %w", err)
		}
		entry = base
	}

	bus.Map(cpu.UARTBase, cpu.UARTSize, cpu.NewUART(os.Stdout))
	bus.Map(cpu.FrameBase, cpu.FrameSize, cpu.NewFramebuffer())

	vm := cpu.NewCPU(bus)
	vm.Reset(entry)
	if trace {
		vm.Trace = os.Stdout
	}

	steps := maxSteps
	if steps == 0 {
		steps = int(^uint(0) >> 1)
	}
	for i := 0; i < steps && !vm.Halted && !vm.Waiting; i++ {
		if err := vm.Step(); err != nil {
			vm.DumpRegisters(os.Stderr)
			return err
		}
		if dumpRegs {
			vm.DumpRegisters(os.Stdout)
		}
	}

	vm.DumpRegisters(os.Stdout)
	fmt.Printf("run complete (%s): pc=%#x exit=%d\n", path, vm.PC, vm.ExitCode)

	if snapshot != "" {
		if err := vm.SaveSnapshot(snapshot); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}
	return nil
}

func isELF(data []byte, path string) bool {
	return bytes.HasPrefix(data, elfMagic) || strings.HasSuffix(path, ".elf")
}
