package cpu

import (
	"fmt"
	"io"
	"math/bits"
	"os"
)

// Linux-flavored environment call numbers honored when no trap handler is
// installed (mtvec == 0). Bare-metal test programs use these to talk to the
// host.
const (
	SyscallWrite uint64 = 64
	SyscallExit  uint64 = 93
)

// CPU is a single RV64IM hart. The integer register file is exported so
// front-ends and tests can seed and inspect machine state directly.
type CPU struct {
	// X is the integer register file; X[0] is hardwired to zero.
	X [32]uint64
	// PC is the program counter.
	PC uint64

	Bus *Bus

	// Halted is set by the exit environment call, EBREAK without a trap
	// handler, or WFI with nothing left to wake the hart.
	Halted bool
	// Waiting is set by WFI.
	Waiting bool
	// ExitCode is the status passed to the exit environment call.
	ExitCode uint64

	// Trace, when non-nil, receives one disassembly-style line per
	// executed instruction.
	Trace io.Writer
	// Output is the sink for the write environment call. If nil,
	// os.Stdout is used.
	Output io.Writer

	csr csrFile
}

// NewCPU creates a hart attached to bus with the program counter at the
// bus's RAM base, which doubles as the reset vector.
func NewCPU(bus *Bus) *CPU {
	return &CPU{PC: bus.Base, Bus: bus}
}

// Reset rewinds the hart to pc with a cleared register file.
func (c *CPU) Reset(pc uint64) {
	c.X = [32]uint64{}
	c.PC = pc
	c.Halted = false
	c.Waiting = false
	c.ExitCode = 0
	c.csr = csrFile{}
}

func (c *CPU) outputSink() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stdout
}

func (c *CPU) tracef(format string, args ...any) {
	if c.Trace != nil {
		fmt.Fprintf(c.Trace, format+"\n", args...)
	}
}

// fetch reads the 32-bit instruction at PC. Instructions are little-endian
// and must be 4-byte aligned (no compressed extension).
func (c *CPU) fetch() (uint32, *Exception) {
	if c.PC%4 != 0 {
		return 0, &Exception{Cause: ExcInstAddrMisaligned, Addr: c.PC, PC: c.PC}
	}
	v, err := c.Bus.Read(c.PC, 4)
	if err != nil {
		return 0, &Exception{Cause: ExcInstAccessFault, Addr: c.PC, PC: c.PC}
	}
	return uint32(v), nil
}

// trap performs machine-mode exception entry: record the faulting PC and
// cause, then vector to mtvec.
func (c *CPU) trap(e *Exception) {
	c.csr.mepc = e.PC
	c.csr.mcause = uint64(e.Cause)
	c.csr.mtval = e.Addr
	c.PC = c.csr.mtvec &^ 0x3
}

// Step executes one instruction. Exceptions are taken architecturally when a
// trap handler is installed; otherwise they are returned as *Exception.
func (c *CPU) Step() error {
	if c.Halted || c.Waiting {
		return nil
	}

	c.Bus.StepDevices()
	c.csr.cycle++

	inst, exc := c.fetch()
	if exc == nil {
		exc = c.execute(inst)
	}
	c.X[0] = 0

	if exc != nil {
		if c.csr.mtvec != 0 {
			c.trap(exc)
			return nil
		}
		return exc
	}
	c.csr.instret++
	return nil
}

// Run executes until the hart halts or goes to sleep.
func (c *CPU) Run() error {
	for !c.Halted && !c.Waiting {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunFor executes at most n instructions.
func (c *CPU) RunFor(n int) error {
	for i := 0; i < n && !c.Halted && !c.Waiting; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CPU) loadMem(addr uint64, size int, pc uint64) (uint64, *Exception) {
	v, err := c.Bus.Read(addr, size)
	if err != nil {
		return 0, &Exception{Cause: ExcLoadAccessFault, Addr: addr, PC: pc}
	}
	return v, nil
}

func (c *CPU) storeMem(addr uint64, size int, val uint64, pc uint64) *Exception {
	if err := c.Bus.Write(addr, size, val); err != nil {
		return &Exception{Cause: ExcStoreAccessFault, Addr: addr, PC: pc}
	}
	return nil
}

// execute decodes and executes one instruction, updating PC.
func (c *CPU) execute(inst uint32) *Exception {
	pc := c.PC
	next := pc + 4

	illegal := func() *Exception {
		return &Exception{Cause: ExcIllegalInstruction, Addr: uint64(inst), PC: pc}
	}

	if !ValidEncoding(inst) {
		return illegal()
	}

	rd := rd(inst)
	rs1 := rs1(inst)
	rs2 := rs2(inst)

	switch opcode(inst) {
	case OpLUI:
		c.tracef("lui %s,%#x", RegName[rd], inst>>12)
		c.X[rd] = immU(inst)

	case OpAUIPC:
		c.tracef("auipc %s,%#x", RegName[rd], inst>>12)
		c.X[rd] = pc + immU(inst)

	case OpJAL:
		off := immJ(inst)
		c.tracef("jal %s,%d", RegName[rd], int64(off))
		target := pc + off
		if target%4 != 0 {
			return &Exception{Cause: ExcInstAddrMisaligned, Addr: target, PC: pc}
		}
		c.X[rd] = pc + 4
		next = target

	case OpJALR:
		if funct3(inst) != 0 {
			return illegal()
		}
		off := immI(inst)
		c.tracef("jalr %s,%d(%s)", RegName[rd], int64(off), RegName[rs1])
		target := (c.X[rs1] + off) &^ 1
		if target%4 != 0 {
			return &Exception{Cause: ExcInstAddrMisaligned, Addr: target, PC: pc}
		}
		c.X[rd] = pc + 4
		next = target

	case OpBranch:
		off := immB(inst)
		var taken bool
		switch funct3(inst) {
		case 0b000: // BEQ
			c.tracef("beq %s,%s,%d", RegName[rs1], RegName[rs2], int64(off))
			taken = c.X[rs1] == c.X[rs2]
		case 0b001: // BNE
			c.tracef("bne %s,%s,%d", RegName[rs1], RegName[rs2], int64(off))
			taken = c.X[rs1] != c.X[rs2]
		case 0b100: // BLT
			c.tracef("blt %s,%s,%d", RegName[rs1], RegName[rs2], int64(off))
			taken = int64(c.X[rs1]) < int64(c.X[rs2])
		case 0b101: // BGE
			c.tracef("bge %s,%s,%d", RegName[rs1], RegName[rs2], int64(off))
			taken = int64(c.X[rs1]) >= int64(c.X[rs2])
		case 0b110: // BLTU
			c.tracef("bltu %s,%s,%d", RegName[rs1], RegName[rs2], int64(off))
			taken = c.X[rs1] < c.X[rs2]
		case 0b111: // BGEU
			c.tracef("bgeu %s,%s,%d", RegName[rs1], RegName[rs2], int64(off))
			taken = c.X[rs1] >= c.X[rs2]
		default:
			return illegal()
		}
		if taken {
			target := pc + off
			if target%4 != 0 {
				return &Exception{Cause: ExcInstAddrMisaligned, Addr: target, PC: pc}
			}
			next = target
		}

	case OpLoad:
		addr := c.X[rs1] + immI(inst)
		var v uint64
		var exc *Exception
		switch funct3(inst) {
		case 0b000: // LB
			c.tracef("lb %s,%d(%s)", RegName[rd], int64(immI(inst)), RegName[rs1])
			if v, exc = c.loadMem(addr, 1, pc); exc == nil {
				v = signExtend(v, 8)
			}
		case 0b001: // LH
			c.tracef("lh %s,%d(%s)", RegName[rd], int64(immI(inst)), RegName[rs1])
			if v, exc = c.loadMem(addr, 2, pc); exc == nil {
				v = signExtend(v, 16)
			}
		case 0b010: // LW
			c.tracef("lw %s,%d(%s)", RegName[rd], int64(immI(inst)), RegName[rs1])
			if v, exc = c.loadMem(addr, 4, pc); exc == nil {
				v = signExtend(v, 32)
			}
		case 0b011: // LD
			c.tracef("ld %s,%d(%s)", RegName[rd], int64(immI(inst)), RegName[rs1])
			v, exc = c.loadMem(addr, 8, pc)
		case 0b100: // LBU
			c.tracef("lbu %s,%d(%s)", RegName[rd], int64(immI(inst)), RegName[rs1])
			v, exc = c.loadMem(addr, 1, pc)
		case 0b101: // LHU
			c.tracef("lhu %s,%d(%s)", RegName[rd], int64(immI(inst)), RegName[rs1])
			v, exc = c.loadMem(addr, 2, pc)
		case 0b110: // LWU
			c.tracef("lwu %s,%d(%s)", RegName[rd], int64(immI(inst)), RegName[rs1])
			v, exc = c.loadMem(addr, 4, pc)
		default:
			return illegal()
		}
		if exc != nil {
			return exc
		}
		c.X[rd] = v

	case OpStore:
		addr := c.X[rs1] + immS(inst)
		var exc *Exception
		switch funct3(inst) {
		case 0b000: // SB
			c.tracef("sb %s,%d(%s)", RegName[rs2], int64(immS(inst)), RegName[rs1])
			exc = c.storeMem(addr, 1, c.X[rs2], pc)
		case 0b001: // SH
			c.tracef("sh %s,%d(%s)", RegName[rs2], int64(immS(inst)), RegName[rs1])
			exc = c.storeMem(addr, 2, c.X[rs2], pc)
		case 0b010: // SW
			c.tracef("sw %s,%d(%s)", RegName[rs2], int64(immS(inst)), RegName[rs1])
			exc = c.storeMem(addr, 4, c.X[rs2], pc)
		case 0b011: // SD
			c.tracef("sd %s,%d(%s)", RegName[rs2], int64(immS(inst)), RegName[rs1])
			exc = c.storeMem(addr, 8, c.X[rs2], pc)
		default:
			return illegal()
		}
		if exc != nil {
			return exc
		}

	case OpImm:
		imm := immI(inst)
		switch funct3(inst) {
		case 0b000: // ADDI
			c.tracef("addi %s,%s,%d", RegName[rd], RegName[rs1], int64(imm))
			c.X[rd] = c.X[rs1] + imm
		case 0b001: // SLLI
			if inst>>26 != 0 {
				return illegal()
			}
			sh := shamt6(inst)
			c.tracef("slli %s,%s,%d", RegName[rd], RegName[rs1], sh)
			c.X[rd] = c.X[rs1] << sh
		case 0b010: // SLTI
			c.tracef("slti %s,%s,%d", RegName[rd], RegName[rs1], int64(imm))
			c.X[rd] = boolToReg(int64(c.X[rs1]) < int64(imm))
		case 0b011: // SLTIU
			c.tracef("sltiu %s,%s,%d", RegName[rd], RegName[rs1], int64(imm))
			c.X[rd] = boolToReg(c.X[rs1] < imm)
		case 0b100: // XORI
			c.tracef("xori %s,%s,%d", RegName[rd], RegName[rs1], int64(imm))
			c.X[rd] = c.X[rs1] ^ imm
		case 0b101: // SRLI / SRAI
			sh := shamt6(inst)
			switch inst >> 26 {
			case 0x00:
				c.tracef("srli %s,%s,%d", RegName[rd], RegName[rs1], sh)
				c.X[rd] = c.X[rs1] >> sh
			case 0x10:
				c.tracef("srai %s,%s,%d", RegName[rd], RegName[rs1], sh)
				c.X[rd] = uint64(int64(c.X[rs1]) >> sh)
			default:
				return illegal()
			}
		case 0b110: // ORI
			c.tracef("ori %s,%s,%d", RegName[rd], RegName[rs1], int64(imm))
			c.X[rd] = c.X[rs1] | imm
		case 0b111: // ANDI
			c.tracef("andi %s,%s,%d", RegName[rd], RegName[rs1], int64(imm))
			c.X[rd] = c.X[rs1] & imm
		}

	case OpImm32:
		switch funct3(inst) {
		case 0b000: // ADDIW
			imm := immI(inst)
			c.tracef("addiw %s,%s,%d", RegName[rd], RegName[rs1], int64(imm))
			c.X[rd] = uint64(int64(int32(c.X[rs1] + imm)))
		case 0b001: // SLLIW
			if funct7(inst) != 0 {
				return illegal()
			}
			sh := shamt5(inst)
			c.tracef("slliw %s,%s,%d", RegName[rd], RegName[rs1], sh)
			c.X[rd] = uint64(int64(int32(c.X[rs1]) << sh))
		case 0b101: // SRLIW / SRAIW
			sh := shamt5(inst)
			switch funct7(inst) {
			case 0x00:
				c.tracef("srliw %s,%s,%d", RegName[rd], RegName[rs1], sh)
				c.X[rd] = uint64(int64(int32(uint32(c.X[rs1]) >> sh)))
			case 0x20:
				c.tracef("sraiw %s,%s,%d", RegName[rd], RegName[rs1], sh)
				c.X[rd] = uint64(int64(int32(c.X[rs1]) >> sh))
			default:
				return illegal()
			}
		default:
			return illegal()
		}

	case OpReg:
		if exc := c.executeReg(inst, pc, rd, rs1, rs2); exc != nil {
			return exc
		}

	case OpReg32:
		if exc := c.executeReg32(inst, pc, rd, rs1, rs2); exc != nil {
			return exc
		}

	case OpMiscMem:
		// FENCE and FENCE.I order nothing on a single in-order hart.
		c.tracef("fence")

	case OpSystem:
		n, redirect, exc := c.executeSystem(inst, pc, rd, rs1)
		if exc != nil {
			return exc
		}
		if redirect {
			next = n
		}

	default:
		return illegal()
	}

	c.PC = next
	return nil
}

func boolToReg(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) executeReg(inst uint32, pc uint64, rd, rs1, rs2 uint32) *Exception {
	a, b := c.X[rs1], c.X[rs2]
	switch funct7(inst)<<3 | funct3(inst) {
	case 0x00<<3 | 0b000: // ADD
		c.tracef("add %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a + b
	case 0x20<<3 | 0b000: // SUB
		c.tracef("sub %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a - b
	case 0x00<<3 | 0b001: // SLL
		c.tracef("sll %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a << (b & 0x3F)
	case 0x00<<3 | 0b010: // SLT
		c.tracef("slt %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = boolToReg(int64(a) < int64(b))
	case 0x00<<3 | 0b011: // SLTU
		c.tracef("sltu %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = boolToReg(a < b)
	case 0x00<<3 | 0b100: // XOR
		c.tracef("xor %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a ^ b
	case 0x00<<3 | 0b101: // SRL
		c.tracef("srl %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a >> (b & 0x3F)
	case 0x20<<3 | 0b101: // SRA
		c.tracef("sra %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = uint64(int64(a) >> (b & 0x3F))
	case 0x00<<3 | 0b110: // OR
		c.tracef("or %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a | b
	case 0x00<<3 | 0b111: // AND
		c.tracef("and %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a & b

	// M extension
	case 0x01<<3 | 0b000: // MUL
		c.tracef("mul %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = a * b
	case 0x01<<3 | 0b001: // MULH
		c.tracef("mulh %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = mulhSS(int64(a), int64(b))
	case 0x01<<3 | 0b010: // MULHSU
		c.tracef("mulhsu %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = mulhSU(int64(a), b)
	case 0x01<<3 | 0b011: // MULHU
		c.tracef("mulhu %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		hi, _ := bits.Mul64(a, b)
		c.X[rd] = hi
	case 0x01<<3 | 0b100: // DIV
		c.tracef("div %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = divS(int64(a), int64(b))
	case 0x01<<3 | 0b101: // DIVU
		c.tracef("divu %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		if b == 0 {
			c.X[rd] = ^uint64(0)
		} else {
			c.X[rd] = a / b
		}
	case 0x01<<3 | 0b110: // REM
		c.tracef("rem %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = remS(int64(a), int64(b))
	case 0x01<<3 | 0b111: // REMU
		c.tracef("remu %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		if b == 0 {
			c.X[rd] = a
		} else {
			c.X[rd] = a % b
		}

	default:
		return &Exception{Cause: ExcIllegalInstruction, Addr: uint64(inst), PC: pc}
	}
	return nil
}

func (c *CPU) executeReg32(inst uint32, pc uint64, rd, rs1, rs2 uint32) *Exception {
	a, b := uint32(c.X[rs1]), uint32(c.X[rs2])
	sext := func(v int32) uint64 { return uint64(int64(v)) }
	switch funct7(inst)<<3 | funct3(inst) {
	case 0x00<<3 | 0b000: // ADDW
		c.tracef("addw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(int32(a + b))
	case 0x20<<3 | 0b000: // SUBW
		c.tracef("subw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(int32(a - b))
	case 0x00<<3 | 0b001: // SLLW
		c.tracef("sllw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(int32(a) << (b & 0x1F))
	case 0x00<<3 | 0b101: // SRLW
		c.tracef("srlw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(int32(a >> (b & 0x1F)))
	case 0x20<<3 | 0b101: // SRAW
		c.tracef("sraw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(int32(a) >> (b & 0x1F))

	// RV64M word variants
	case 0x01<<3 | 0b000: // MULW
		c.tracef("mulw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(int32(a) * int32(b))
	case 0x01<<3 | 0b100: // DIVW
		c.tracef("divw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(divW(int32(a), int32(b)))
	case 0x01<<3 | 0b101: // DIVUW
		c.tracef("divuw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		if b == 0 {
			c.X[rd] = sext(-1)
		} else {
			c.X[rd] = sext(int32(a / b))
		}
	case 0x01<<3 | 0b110: // REMW
		c.tracef("remw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		c.X[rd] = sext(remW(int32(a), int32(b)))
	case 0x01<<3 | 0b111: // REMUW
		c.tracef("remuw %s,%s,%s", RegName[rd], RegName[rs1], RegName[rs2])
		if b == 0 {
			c.X[rd] = sext(int32(a))
		} else {
			c.X[rd] = sext(int32(a % b))
		}

	default:
		return &Exception{Cause: ExcIllegalInstruction, Addr: uint64(inst), PC: pc}
	}
	return nil
}

// executeSystem handles ECALL, EBREAK, MRET, WFI and the Zicsr operations.
// When redirect is true the returned PC replaces the fall-through PC (MRET).
func (c *CPU) executeSystem(inst uint32, pc uint64, rd, rs1 uint32) (uint64, bool, *Exception) {
	illegal := func() (uint64, bool, *Exception) {
		return 0, false, &Exception{Cause: ExcIllegalInstruction, Addr: uint64(inst), PC: pc}
	}

	if funct3(inst) == 0 {
		switch inst {
		case 0x0000_0073: // ECALL
			c.tracef("ecall")
			if c.csr.mtvec != 0 {
				return 0, false, &Exception{Cause: ExcEcallMMode, Addr: 0, PC: pc}
			}
			c.hostCall()
			return 0, false, nil
		case 0x0010_0073: // EBREAK
			c.tracef("ebreak")
			if c.csr.mtvec != 0 {
				return 0, false, &Exception{Cause: ExcBreakpoint, Addr: pc, PC: pc}
			}
			c.Halted = true
			return 0, false, nil
		case 0x3020_0073: // MRET
			c.tracef("mret")
			return c.csr.mepc, true, nil
		case 0x1050_0073: // WFI
			c.tracef("wfi")
			c.Waiting = true
			return 0, false, nil
		}
		return illegal()
	}

	// Zicsr
	addr := csrAddr(inst)
	old, ok := c.csr.read(addr)
	if !ok {
		return illegal()
	}
	var src uint64
	if funct3(inst)&0x4 != 0 {
		src = uint64(rs1) // zimm form
	} else {
		src = c.X[rs1]
	}

	write := func(val uint64) bool { return c.csr.write(addr, val) }
	switch funct3(inst) & 0x3 {
	case 0b01: // CSRRW / CSRRWI
		c.tracef("csrrw %s,%#x", RegName[rd], addr)
		if !write(src) {
			return illegal()
		}
	case 0b10: // CSRRS / CSRRSI
		c.tracef("csrrs %s,%#x", RegName[rd], addr)
		if rs1 != 0 && !write(old|src) {
			return illegal()
		}
	case 0b11: // CSRRC / CSRRCI
		c.tracef("csrrc %s,%#x", RegName[rd], addr)
		if rs1 != 0 && !write(old&^src) {
			return illegal()
		}
	default:
		return illegal()
	}
	c.X[rd] = old
	return 0, false, nil
}

// hostCall services an ECALL when no guest trap handler exists. The calling
// convention follows the bare-metal newlib/Linux habit: a7 selects the call,
// a0..a2 carry arguments, a0 receives the result.
func (c *CPU) hostCall() {
	switch c.X[17] { // a7
	case SyscallExit:
		c.Halted = true
		c.ExitCode = c.X[10]
	case SyscallWrite:
		buf, length := c.X[11], c.X[12]
		data := make([]byte, 0, length)
		for i := uint64(0); i < length; i++ {
			v, err := c.Bus.Read(buf+i, 1)
			if err != nil {
				break
			}
			data = append(data, byte(v))
		}
		c.outputSink().Write(data)
		c.X[10] = uint64(len(data))
	default:
		c.X[10] = ^uint64(0)
	}
}

func mulhSS(a, b int64) uint64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return hi
}

func mulhSU(a int64, b uint64) uint64 {
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return hi
}

func divS(a, b int64) uint64 {
	switch {
	case b == 0:
		return ^uint64(0)
	case a == -1<<63 && b == -1: // overflow
		return uint64(a)
	default:
		return uint64(a / b)
	}
}

func remS(a, b int64) uint64 {
	switch {
	case b == 0:
		return uint64(a)
	case a == -1<<63 && b == -1:
		return 0
	default:
		return uint64(a % b)
	}
}

func divW(a, b int32) int32 {
	switch {
	case b == 0:
		return -1
	case a == -1<<31 && b == -1:
		return a
	default:
		return a / b
	}
}

func remW(a, b int32) int32 {
	switch {
	case b == 0:
		return a
	case a == -1<<31 && b == -1:
		return 0
	default:
		return a % b
	}
}
