package cpu

import (
	"bytes"
	"testing"
)

const ebreak uint32 = 0x0010_0073

// newTestMachine builds a hart with 1 MiB of RAM at base.
func newTestMachine(base uint64) *CPU {
	return NewCPU(NewBus(base, 1<<20))
}

// loadProgram writes 32-bit instruction words into RAM starting at addr.
func loadProgram(c *CPU, addr uint64, words ...uint32) {
	for i, w := range words {
		if err := c.Bus.Write(addr+uint64(i)*4, 4, uint64(w)); err != nil {
			panic(err)
		}
	}
}

// runProgram loads words at the reset vector and runs until the hart stops.
func runProgram(t *testing.T, c *CPU, words ...uint32) {
	t.Helper()
	loadProgram(c, c.PC, words...)
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
}

const (
	a0 = 10
	a1 = 11
	a2 = 12
	a3 = 13
	a4 = 14
	a5 = 15
)

func TestOpImm(t *testing.T) {
	c := newTestMachine(0)
	c.X[a1] = 20
	runProgram(t, c,
		EncodeI(OpImm, a0, 0b000, a1, -3),     // addi a0,a1,-3
		EncodeI(OpImm, a2, 0b010, a1, 21),     // slti a2,a1,21
		EncodeI(OpImm, a3, 0b011, a1, 5),      // sltiu a3,a1,5
		EncodeI(OpImm, a4, 0b100, a1, 0xFF),   // xori a4,a1,0xff
		EncodeI(OpImm, a5, 0b110, a1, 0x0F),   // ori a5,a1,0xf
		EncodeI(OpImm, 16, 0b111, a1, 0x1C),   // andi a6,a1,0x1c
		ebreak,
	)
	if got := c.X[a0]; got != 17 {
		t.Errorf("addi: expected 17, got %d", got)
	}
	if c.X[a2] != 1 {
		t.Errorf("slti: expected 1, got %d", c.X[a2])
	}
	if c.X[a3] != 0 {
		t.Errorf("sltiu: expected 0, got %d", c.X[a3])
	}
	if got := c.X[a4]; got != 20^0xFF {
		t.Errorf("xori: expected %d, got %d", 20^0xFF, got)
	}
	if got := c.X[a5]; got != 20|0x0F {
		t.Errorf("ori: expected %d, got %d", 20|0x0F, got)
	}
	if got := c.X[16]; got != 20&0x1C {
		t.Errorf("andi: expected %d, got %d", 20&0x1C, got)
	}
}

func TestShiftsImm(t *testing.T) {
	c := newTestMachine(0)
	c.X[a1] = 0xFFFF_FFFF_FFFF_FFF0 // -16
	c.X[a2] = 5
	runProgram(t, c,
		EncodeI(OpImm, a0, 0b001, a2, 3),            // slli a0,a2,3
		EncodeI(OpImm, a3, 0b101, a1, 2),            // srli a3,a1,2
		EncodeI(OpImm, a4, 0b101, a1, 2|0x400),      // srai a4,a1,2
		EncodeI(OpImm, a5, 0b001, a2, 63),           // slli a5,a2,63
		ebreak,
	)
	if c.X[a0] != 40 {
		t.Errorf("slli: expected 40, got %d", c.X[a0])
	}
	if got := c.X[a3]; got != 0xFFFF_FFFF_FFFF_FFF0>>2 {
		t.Errorf("srli: expected %#x, got %#x", uint64(0xFFFF_FFFF_FFFF_FFF0)>>2, got)
	}
	if got := int64(c.X[a4]); got != -4 {
		t.Errorf("srai: expected -4, got %d", got)
	}
	if got := c.X[a5]; got != 1<<63 {
		t.Errorf("slli by 63: expected %#x, got %#x", uint64(1)<<63, got)
	}
}

func TestOpReg(t *testing.T) {
	c := newTestMachine(0)
	c.X[a1] = 10
	c.X[a2] = 3
	c.X[a3] = ^uint64(0) // -1
	runProgram(t, c,
		EncodeR(OpReg, a0, 0b000, a1, a2, 0x00), // add
		EncodeR(OpReg, a4, 0b000, a1, a2, 0x20), // sub
		EncodeR(OpReg, a5, 0b001, a1, a2, 0x00), // sll
		EncodeR(OpReg, 16, 0b010, a3, a2, 0x00), // slt (-1 < 3)
		EncodeR(OpReg, 17, 0b011, a3, a2, 0x00), // sltu (max > 3)
		EncodeR(OpReg, 18, 0b100, a1, a2, 0x00), // xor
		EncodeR(OpReg, 19, 0b101, a1, a2, 0x00), // srl
		EncodeR(OpReg, 20, 0b101, a3, a2, 0x20), // sra (-1 >> 3)
		EncodeR(OpReg, 21, 0b110, a1, a2, 0x00), // or
		EncodeR(OpReg, 22, 0b111, a1, a2, 0x00), // and
		ebreak,
	)
	checks := []struct {
		name string
		reg  int
		want uint64
	}{
		{"add", a0, 13},
		{"sub", a4, 7},
		{"sll", a5, 80},
		{"slt", 16, 1},
		{"sltu", 17, 0},
		{"xor", 18, 9},
		{"srl", 19, 1},
		{"sra", 20, ^uint64(0)},
		{"or", 21, 11},
		{"and", 22, 2},
	}
	for _, tc := range checks {
		if got := c.X[tc.reg]; got != tc.want {
			t.Errorf("%s: expected %#x, got %#x", tc.name, tc.want, got)
		}
	}
}

func TestWordOps(t *testing.T) {
	c := newTestMachine(0)
	c.X[a1] = 0x7FFF_FFFF
	c.X[a2] = 1
	runProgram(t, c,
		EncodeI(OpImm32, a0, 0b000, a1, 1),      // addiw a0,a1,1 -> overflow to min int32
		EncodeR(OpReg32, a3, 0b000, a1, a2, 0),  // addw
		EncodeR(OpReg32, a4, 0b000, a2, a1, 0x20), // subw 1 - 0x7fffffff
		EncodeI(OpImm32, a5, 0b001, a2, 31),     // slliw a5,a2,31
		ebreak,
	)
	if got := int64(c.X[a0]); got != -2147483648 {
		t.Errorf("addiw overflow: expected -2147483648, got %d", got)
	}
	if got := int64(c.X[a3]); got != -2147483648 {
		t.Errorf("addw overflow: expected -2147483648, got %d", got)
	}
	if got := int64(c.X[a4]); got != int64(int32(1-0x7FFFFFFF)) {
		t.Errorf("subw: expected %d, got %d", int32(1-0x7FFFFFFF), got)
	}
	if got := int64(c.X[a5]); got != -2147483648 {
		t.Errorf("slliw: expected -2147483648, got %d", got)
	}
}

func TestMulDiv(t *testing.T) {
	c := newTestMachine(0)
	c.X[a1] = 7
	c.X[a2] = uint64(^uint64(0)) // -1
	c.X[a3] = 0
	c.X[a4] = 1 << 63 // min int64
	runProgram(t, c,
		EncodeR(OpReg, a0, 0b000, a1, a1, 0x01), // mul 7*7
		EncodeR(OpReg, a5, 0b100, a1, a3, 0x01), // div 7/0
		EncodeR(OpReg, 16, 0b110, a1, a3, 0x01), // rem 7%0
		EncodeR(OpReg, 17, 0b100, a4, a2, 0x01), // div min/-1 (overflow)
		EncodeR(OpReg, 18, 0b110, a4, a2, 0x01), // rem min%-1
		EncodeR(OpReg, 19, 0b011, a2, a2, 0x01), // mulhu max*max
		EncodeR(OpReg, 20, 0b001, a2, a2, 0x01), // mulh -1*-1
		EncodeR(OpReg, 21, 0b101, a1, a3, 0x01), // divu 7/0
		ebreak,
	)
	if c.X[a0] != 49 {
		t.Errorf("mul: expected 49, got %d", c.X[a0])
	}
	if got := int64(c.X[a5]); got != -1 {
		t.Errorf("div by zero: expected -1, got %d", got)
	}
	if c.X[16] != 7 {
		t.Errorf("rem by zero: expected dividend 7, got %d", c.X[16])
	}
	if c.X[17] != 1<<63 {
		t.Errorf("div overflow: expected %#x, got %#x", uint64(1)<<63, c.X[17])
	}
	if c.X[18] != 0 {
		t.Errorf("rem overflow: expected 0, got %d", c.X[18])
	}
	if got := c.X[19]; got != ^uint64(0)-1 {
		t.Errorf("mulhu: expected %#x, got %#x", ^uint64(0)-1, got)
	}
	if c.X[20] != 0 {
		t.Errorf("mulh -1*-1: expected 0, got %d", c.X[20])
	}
	if c.X[21] != ^uint64(0) {
		t.Errorf("divu by zero: expected all ones, got %#x", c.X[21])
	}
}

func TestBranches(t *testing.T) {
	// Each program branches over an addi that would poison the result.
	cases := []struct {
		name   string
		f3     uint32
		v1, v2 uint64
		taken  bool
	}{
		{"beq taken", 0b000, 5, 5, true},
		{"beq not taken", 0b000, 5, 6, false},
		{"bne taken", 0b001, 5, 6, true},
		{"blt signed", 0b100, ^uint64(0), 1, true}, // -1 < 1
		{"bge signed", 0b101, 1, ^uint64(0), true}, // 1 >= -1
		{"bltu unsigned", 0b110, 1, ^uint64(0), true},
		{"bgeu unsigned", 0b111, ^uint64(0), 1, true},
	}
	for _, tc := range cases {
		c := newTestMachine(0)
		c.X[a1] = tc.v1
		c.X[a2] = tc.v2
		runProgram(t, c,
			EncodeB(OpBranch, tc.f3, a1, a2, 8), // skip next inst if taken
			EncodeI(OpImm, a0, 0b000, 0, 1),     // addi a0,zero,1
			ebreak,
		)
		poisoned := c.X[a0] == 1
		if poisoned == tc.taken {
			t.Errorf("%s: branch taken=%v, want %v", tc.name, !poisoned, tc.taken)
		}
	}
}

func TestBackwardBranch(t *testing.T) {
	// Count a0 down from 3 with a backward bne.
	c := newTestMachine(0)
	c.X[a0] = 3
	runProgram(t, c,
		EncodeI(OpImm, a1, 0b000, a1, 1),     // addi a1,a1,1   (iteration count)
		EncodeI(OpImm, a0, 0b000, a0, -1),    // addi a0,a0,-1
		EncodeB(OpBranch, 0b001, a0, 0, -8),  // bne a0,zero,-8
		ebreak,
	)
	if c.X[a0] != 0 {
		t.Errorf("loop counter: expected 0, got %d", c.X[a0])
	}
	if c.X[a1] != 3 {
		t.Errorf("iterations: expected 3, got %d", c.X[a1])
	}
}

func TestJalJalr(t *testing.T) {
	c := newTestMachine(0)
	runProgram(t, c,
		EncodeJ(OpJAL, 1, 12),            // jal ra,+12
		ebreak,                           // jalr returns here
		EncodeI(OpImm, a0, 0b000, 0, 99), // never executed
		EncodeI(OpImm, a1, 0b000, 0, 7),  // jal target: addi a1,zero,7
		EncodeI(OpJALR, 5, 0b000, 1, 1),  // jalr t0,1(ra) -> bit 0 cleared -> 4
	)
	if c.X[1] != 4 {
		t.Errorf("jal link: expected 4, got %d", c.X[1])
	}
	if c.X[a0] == 99 {
		t.Errorf("jal did not skip")
	}
	if c.X[a1] != 7 {
		t.Errorf("jal target not executed: a1=%d", c.X[a1])
	}
	if c.X[5] != 20 {
		t.Errorf("jalr link: expected 20, got %d", c.X[5])
	}
}

func TestLuiAuipc(t *testing.T) {
	c := newTestMachine(0)
	runProgram(t, c,
		EncodeU(OpLUI, a0, 0x12345),
		EncodeU(OpAUIPC, a1, 0x1), // pc=4 here
		EncodeU(OpLUI, a2, 0x80000), // negative upper immediate
		ebreak,
	)
	if got := c.X[a0]; got != 0x12345000 {
		t.Errorf("lui: expected 0x12345000, got %#x", got)
	}
	if got := c.X[a1]; got != 0x1004 {
		t.Errorf("auipc: expected 0x1004, got %#x", got)
	}
	if got := int64(c.X[a2]); got != -0x80000000 {
		t.Errorf("lui sign extension: expected %#x, got %#x", -0x80000000, got)
	}
}

func TestLoadStore(t *testing.T) {
	c := newTestMachine(0)
	c.X[a1] = 0x1000                  // buffer
	c.X[a2] = 0xFFFF_FFFF_8000_1234   // pattern with high bits
	runProgram(t, c,
		EncodeS(OpStore, 0b011, a1, a2, 0),  // sd
		EncodeI(OpLoad, a0, 0b011, a1, 0),   // ld
		EncodeI(OpLoad, a3, 0b010, a1, 0),   // lw (sext)
		EncodeI(OpLoad, a4, 0b110, a1, 0),   // lwu (zext)
		EncodeI(OpLoad, a5, 0b000, a1, 1),   // lb at offset 1 -> 0x12
		EncodeS(OpStore, 0b000, a1, a2, 8),  // sb -> 0x34
		EncodeI(OpLoad, 16, 0b100, a1, 8),   // lbu
		EncodeS(OpStore, 0b001, a1, a2, 10), // sh
		EncodeI(OpLoad, 17, 0b101, a1, 10),  // lhu
		ebreak,
	)
	if c.X[a0] != 0xFFFF_FFFF_8000_1234 {
		t.Errorf("sd/ld: got %#x", c.X[a0])
	}
	if got := int64(c.X[a3]); got != -0x7FFF_EDCC { // 0x80001234 sign-extended
		t.Errorf("lw sext: got %#x", c.X[a3])
	}
	if c.X[a4] != 0x80001234 {
		t.Errorf("lwu zext: got %#x", c.X[a4])
	}
	if c.X[a5] != 0x12 {
		t.Errorf("lb: got %#x", c.X[a5])
	}
	if c.X[16] != 0x34 {
		t.Errorf("sb/lbu: got %#x", c.X[16])
	}
	if c.X[17] != 0x1234 {
		t.Errorf("sh/lhu: got %#x", c.X[17])
	}
}

func TestStoreAdvancesPC(t *testing.T) {
	c := newTestMachine(0)
	c.X[a1] = 0x100
	c.X[a2] = 0xBEEF
	loadProgram(c, 0,
		EncodeS(OpStore, 0b011, a1, a2, 0), // sd
		ebreak,
	)
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if c.PC != 4 {
		t.Fatalf("pc after store: expected 4, got %#x", c.PC)
	}
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if !c.Halted {
		t.Error("store looped instead of reaching the next instruction")
	}
}

func TestX0Hardwired(t *testing.T) {
	c := newTestMachine(0)
	runProgram(t, c,
		EncodeI(OpImm, 0, 0b000, 0, 5), // addi zero,zero,5
		ebreak,
	)
	if c.X[0] != 0 {
		t.Errorf("x0: expected 0, got %d", c.X[0])
	}
}

func TestExitSyscall(t *testing.T) {
	c := newTestMachine(0)
	runProgram(t, c,
		EncodeI(OpImm, 17, 0b000, 0, 93), // addi a7,zero,93
		EncodeI(OpImm, 10, 0b000, 0, 7),  // addi a0,zero,7
		0x0000_0073,                      // ecall
	)
	if !c.Halted {
		t.Fatal("exit syscall did not halt")
	}
	if c.ExitCode != 7 {
		t.Errorf("exit code: expected 7, got %d", c.ExitCode)
	}
}

func TestWriteSyscall(t *testing.T) {
	c := newTestMachine(0)
	var out bytes.Buffer
	c.Output = &out

	msg := "hi\n"
	for i, b := range []byte(msg) {
		if err := c.Bus.Write(uint64(0x400+i), 1, uint64(b)); err != nil {
			t.Fatal(err)
		}
	}
	runProgram(t, c,
		EncodeI(OpImm, 17, 0b000, 0, 64),    // a7 = write
		EncodeI(OpImm, 10, 0b000, 0, 1),     // a0 = fd
		EncodeI(OpImm, 11, 0b000, 0, 0x400), // a1 = buf
		EncodeI(OpImm, 12, 0b000, 0, 3),     // a2 = len
		0x0000_0073,                         // ecall
		ebreak,
	)
	if out.String() != msg {
		t.Errorf("write syscall: expected %q, got %q", msg, out.String())
	}
	if c.X[10] != 3 {
		t.Errorf("write return: expected 3, got %d", c.X[10])
	}
}

func TestWFI(t *testing.T) {
	c := newTestMachine(0)
	runProgram(t, c, 0x1050_0073)
	if !c.Waiting {
		t.Error("wfi did not put the hart to sleep")
	}
	if c.Halted {
		t.Error("wfi must not halt")
	}
}

func TestQemuMemoryLayout(t *testing.T) {
	// The qemutest build links at 0x80000000; the same program must run
	// unchanged with the RAM window based there.
	c := newTestMachine(0x8000_0000)
	c.Reset(0x8000_0000)
	runProgram(t, c,
		EncodeI(OpImm, a0, 0b000, 0, 42),
		ebreak,
	)
	if c.X[a0] != 42 {
		t.Errorf("expected 42, got %d", c.X[a0])
	}
	if c.PC != 0x8000_0008 {
		t.Errorf("pc: expected %#x, got %#x", 0x8000_0008, c.PC)
	}
}

func TestTraceOutput(t *testing.T) {
	c := newTestMachine(0)
	var trace bytes.Buffer
	c.Trace = &trace
	runProgram(t, c,
		EncodeI(OpImm, a0, 0b000, a1, 4), // addi a0,a1,4
		ebreak,
	)
	want := "addi a0,a1,4\nebreak\n"
	if trace.String() != want {
		t.Errorf("trace: expected %q, got %q", want, trace.String())
	}
}

func TestDumpRegisters(t *testing.T) {
	c := newTestMachine(0)
	c.X[10] = 0xDEAD
	var buf bytes.Buffer
	c.DumpRegisters(&buf)
	s := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("[a0]")) {
		t.Errorf("dump missing a0: %q", s)
	}
	if !bytes.Contains(buf.Bytes(), []byte("0x000000000000dead")) {
		t.Errorf("dump missing value: %q", s)
	}
}
