package cpu

// Major opcodes (inst[6:0]) of the 32-bit encoding.
const (
	OpLoad    uint32 = 0x03
	OpMiscMem uint32 = 0x0F
	OpImm     uint32 = 0x13
	OpAUIPC   uint32 = 0x17
	OpImm32   uint32 = 0x1B
	OpStore   uint32 = 0x23
	OpReg     uint32 = 0x33
	OpLUI     uint32 = 0x37
	OpReg32   uint32 = 0x3B
	OpBranch  uint32 = 0x63
	OpJALR    uint32 = 0x67
	OpJAL     uint32 = 0x6F
	OpSystem  uint32 = 0x73
)

func bitmask32(width, pos uint32) uint32 {
	return ((1 << width) - 1) << pos
}

func getfield32(val, width, pos uint32) uint32 {
	return (val & bitmask32(width, pos)) >> pos
}

// signExtend interprets the low bits of val as a two's-complement value
// and widens it to 64 bits.
func signExtend(val uint64, bits uint) uint64 {
	if (val>>(bits-1))&1 == 1 {
		return val | (^uint64(0) << bits)
	}
	return val
}

func opcode(inst uint32) uint32 { return getfield32(inst, 7, 0) }
func rd(inst uint32) uint32     { return getfield32(inst, 5, 7) }
func funct3(inst uint32) uint32 { return getfield32(inst, 3, 12) }
func rs1(inst uint32) uint32    { return getfield32(inst, 5, 15) }
func rs2(inst uint32) uint32    { return getfield32(inst, 5, 20) }
func funct7(inst uint32) uint32 { return getfield32(inst, 7, 25) }

// shamt6 is the 6-bit shift amount of RV64 immediate shifts (inst[25:20]).
func shamt6(inst uint32) uint32 { return getfield32(inst, 6, 20) }

// shamt5 is the 5-bit shift amount of the *W immediate shifts.
func shamt5(inst uint32) uint32 { return getfield32(inst, 5, 20) }

// csrAddr is the CSR number of a Zicsr instruction (inst[31:20]).
func csrAddr(inst uint32) uint32 { return getfield32(inst, 12, 20) }

// Immediate extraction, one function per instruction format. All return the
// sign-extended 64-bit value.

func immI(inst uint32) uint64 {
	return signExtend(uint64(inst>>20), 12)
}

func immS(inst uint32) uint64 {
	v := getfield32(inst, 7, 25)<<5 | getfield32(inst, 5, 7)
	return signExtend(uint64(v), 12)
}

func immB(inst uint32) uint64 {
	v := getfield32(inst, 1, 31)<<12 |
		getfield32(inst, 1, 7)<<11 |
		getfield32(inst, 6, 25)<<5 |
		getfield32(inst, 4, 8)<<1
	return signExtend(uint64(v), 13)
}

func immU(inst uint32) uint64 {
	return signExtend(uint64(inst&0xFFFFF000), 32)
}

func immJ(inst uint32) uint64 {
	v := getfield32(inst, 1, 31)<<20 |
		getfield32(inst, 8, 12)<<12 |
		getfield32(inst, 1, 20)<<11 |
		getfield32(inst, 10, 21)<<1
	return signExtend(uint64(v), 21)
}

// ValidEncoding reports whether inst is a well-formed 32-bit instruction:
// inst[1:0] must be 0b11 and inst[4:2] must not be 0b111. The all-zero and
// all-one words fail this check, as do the 16-bit compressed encodings.
func ValidEncoding(inst uint32) bool {
	return inst&0x3 == 0x3 && getfield32(inst, 3, 2) != 0x7
}

// Instruction encoders, mainly used to build programs in tests.

func EncodeR(op, dst, f3, src1, src2, f7 uint32) uint32 {
	return f7<<25 | (src2&0x1F)<<20 | (src1&0x1F)<<15 | f3<<12 | (dst&0x1F)<<7 | op
}

func EncodeI(op, dst, f3, src1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | (src1&0x1F)<<15 | f3<<12 | (dst&0x1F)<<7 | op
}

func EncodeS(op, f3, src1, src2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xFFF
	return (u>>5)<<25 | (src2&0x1F)<<20 | (src1&0x1F)<<15 | f3<<12 | (u&0x1F)<<7 | op
}

func EncodeB(op, f3, src1, src2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0x1FFF
	return ((u>>12)&0x1)<<31 | ((u>>5)&0x3F)<<25 | (src2&0x1F)<<20 |
		(src1&0x1F)<<15 | f3<<12 | ((u>>1)&0xF)<<8 | ((u>>11)&0x1)<<7 | op
}

// EncodeU takes the 20-bit upper-immediate field, not the shifted value.
func EncodeU(op, dst uint32, imm int32) uint32 {
	return (uint32(imm)&0xFFFFF)<<12 | (dst&0x1F)<<7 | op
}

func EncodeJ(op, dst uint32, imm int32) uint32 {
	u := uint32(imm) & 0x1FFFFF
	return ((u>>20)&0x1)<<31 | ((u>>1)&0x3FF)<<21 | ((u>>11)&0x1)<<20 |
		((u>>12)&0xFF)<<12 | (dst&0x1F)<<7 | op
}
