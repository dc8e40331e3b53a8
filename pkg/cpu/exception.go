package cpu

import "fmt"

// Cause is a RISC-V exception cause code as written to mcause.
type Cause uint64

const (
	ExcInstAddrMisaligned  Cause = 0
	ExcInstAccessFault     Cause = 1
	ExcIllegalInstruction  Cause = 2
	ExcBreakpoint          Cause = 3
	ExcLoadAddrMisaligned  Cause = 4
	ExcLoadAccessFault     Cause = 5
	ExcStoreAddrMisaligned Cause = 6
	ExcStoreAccessFault    Cause = 7
	ExcEcallUMode          Cause = 8
	ExcEcallSMode          Cause = 9
	ExcEcallMMode          Cause = 11
	ExcInstPageFault       Cause = 12
	ExcLoadPageFault       Cause = 13
	ExcStorePageFault      Cause = 15
)

var causeNames = map[Cause]string{
	ExcInstAddrMisaligned:  "instruction address misaligned",
	ExcInstAccessFault:     "instruction access fault",
	ExcIllegalInstruction:  "illegal instruction",
	ExcBreakpoint:          "breakpoint",
	ExcLoadAddrMisaligned:  "load address misaligned",
	ExcLoadAccessFault:     "load access fault",
	ExcStoreAddrMisaligned: "store/AMO address misaligned",
	ExcStoreAccessFault:    "store/AMO access fault",
	ExcEcallUMode:          "environment call from U-mode",
	ExcEcallSMode:          "environment call from S-mode",
	ExcEcallMMode:          "environment call from M-mode",
	ExcInstPageFault:       "instruction page fault",
	ExcLoadPageFault:       "load page fault",
	ExcStorePageFault:      "store/AMO page fault",
}

func (c Cause) String() string {
	if s, ok := causeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("cause %d", uint64(c))
}

// Exception is a synchronous RISC-V exception. When a trap handler is
// installed (mtvec != 0) the CPU consumes exceptions architecturally;
// otherwise they surface from Step as errors.
type Exception struct {
	Cause Cause
	// Addr is the faulting address (mtval); for illegal instructions it
	// holds the instruction word instead.
	Addr uint64
	// PC of the instruction that raised the exception.
	PC uint64
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s at pc=%#x (tval=%#x)", e.Cause, e.PC, e.Addr)
}
