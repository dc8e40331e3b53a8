package cpu

// Machine-level CSR numbers (Zicsr subset carried by the emulator).
const (
	CSRMStatus  uint32 = 0x300
	CSRMTVec    uint32 = 0x305
	CSRMScratch uint32 = 0x340
	CSRMEPC     uint32 = 0x341
	CSRMCause   uint32 = 0x342
	CSRMTVal    uint32 = 0x343
	CSRCycle    uint32 = 0xC00
	CSRInstret  uint32 = 0xC02
	CSRMHartID  uint32 = 0xF14
)

type csrFile struct {
	mstatus  uint64
	mtvec    uint64
	mscratch uint64
	mepc     uint64
	mcause   uint64
	mtval    uint64
	cycle    uint64
	instret  uint64
}

func (f *csrFile) read(addr uint32) (uint64, bool) {
	switch addr {
	case CSRMStatus:
		return f.mstatus, true
	case CSRMTVec:
		return f.mtvec, true
	case CSRMScratch:
		return f.mscratch, true
	case CSRMEPC:
		return f.mepc, true
	case CSRMCause:
		return f.mcause, true
	case CSRMTVal:
		return f.mtval, true
	case CSRCycle:
		return f.cycle, true
	case CSRInstret:
		return f.instret, true
	case CSRMHartID:
		return 0, true
	}
	return 0, false
}

func (f *csrFile) write(addr uint32, val uint64) bool {
	// CSR numbers with the top two bits set are read-only by convention.
	if addr>>10 == 0x3 {
		return false
	}
	switch addr {
	case CSRMStatus:
		f.mstatus = val
	case CSRMTVec:
		f.mtvec = val
	case CSRMScratch:
		f.mscratch = val
	case CSRMEPC:
		f.mepc = val
	case CSRMCause:
		f.mcause = val
	case CSRMTVal:
		f.mtval = val
	default:
		return false
	}
	return true
}
