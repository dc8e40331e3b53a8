package cpu

import (
	"debug/elf"
	"fmt"
)

// LoadELF maps the PT_LOAD segments of an ELF executable into RAM at their
// virtual addresses and returns the entry point. This loads the .elf
// artifacts the cross toolchain links (-Ttext decides the addresses), so a
// qemutest build can run here without the objcopy step.
func LoadELF(path string, bus *Bus) (entry uint64, err error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if f.Machine != elf.EM_RISCV {
		return 0, fmt.Errorf("elf: %s is %s, want RISC-V", path, f.Machine)
	}

	for _, ph := range f.Progs {
		if ph.Type != elf.PT_LOAD || ph.Memsz == 0 {
			continue
		}
		buf := make([]byte, ph.Memsz)
		if ph.Filesz > 0 {
			if _, err := ph.ReadAt(buf[:ph.Filesz], 0); err != nil {
				return 0, fmt.Errorf("elf: read segment: %w", err)
			}
		}
		// Trailing Memsz-Filesz bytes stay zero (.bss).
		if err := bus.LoadBinary(ph.Vaddr, buf); err != nil {
			return 0, fmt.Errorf("elf: map segment at %#x: %w", ph.Vaddr, err)
		}
	}
	return f.Entry, nil
}
