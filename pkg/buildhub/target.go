// Package buildhub drives the external RISC-V cross toolchain: it compiles
// and links the test program for the two memory layouts, converts the ELFs
// to the flat binaries the emulator loads, and wraps the qemu debug and
// objdump disassembly workflows. No assembling, emulating or disassembling
// happens here; every command delegates to the external binaries.
package buildhub

import (
	"fmt"
	"os"
)

// QEMUEnv names the environment variable that locates the qemu binary.
const QEMUEnv = "BUILDHUB_QEMU"

// Build artifacts and the assembly source they are produced from.
const (
	SourceFile = "baseinst.s"
	RvlatorELF = "rvlatortest.elf"
	RvlatorBin = "rvlatortest.bin"
	QemuELF    = "qemutest.elf"
	QemuBin    = "qemutest.bin"
)

// Toolchain holds the paths of the external programs. Zero-value fields are
// not valid; construct with DefaultToolchain.
type Toolchain struct {
	GCC     string
	Objcopy string
	Objdump string
	QEMU    string
}

// DefaultToolchain resolves the standard cross-toolchain names, honoring
// BUILDHUB_QEMU for the emulator location.
func DefaultToolchain() Toolchain {
	tc := Toolchain{
		GCC:     "riscv64-unknown-elf-gcc",
		Objcopy: "riscv64-unknown-elf-objcopy",
		Objdump: "riscv64-unknown-linux-gnu-objdump",
		QEMU:    "qemu-system-riscv64",
	}
	if path := os.Getenv(QEMUEnv); path != "" {
		tc.QEMU = path
	}
	return tc
}

// Target is one build-hub entry: a name, the command lines it runs in order,
// and the artifacts it deletes (for clean).
type Target struct {
	Name     string
	Commands [][]string
	Removes  []string
}

// RvlatorTest assembles and links the test program at address 0x0 and strips
// it to the raw binary the emulator loads at its reset vector.
func RvlatorTest(tc Toolchain) Target {
	return Target{
		Name: RvlatorBin,
		Commands: [][]string{
			{tc.GCC, "-march=rv64g", "-nostdlib", "-Wl,-Ttext=0x0", "-o", RvlatorELF, SourceFile},
			{tc.Objcopy, "-O", "binary", RvlatorELF, RvlatorBin},
		},
	}
}

// QemuTest assembles and links at the qemu virt DRAM base with debug
// symbols, then strips to a raw binary.
func QemuTest(tc Toolchain) Target {
	return Target{
		Name: "qemutest",
		Commands: [][]string{
			{tc.GCC, "-march=rv64g", "-Wl,-Ttext=0x80000000", "-nostdlib", "-g", "-o", QemuELF, SourceFile},
			{tc.Objcopy, "-O", "binary", QemuELF, QemuBin},
		},
	}
}

// Debug launches qemu halted at reset (-S) with its gdb stub listening on
// :1234 (-s), waiting for a debugger to attach.
func Debug(tc Toolchain) Target {
	return Target{
		Name: "debug",
		Commands: [][]string{
			{tc.QEMU, "-nographic", "-machine", "virt", "-bios", "none", "-kernel", QemuELF, "-s", "-S"},
		},
	}
}

// Dump disassembles the linked ELF with source interleaving.
func Dump(tc Toolchain) Target {
	return Target{
		Name: "dump",
		Commands: [][]string{
			{tc.Objdump, "-M", "no-aliases", "--disassembler-color=on", "--source",
				"--demangle", "--line-numbers", "--wide", QemuELF},
		},
	}
}

// Clean deletes the four generated artifacts.
func Clean() Target {
	return Target{
		Name:    "clean",
		Removes: []string{RvlatorELF, RvlatorBin, QemuELF, QemuBin},
	}
}

// All returns every target in declaration order.
func All(tc Toolchain) []Target {
	return []Target{RvlatorTest(tc), QemuTest(tc), Clean(), Debug(tc), Dump(tc)}
}

// ByName looks a target up by its build-hub name.
func ByName(tc Toolchain, name string) (Target, error) {
	for _, t := range All(tc) {
		if t.Name == name {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("buildhub: unknown target %q", name)
}
