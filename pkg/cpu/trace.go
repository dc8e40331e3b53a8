package cpu

import (
	"fmt"
	"io"
)

// ANSI escape sequences for the register dump.
const (
	colorReset = "\x1b[0m"
	colorGreen = "\x1b[1;32m"
	colorBlue  = "\x1b[1;34m"
)

// RegName maps register indexes to their ABI names, used by the execution
// trace and the register dump.
var RegName = [32]string{
	"z0", "ra", "sp", "gp", "tp", "t0", "t1", "t2", "s0", "s1", "a0", "a1",
	"a2", "a3", "a4", "a5", "a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "sA", "sB", "t3", "t4", "t5", "t6",
}

// DumpRegisters writes the program counter and the full register file to w,
// four registers per row.
func (c *CPU) DumpRegisters(w io.Writer) {
	fmt.Fprintf(w, "%s[pc]%s = %#016x\n", colorBlue, colorReset, c.PC)
	for i := 0; i < 32; i += 4 {
		for j := i; j < i+4; j++ {
			fmt.Fprintf(w, "%s[%s]%s = %#016x ", colorGreen, RegName[j], colorReset, c.X[j])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "-------------------------------------------------------"+
		"------------------------------------------------")
}
