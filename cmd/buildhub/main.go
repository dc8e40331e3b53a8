// Command buildhub runs the cross-toolchain build targets by name:
//
//	buildhub rvlatortest.bin qemutest
//	buildhub clean
//	buildhub debug
//	buildhub dump
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"rvlator/pkg/buildhub"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: buildhub [-C dir] <target>...")
	fmt.Fprintln(os.Stderr, "Targets:")
	for _, t := range buildhub.All(buildhub.DefaultToolchain()) {
		fmt.Fprintf(os.Stderr, "  %s\n", t.Name)
	}
	flag.PrintDefaults()
}

func main() {
	dir := flag.String("C", ".", "directory to build in")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	tc := buildhub.DefaultToolchain()
	runner := buildhub.NewRunner(*dir)

	for _, name := range flag.Args() {
		target, err := buildhub.ByName(tc, name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if err := runner.Run(context.Background(), target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(buildhub.ExitCode(err))
		}
	}
}
