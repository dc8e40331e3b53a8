package buildhub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes a target's commands strictly sequentially in Dir. Output
// streams through to the sinks unmodified; a failing command stops the
// sequence and its exit code is recoverable with ExitCode.
type Runner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the target. Removal targets delete their artifacts (missing
// files are not an error); command targets run each argv in order.
func (r *Runner) Run(ctx context.Context, t Target) error {
	for _, name := range t.Removes {
		if err := os.Remove(filepath.Join(r.Dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%s: remove %s: %w", t.Name, name, err)
		}
	}
	for _, argv := range t.Commands {
		if err := r.runCommand(ctx, argv); err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
	}
	return nil
}

func (r *Runner) runCommand(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}

// ExitCode extracts the exit status of a failed external command; it returns
// 0 for nil and 1 for errors that never produced an exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
