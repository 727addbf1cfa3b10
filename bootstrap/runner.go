package bootstrap

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Runner executes a process-management command and reports whether it
// succeeded. Implementations must bound execution time.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands through os/exec with a per-command timeout.
type execRunner struct {
	timeout time.Duration
}

func newExecRunner(timeout time.Duration) execRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return execRunner{timeout: timeout}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
