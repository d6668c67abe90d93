// Package build invokes the external make-based flow that turns a parameter
// file into interconnect test instances.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrTimeout is wrapped into the error of a build that exceeded its deadline.
var ErrTimeout = errors.New("build timed out")

// Invocation is one make call: make -C Dir Vars... Targets...
type Invocation struct {
	Dir     string
	Vars    []string // NAME=value overrides
	Targets []string
}

// Args returns the make argument vector.
func (inv Invocation) Args() []string {
	args := make([]string, 0, 2+len(inv.Vars)+len(inv.Targets))
	args = append(args, "-C", inv.Dir)
	args = append(args, inv.Vars...)
	return append(args, inv.Targets...)
}

func (inv Invocation) String() string {
	return "make " + strings.Join(inv.Args(), " ")
}

// RunError reports a failed invocation.
type RunError struct {
	Invocation Invocation
	Err        error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Invocation, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// ExitCode returns the make exit status, or -1 if make did not exit normally.
func (e *RunError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Runner executes make invocations. Implementations must block until the
// invocation finishes and return a non-nil error for any non-zero exit.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// MakeRunner runs invocations with a real make binary.
type MakeRunner struct {
	Make    string        // binary name or path; "make" when empty
	Output  io.Writer     // receives stdout and stderr; os.Stdout when nil
	Timeout time.Duration // per invocation; 0 disables
	Grace   time.Duration // SIGTERM to SIGKILL delay on cancellation
	Logger  *zap.Logger
}

// NewMakeRunner returns a MakeRunner writing build output to out.
func NewMakeRunner(makeBin string, out io.Writer, timeout time.Duration, logger *zap.Logger) *MakeRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MakeRunner{
		Make:    makeBin,
		Output:  out,
		Timeout: timeout,
		Grace:   5 * time.Second,
		Logger:  logger,
	}
}

// Run starts make in its own process group and waits for it. Cancelling ctx
// (or hitting Timeout) terminates the whole group, so recursive makes and the
// compiler they spawn do not outlive the sweep.
func (r *MakeRunner) Run(ctx context.Context, inv Invocation) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	bin := r.Make
	if bin == "" {
		bin = "make"
	}
	out := r.Output
	if out == nil {
		out = os.Stdout
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, bin, inv.Args()...)
	cmd.Stdout = out
	cmd.Stderr = out
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return terminateGroup(cmd) }
	cmd.WaitDelay = r.Grace

	logger.Debug("make start", zap.String("dir", inv.Dir), zap.Strings("args", inv.Args()))
	start := time.Now()
	err := cmd.Run()
	if cmd.Process != nil && ctx.Err() != nil {
		killGroup(cmd.Process.Pid)
	}
	logger.Debug("make done", zap.String("dir", inv.Dir), zap.Duration("duration", time.Since(start)), zap.Error(err))
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	} else if errors.Is(ctx.Err(), context.Canceled) {
		err = fmt.Errorf("%w: %v", context.Canceled, err)
	}
	return &RunError{Invocation: inv, Err: err}
}
