package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/Cyclone1070/wisemcp/internal/config"
)

// binarySample is how many leading bytes of each stream are checked for binary content.
const binarySample = 8000

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// OSCommandExecutor runs external commands using os/exec.
type OSCommandExecutor struct {
	config *config.Config
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	return &OSCommandExecutor{config: cfg}
}

// started is a running command whose output is being collected.
type started struct {
	cmd    *exec.Cmd
	stdout *collector
	stderr *collector
}

func (f *OSCommandExecutor) start(cmd *exec.Cmd, name, dir string, env []string) (*started, error) {
	maxBytes := int(f.config.Tools.DefaultMaxCommandOutputSize)
	s := &started{
		cmd:    cmd,
		stdout: newCollector(maxBytes, binarySample),
		stderr: newCollector(maxBytes, binarySample),
	}

	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil
	// Wait returns only after both collectors have received all output.
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	// children that inherit the pipes must not keep Wait blocked forever
	cmd.WaitDelay = time.Duration(f.config.Tools.GracefulShutdownMs) * time.Millisecond

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: name, Cause: err, Stage: "start"}
	}
	return s, nil
}

func (s *started) result(code int) *Result {
	return &Result{
		Stdout:    s.stdout.String(),
		Stderr:    s.stderr.String(),
		ExitCode:  code,
		Truncated: s.stdout.Truncated() || s.stderr.Truncated(),
	}
}

// RunWithTimeout executes a command with a timeout. On timeout the process is
// interrupted first and killed after the configured grace period.
// The error is non-nil on a non-zero exit; the Result is still populated in that case.
func (f *OSCommandExecutor) RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	// not CommandContext: the timeout path interrupts before killing
	s, err := f.start(exec.Command(command[0], command[1:]...), command[0], dir, env)
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.cmd.Wait()
	}()

	grace := time.Duration(f.config.Tools.GracefulShutdownMs) * time.Millisecond

	var execErr error
	select {
	case execErr = <-done:
	case <-ctx.Done():
		_ = s.cmd.Process.Kill()
		<-done
		execErr = ctx.Err()
	case <-time.After(timeout):
		_ = s.cmd.Process.Signal(os.Interrupt)
		select {
		case <-done:
		case <-time.After(grace):
			_ = s.cmd.Process.Kill()
			<-done
		}
		execErr = ErrTimeout
	}

	code := exitCode(execErr)
	if errors.Is(execErr, ErrTimeout) {
		code = -1
	}
	return s.result(code), execErr
}

// exitCode extracts the exit code from a process error.
// Returns 0 for nil and -1 when the error carries no exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}
