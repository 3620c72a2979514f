package search

import "fmt"

// QueryRequiredError is returned when query is empty.
type QueryRequiredError struct{}

func (e *QueryRequiredError) Error() string { return "query is required" }

func (e *QueryRequiredError) InvalidInput() bool { return true }

// CommandFailedError is returned when ripgrep exits with an error status or times out.
type CommandFailedError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *CommandFailedError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %s failed (exit %d): %s", e.Cmd, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command %s failed (exit %d): %v", e.Cmd, e.ExitCode, e.Cause)
}
func (e *CommandFailedError) Unwrap() error       { return e.Cause }
func (e *CommandFailedError) CommandFailed() bool { return true }
