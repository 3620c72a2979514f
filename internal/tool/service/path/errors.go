package path

import (
	"errors"
	"fmt"
)

// RootError is returned when the codebase root is invalid.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid codebase root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }
func (e *RootError) IOError() bool { return true }

// -- Sentinels --

var (
	ErrOutsideRoot   = errors.New("path is outside codebase root")
	ErrRootNotSet    = errors.New("codebase root not set")
	ErrNotADirectory = errors.New("not a directory")
)
