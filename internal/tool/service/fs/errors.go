package fs

import (
	"errors"
	"fmt"
)

// ReadError is returned when a file cannot be opened or read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }
func (e *ReadError) IOError() bool { return true }

// -- Sentinels --

var (
	ErrInvalidOffset = errors.New("invalid offset")
)
