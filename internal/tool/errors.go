package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies tool execution failures.
type Kind string

const (
	KindToolNotFound             Kind = "ToolNotFound"
	KindInvalidParameter         Kind = "InvalidParameter"
	KindRateLimited              Kind = "RateLimited"
	KindNoResultsFound           Kind = "NoResultsFound"
	KindUpstreamCallFailure      Kind = "UpstreamCallFailure"
	KindContentExtractionFailure Kind = "ContentExtractionFailure"
	KindLocalOperationFailure    Kind = "LocalOperationFailure"
	KindStoreFailure             Kind = "StoreFailure"
	KindExecutionFailure         Kind = "ToolExecutionFailure"
)

// Error is the single error type surfaced by the dispatcher.
type Error struct {
	Kind     Kind
	Message  string
	ToolName Name
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.ToolName != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Kind, e.ToolName)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the caller may retry the same request later.
func (e *Error) Retryable() bool {
	return e.Kind == KindRateLimited
}

// MarshalJSON renders the structured error object returned at the inbound boundary.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ErrorCode Kind   `json:"error_code"`
		Message   string `json:"message"`
		ToolName  Name   `json:"tool_name,omitempty"`
	}{e.Kind, e.Message, e.ToolName})
}

// Errorf builds an Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// Behavioural interfaces implemented by package-level error types.
type (
	invalidInput  interface{ InvalidInput() bool }
	ioError       interface{ IOError() bool }
	commandFailed interface{ CommandFailed() bool }
)

// Classify maps any adapter failure onto the error taxonomy.
// Errors that are already classified keep their kind; unknown failures
// become KindExecutionFailure carrying the original message.
func Classify(name Name, err error) *Error {
	if err == nil {
		return nil
	}

	var te *Error
	if errors.As(err, &te) {
		out := *te
		if out.ToolName == "" {
			out.ToolName = name
		}
		return &out
	}

	var (
		ii invalidInput
		io ioError
		cf commandFailed
	)
	switch {
	case errors.As(err, &ii) && ii.InvalidInput():
		return &Error{Kind: KindInvalidParameter, Message: err.Error(), ToolName: name, Cause: err}
	case errors.As(err, &io) && io.IOError():
		return &Error{Kind: KindLocalOperationFailure, Message: err.Error(), ToolName: name, Cause: err}
	case errors.As(err, &cf) && cf.CommandFailed():
		return &Error{Kind: KindLocalOperationFailure, Message: err.Error(), ToolName: name, Cause: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindExecutionFailure, Message: "tool call interrupted: " + err.Error(), ToolName: name, Cause: err}
	default:
		return &Error{Kind: KindExecutionFailure, Message: err.Error(), ToolName: name, Cause: err}
	}
}
