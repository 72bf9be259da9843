package exit

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	CodeSuccess     = 0
	CodeFailure     = 1
	CodeInterrupted = 130
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	if r.Message == "" || r.Output == nil {
		return
	}
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful result with no message.
func Success() *Result {
	return &Result{ExitCode: CodeSuccess}
}

// Error creates a failed result that prints message to w.
func Error(w io.Writer, message string) *Result {
	return &Result{
		Output:   w,
		ExitCode: CodeFailure,
		Message:  message,
	}
}

// Errorf creates a failed result with a formatted message.
func Errorf(w io.Writer, format string, a ...any) *Result {
	return Error(w, fmt.Sprintf(format, a...))
}

// Interrupted creates the result of a run stopped by a signal.
func Interrupted(w io.Writer) *Result {
	return &Result{
		Output:   w,
		ExitCode: CodeInterrupted,
		Message:  "Interrupted\n",
	}
}

// FromError maps a run error onto a result. Cancellation is reported as an
// interrupt rather than a failure.
func FromError(w io.Writer, err error) *Result {
	switch {
	case err == nil:
		return Success()
	case errors.Is(err, context.Canceled):
		return Interrupted(w)
	default:
		return Errorf(w, "Error: %v\n", err)
	}
}
