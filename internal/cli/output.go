package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes. Semantic and syntax failures in the compiled source
// are distinguished from problems with the invocation itself, so scripts
// can tell a broken datapack from a broken command line.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the source failed to compile
	ExitCommandError = 2 // bad flags, unreadable config, cache I/O
)

// ExitError carries the process exit code a failed command resolved to.
// main unwraps it; commands write their own diagnostics before returning it.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError builds an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to an underlying error.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode resolves err to a process exit code. Errors that carry no
// ExitError anywhere in their chain count as compilation failures.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope every JSON-mode command emits: exactly one of
// Data or Error is set, keyed by Status.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" | "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error half of the envelope. Code is a stable mcerr code
// such as "E102" when the failure carries one.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// OutputFormatter renders command results as either human-readable text or
// the JSON envelope. Commands build one per invocation from the global
// flags and the project config.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// Success emits a result. In text mode data is printed as-is; commands that
// need richer text rendering write to Writer directly instead.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format != "json" {
		fmt.Fprintln(f.Writer, data)
		return nil
	}
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: data})
}

// Error emits a failure with its stable code. Details are reserved for
// verbose text mode and the JSON envelope.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes progress chatter gated behind --verbose. It prefers the
// diagnostic writer so JSON output on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	writer := f.ErrWriter
	if writer == nil {
		writer = f.Writer
	}
	fmt.Fprintf(writer, format+"\n", args...)
}
