package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/storage"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var parseErr *storage.ParseError
	if errors.Is(err, payroll.ErrNotLoaded) {
		hint := "Fix the payroll file and restart paybook"
		if errors.As(err, &parseErr) {
			hint = fmt.Sprintf("Fix line %d of the payroll file and restart paybook", parseErr.Line)
		}
		return NewCLIError("payroll file failed to load; refusing to change or save it", hint, err)
	}
	if errors.As(err, &parseErr) {
		return NewCLIError(
			"payroll file is malformed",
			fmt.Sprintf("Fix line %d; each line must be <id>,<name>,<hourly_rate>,<hours_worked> with no commas inside fields", parseErr.Line),
			err,
		)
	}

	var inputErr *payroll.InputError
	if errors.As(err, &inputErr) {
		return NewCLIError("invalid input", "Please enter a valid number for Hourly Rate and Hours Worked", err)
	}

	switch {
	case errors.Is(err, payroll.ErrNotFound):
		return NewCLIError("no employee found", "Run 'paybook list' to see employee ids", err)
	case errors.Is(err, payroll.ErrEmptyCollection):
		return &CLIError{Message: "no employee data available", Hint: "Add employees with 'paybook add'", Err: err}
	case errors.Is(err, payroll.ErrDeletionCancelled):
		return &CLIError{Message: "deletion cancelled", Err: err}
	case errors.Is(err, payroll.ErrIOFailure):
		return NewCLIError("file operation failed", "Check the path and its permissions", err)
	case errors.Is(err, payroll.ErrInvalidInput):
		return NewCLIError("invalid input", "", err)
	}

	return err
}

// informational reports whether err is an outcome rather than a failure.
func informational(err error) bool {
	var cliErr *CLIError
	return errors.As(err, &cliErr) && cliErr.ExitCode == 0
}

func printError(w io.Writer, err error) {
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if cliErr.ExitCode == 0 {
		fmt.Fprintln(w, cliErr.Message)
	} else {
		fmt.Fprintf(w, "Error: %s\n", cliErr.Message)
	}
	if cliErr.Hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", cliErr.Hint)
	}
}
