package cli

import (
	"errors"
	"fmt"

	"github.com/specforge/specforge/pkg/domain"
)

// CLIError wraps pipeline errors with user-facing messages and actionable
// hints.
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

// MapError converts known pipeline errors into CLIErrors with actionable
// hints. Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		hint := "Check the identifier with 'specforge review list'"
		if notFound.Kind == "scan snapshot" {
			hint = "Run 'specforge scan' first to create a baseline"
		}
		return NewCLIError(notFound.Error(), hint, err)
	}

	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		return NewCLIError(
			parseErr.Error(),
			"The artifact may be corrupt; re-run extraction or 'specforge cleanup' it",
			err,
		)
	}

	return err
}

// printHint surfaces the hint of a mapped error, if any.
func printHint(err error) {
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Printf("Hint: %s\n", cliErr.Hint)
	}
}
