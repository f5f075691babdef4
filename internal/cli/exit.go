package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/taggle/pkg/errors"
)

// Process exit statuses.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitCode maps an error returned by the root command to an exit status.
// Caller mistakes (bad options, unknown names) exit with ExitUsage.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeUnknownColumn,
		errors.ErrCodeUnknownRuleSet, errors.ErrCodeUnknownGroup:
		return ExitUsage
	}
	return ExitFailure
}

// ErrorMessage renders err for the terminal. Error codes are dropped from
// every structured error in the chain; plain wrapping context is kept.
func ErrorMessage(err error) string {
	if e, ok := err.(*errors.Error); ok {
		msg := errors.UserMessage(e)
		if e.Cause != nil {
			msg += ": " + ErrorMessage(e.Cause)
		}
		return msg
	}
	if inner := stderrors.Unwrap(err); inner != nil {
		if prefix, ok := strings.CutSuffix(err.Error(), inner.Error()); ok {
			return prefix + ErrorMessage(inner)
		}
	}
	return err.Error()
}

// PrintError writes the failure line for err to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+ErrorMessage(err))
}
