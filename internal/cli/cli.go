// Package cli holds what the deckgen commands share: logger setup, exit-code
// mapping and report rendering.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// NewLogger returns a slog logger writing to w. format is "text" or "json";
// unknown levels mean info.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ExitError carries the exit status a command should end with. A nil Err
// exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// UsageError marks bad command-line arguments; Run prints the usage with it.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// Args wraps a cobra argument validator so that its failures are usage
// errors.
func Args(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// Run executes cmd and returns the process exit status. Errors that carry no
// ExitError, usage errors and panics exit with fatalCode; a panic also
// prints its stack.
func Run(cmd *cobra.Command, stderr io.Writer, fatalCode int) (code int) {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Error: %v\n%s", r, debug.Stack())
			code = fatalCode
		}
	}()

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return fatalCode
}
