// Package shared provides constants and helpers used across CLI subpackages.
// It has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupNotifications = "notifications"
	GroupConfiguration = "configuration"
	GroupUtilities     = "utilities"
)

// AddGroups defines the command groups in display order
func AddGroups(rootCmd *cobra.Command) {
	rootCmd.AddGroup(&cobra.Group{ID: GroupNotifications, Title: "Notifications:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupUtilities, Title: "Utilities:"})
}

// Exit codes for CLI commands
const (
	ExitSuccess           = 0
	ExitFailed            = 1
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
	ExitTimeout           = 5
)

// exitError is an error that carries an exit code
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// NewExitError creates an exit error with the given code
func NewExitError(code int) error {
	return &exitError{code: code}
}

// WithExitCode attaches an exit code to err
func WithExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// Reportable reports whether err has a message to show. Errors from
// NewExitError carry only a code; the command already printed its output.
func Reportable(err error) bool {
	if err == nil {
		return false
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.err != nil
	}
	return true
}

// ExitCode returns the process exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingDependency
		}
	}
	return ExitFailed
}
