// Package errors provides categorized CLI errors with usage hints and
// remediation steps.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory groups CLI errors by what the user has to fix
type ErrorCategory int

const (
	// Argument errors come from invalid command-line input
	Argument ErrorCategory = iota
	// Configuration errors come from config files or environment
	Configuration
	// Prerequisite errors mean the environment lacks something the command needs
	Prerequisite
	// Runtime errors happen while the command runs
	Runtime
)

// String returns the heading shown above the error message
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error with a category, optional usage line, and remediation steps
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	Err         error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentError creates an argument error
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage creates an argument error that shows the command usage
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewPrerequisiteError creates a prerequisite error
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

// NewRuntimeError creates a runtime error
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// Wrap categorizes err, keeping its message
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Err: err}
}

// WrapWithMessage categorizes err under message, producing "message: err"
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %s", message, err.Error()),
		Remediation: remediation,
		Err:         err,
	}
}

// IsCLIError reports whether err is or wraps a CLIError
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the CLIError in err's chain, or nil
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
