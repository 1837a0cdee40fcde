package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	headingColor = color.New(color.FgRed, color.Bold)
	labelColor   = color.New(color.FgYellow, color.Bold)
	usageColor   = color.New(color.FgCyan)
)

// FormatError renders err with colored headings. Non-CLI errors are shown
// as runtime errors.
func FormatError(err error) string {
	return format(err, true)
}

// FormatErrorPlain renders err without colors
func FormatErrorPlain(err error) string {
	return format(err, false)
}

// FormatSimpleError renders a plain error under category
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}

func format(err error, colored bool) string {
	if err == nil {
		return ""
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: Runtime, Message: err.Error()}
	}

	paint := func(c *color.Color, s string) string {
		if !colored {
			return s
		}
		return c.Sprint(s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", paint(headingColor, cliErr.Category.String()+":"), cliErr.Message)
	if cliErr.Usage != "" {
		fmt.Fprintf(&b, "\n%s %s\n", paint(labelColor, "Usage:"), paint(usageColor, cliErr.Usage))
	}
	if len(cliErr.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", paint(labelColor, "To fix this:"))
		for i, step := range cliErr.Remediation {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}
	return b.String()
}

// PrintError writes the formatted error to stderr
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError writes the formatted error to w
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
