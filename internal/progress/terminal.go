package progress

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// DetectTerminalCapabilities inspects stderr, where progress is drawn
func DetectTerminalCapabilities() TerminalCapabilities {
	fd := int(os.Stderr.Fd())
	isTTY := term.IsTerminal(fd)

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("USERNOTIFY_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the appropriate symbol set based on terminal capabilities
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // Unicode dots: ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // ASCII: | / - \
	}
}

func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	if !supportsColor {
		return symbols.Checkmark
	}
	c := color.New(color.FgGreen)
	c.EnableColor()
	return c.Sprint(symbols.Checkmark)
}

func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	if !supportsColor {
		return symbols.Failure
	}
	c := color.New(color.FgRed)
	c.EnableColor()
	return c.Sprint(symbols.Failure)
}
