package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Display shows one waiting operation at a time
type Display struct {
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	out          io.Writer

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewDisplay writes status lines to out. The spinner, drawn only on a TTY,
// always goes to stderr so it never mixes with command output.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
	}
}

// Start shows msg as in progress
func (d *Display) Start(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	if !d.capabilities.IsTTY {
		fmt.Fprintln(d.out, msg)
		return
	}
	d.spinner = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond)
	d.spinner.Writer = os.Stderr
	d.spinner.Suffix = " " + msg
	d.spinner.Start()
}

// Succeed stops the spinner and prints msg with a checkmark
func (d *Display) Succeed(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	fmt.Fprintf(d.out, "%s %s\n", checkmark(d.symbols, d.capabilities.SupportsColor), msg)
}

// Fail stops the spinner and prints msg with a failure mark
func (d *Display) Fail(msg string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	fmt.Fprintf(d.out, "%s %s\n", failureMark(d.symbols, d.capabilities.SupportsColor), msg)
}

// Stop removes the spinner without printing a status line
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Display) stopLocked() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
