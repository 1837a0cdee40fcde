// usernotify - Cross-platform desktop notification manager
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/usernotify

package main

import (
	"os"

	"github.com/ariel-frischer/usernotify/internal/cli"
	"github.com/ariel-frischer/usernotify/internal/mainthread"
)

func main() {
	var err error
	// The macOS notification center is driven from the main thread
	mainthread.Run(func() {
		err = cli.Execute()
	})
	os.Exit(cli.ExitCode(err))
}
