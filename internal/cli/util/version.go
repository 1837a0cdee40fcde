package util

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release)
func IsDevBuild() bool {
	return Version == "dev"
}

func newVersionCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, Go version and platform information for usernotify",
		Example: `  # Show version info
  usernotify version

  # Plain output (for scripts)
  usernotify version --plain`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout())
		},
	}
	cmd.GroupID = shared.GroupUtilities
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "usernotify %s\n", Version)
	fmt.Fprintf(w, "commit: %s\n", Commit)
	fmt.Fprintf(w, "built: %s\n", BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints the same fields with colored labels
func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", cyan("usernotify"), white(Version))
	if IsDevBuild() {
		fmt.Fprintln(w, dim("development build"))
	}
	fmt.Fprintln(w)
	rows := [][2]string{
		{"Commit", Commit},
		{"Built", BuildDate},
		{"Go", runtime.Version()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s %s\n", dim(fmt.Sprintf("%-9s", row[0])), row[1])
	}
}
