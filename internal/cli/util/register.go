// Package util provides utility CLI commands: decode and version.
package util

import (
	"github.com/spf13/cobra"
)

// Register adds the utility commands to the root command
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
