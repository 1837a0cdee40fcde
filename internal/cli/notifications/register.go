// Package notifications provides the CLI commands that drive the notification
// manager: send, listen, active, clear and permission.
package notifications

import (
	"github.com/spf13/cobra"
)

// Register adds the notification commands to the root command
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newListenCmd())
	rootCmd.AddCommand(newActiveCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newPermissionCmd())
}
