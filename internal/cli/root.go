// usernotify - Cross-platform desktop notification manager
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/usernotify

// Package cli provides the Cobra-based CLI for usernotify. It sends
// notifications, prints the user's responses, lists and clears delivered
// notifications, and checks the notification environment.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/config"
	"github.com/ariel-frischer/usernotify/internal/cli/notifications"
	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	"github.com/ariel-frischer/usernotify/internal/cli/util"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupNotifications = shared.GroupNotifications
	GroupConfiguration = shared.GroupConfiguration
	GroupUtilities     = shared.GroupUtilities
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usernotify",
		Short: "Cross-platform desktop notifications",
		Long: `usernotify - cross-platform desktop notifications

Send notifications with actions and text replies through the macOS user
notification center, the freedesktop notification service on Linux, or
Windows toasts, and read the user's responses as JSON.

Source: https://github.com/ariel-frischer/usernotify`,
		Example: `  # Check that notifications can be shown
  usernotify doctor --app-id org.example.App

  # Send a notification and wait for the response
  usernotify send --title "Build finished" --body "Open the report?" --wait

  # Print every response until interrupted
  usernotify listen

  # Remove everything still shown
  usernotify clear`,
		SilenceErrors: true,
	}

	shared.AddGroups(cmd)
	cmd.SetHelpCommandGroupID(GroupUtilities)
	cmd.SetCompletionCommandGroupID(GroupUtilities)
	shared.AddGlobalFlags(cmd)

	notifications.Register(cmd)
	config.Register(cmd)
	util.Register(cmd)
	return cmd
}

// Execute runs the root command and prints any error it returns
func Execute() error {
	err := rootCmd.Execute()
	if shared.Reportable(err) {
		clierrors.PrintError(err)
	}
	return err
}

// ExitCode returns the process exit code for an error returned by Execute
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
