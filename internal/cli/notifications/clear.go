package notifications

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
)

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [id...]",
		Short: "Remove delivered notifications",
		Long: `Remove the given notifications from the notification center. Without ids
every notification of this application is removed. Unknown ids are ignored.`,
		Example: `  # Remove everything
  usernotify clear

  # Remove two notifications
  usernotify clear 3f2a... 9c41...`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := shared.Setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			m, release, err := shared.OpenManager(cfg)
			if err != nil {
				return err
			}
			defer release()

			if len(args) == 0 {
				if err := m.RemoveAllDeliveredNotifications(); err != nil {
					return clierrors.FromNotifyError(err, "failed to remove notifications")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Removed all notifications")
				return nil
			}
			if err := m.RemoveDeliveredNotifications(args); err != nil {
				return clierrors.FromNotifyError(err, "failed to remove notifications")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d notification(s)\n", len(args))
			return nil
		},
	}
	cmd.GroupID = shared.GroupNotifications
	return cmd
}
