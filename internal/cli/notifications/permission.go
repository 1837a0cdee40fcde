package notifications

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
	"github.com/ariel-frischer/usernotify/internal/mainthread"
)

func newPermissionCmd() *cobra.Command {
	var ask bool
	cmd := &cobra.Command{
		Use:   "permission",
		Short: "Show or request notification permission",
		Long: `Print whether notifications may be shown. With --ask the user is prompted
the first time; a decline exits with a prerequisite error.`,
		Example: `  usernotify permission
  usernotify permission --ask`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			var granted bool
			if ask {
				err = mainthread.CallErr(func() error {
					var err error
					granted, err = m.FirstTimeAskForNotificationPermission(cmd.Context())
					return err
				})
			} else {
				granted, err = m.GetNotificationPermissionState(cmd.Context())
			}
			if err != nil {
				return clierrors.FromNotifyError(err, "failed to read notification permission")
			}

			if !granted {
				fmt.Fprintln(cmd.OutOrStdout(), "denied")
				if ask {
					return clierrors.PermissionDenied()
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "granted")
			return nil
		},
	}
	cmd.GroupID = shared.GroupNotifications
	cmd.Flags().BoolVar(&ask, "ask", false, "Prompt the user if permission was never requested")
	return cmd
}
