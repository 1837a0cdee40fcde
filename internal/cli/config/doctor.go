package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	"github.com/ariel-frischer/usernotify/internal/health"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"doc"},
		Short:   "Check the notification environment (doc)",
		Long: `Check that this machine can show notifications for the configured
application: the platform notification service, the application id, the
state directory and the categories file.`,
		Example:      "  usernotify doctor",
		Args:         cobra.NoArgs,
		GroupID:      shared.GroupConfiguration,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cleanup, err := shared.Setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			report := health.RunHealthChecks(health.Options{
				AppID:          cfg.AppID,
				StateDir:       cfg.StateDir,
				CategoriesFile: cfg.CategoriesFile,
			})
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
			if !report.Passed {
				return shared.NewExitError(shared.ExitFailed)
			}
			return nil
		},
	}
}
