package config

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		Long: `Inspect the usernotify configuration.

Values are read from ~/.usernotify/config.json, then the local config file
(--config), then USERNOTIFY_* environment variables, then global flags.`,
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.AddCommand(newShowCmd())
	return cmd
}

func newShowCmd() *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Example: `  usernotify config show
  usernotify config show --validate`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cleanup, err := shared.Setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(cfg); err != nil {
				return clierrors.Wrap(err, clierrors.Runtime)
			}
			if validate {
				if err := cfg.Validate(); err != nil {
					if cfg.AppID == "" {
						return clierrors.MissingAppID()
					}
					return clierrors.Wrap(err, clierrors.Configuration)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "Fail when a required value is missing")
	return cmd
}
