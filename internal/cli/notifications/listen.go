package notifications

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	"github.com/ariel-frischer/usernotify/internal/config"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
	"github.com/ariel-frischer/usernotify/internal/logging"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func newListenCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print notification responses as JSON lines",
		Long: `Register for notification responses and print each one as a line of JSON
until interrupted.

On Windows responses arrive through the callback URI the application is
launched with; use 'usernotify decode' there instead.`,
		Example: `  # Print responses until Ctrl-C
  usernotify listen

  # Stop after ten minutes
  usernotify listen --timeout 10m`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListen(cmd, timeout)
		},
	}
	cmd.GroupID = shared.GroupNotifications
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop listening after this long (0 listens until interrupted)")
	return cmd
}

func runListen(cmd *cobra.Command, timeout time.Duration) error {
	cfg, cleanup, err := shared.Setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	categories, err := config.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return clierrors.InvalidCategoriesFile(cfg.CategoriesFile, err)
	}

	m, release, err := shared.OpenManager(cfg)
	if err != nil {
		return err
	}
	defer release()

	responses := make(chan notify.Response, responseBuffer)
	if err := register(m, categories, responses); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logging.Get().Info().Int("categories", len(categories)).Msg("listening for responses")
	for {
		select {
		case r := <-responses:
			if err := shared.WriteResponse(cmd.OutOrStdout(), r); err != nil {
				return clierrors.Wrap(err, clierrors.Runtime)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
