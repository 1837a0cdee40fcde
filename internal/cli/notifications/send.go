package notifications

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	"github.com/ariel-frischer/usernotify/internal/config"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
	"github.com/ariel-frischer/usernotify/internal/logging"
	"github.com/ariel-frischer/usernotify/internal/mainthread"
	"github.com/ariel-frischer/usernotify/internal/progress"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// responseBuffer bounds the responses queued between the handler and the command
const responseBuffer = 16

type sendOptions struct {
	title    string
	body     string
	subtitle string
	sound    string
	thread   string
	category string
	meta     []string
	wait     bool
	timeout  time.Duration
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a notification",
		Long: `Send a notification and print its id.

With --wait the command stays running until the user interacts with the
notification and prints the response as JSON instead of the id. Categories
named by --category come from the categories file (categories_file).`,
		Example: `  # Send a simple notification
  usernotify send --title "Build finished" --body "All tests passed"

  # Attach metadata and wait for the user to respond
  usernotify send --title "New message" --category chat --meta chat=42 --wait

  # Give up after a minute
  usernotify send --title "Deploy?" --category confirm --wait --timeout 1m`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, opts)
		},
	}
	cmd.GroupID = shared.GroupNotifications
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Notification title")
	cmd.Flags().StringVarP(&opts.body, "body", "b", "", "Notification body")
	cmd.Flags().StringVar(&opts.subtitle, "subtitle", "", "Notification subtitle")
	cmd.Flags().StringVar(&opts.sound, "sound", "", "Sound to play (platform sound name)")
	cmd.Flags().StringVar(&opts.thread, "thread", "", "Thread id notifications are grouped under")
	cmd.Flags().StringVar(&opts.category, "category", "", "Category id from the categories file")
	cmd.Flags().StringArrayVarP(&opts.meta, "meta", "m", nil, "Metadata as key=value (repeatable)")
	cmd.Flags().BoolVarP(&opts.wait, "wait", "w", false, "Wait for the user to respond")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Give up waiting after this long (default response_timeout)")
	return cmd
}

func runSend(cmd *cobra.Command, opts *sendOptions) error {
	if opts.title == "" && opts.body == "" {
		return clierrors.NewArgumentErrorWithUsage(
			"a notification needs a title or a body",
			"usernotify send --title <title> [--body <body>]",
		)
	}
	metadata, err := parseMetadata(opts.meta)
	if err != nil {
		return err
	}

	cfg, cleanup, err := shared.Setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	categories, err := config.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return clierrors.InvalidCategoriesFile(cfg.CategoriesFile, err)
	}
	if opts.category != "" && !hasCategory(categories, opts.category) {
		logging.Get().Warn().Str("category", opts.category).Msg("category is not in the categories file, actions will not be shown")
	}

	m, release, err := shared.OpenManager(cfg)
	if err != nil {
		return err
	}
	defer release()

	responses := make(chan notify.Response, responseBuffer)
	if len(categories) > 0 || opts.wait {
		if err := register(m, categories, responses); err != nil {
			return err
		}
	}

	content := notify.NewBuilder().
		Title(opts.title).
		Body(opts.body).
		Subtitle(opts.subtitle).
		Sound(opts.sound).
		ThreadID(opts.thread).
		CategoryID(opts.category).
		UserMetadata(metadata).
		Build()

	var handle notify.Handle
	err = mainthread.CallErr(func() error {
		var err error
		handle, err = m.Send(cmd.Context(), content)
		return err
	})
	if err != nil {
		return clierrors.SendFailed(err)
	}
	logging.Get().Debug().Str("id", handle.ID).Msg("notification sent")

	if !opts.wait {
		fmt.Fprintln(cmd.OutOrStdout(), handle.ID)
		return nil
	}

	timeout := cfg.Timeout()
	if cmd.Flags().Changed("timeout") {
		timeout = opts.timeout
	}
	return awaitResponse(cmd, handle.ID, responses, timeout)
}

// register installs a handler that forwards responses to the channel
func register(m notify.Manager, categories []notify.Category, responses chan<- notify.Response) error {
	handler := func(r notify.Response) {
		select {
		case responses <- r:
		default:
			logging.Get().Warn().Str("id", r.NotificationID).Msg("response dropped, reader is not keeping up")
		}
	}
	if err := mainthread.CallErr(func() error { return m.Register(handler, categories) }); err != nil {
		return clierrors.RegistrationFailed(err)
	}
	return nil
}

func awaitResponse(cmd *cobra.Command, id string, responses <-chan notify.Response, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	display := progress.NewDisplay(progress.DetectTerminalCapabilities(), cmd.ErrOrStderr())
	display.Start("Waiting for a response to " + id)

	for {
		select {
		case r := <-responses:
			if r.NotificationID != id {
				logging.Get().Debug().Str("id", r.NotificationID).Msg("ignoring response for another notification")
				continue
			}
			display.Stop()
			return shared.WriteResponse(cmd.OutOrStdout(), r)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				display.Fail("No response", nil)
				return shared.WithExitCode(shared.ExitTimeout, clierrors.TimeoutError(timeout.String(), "a response"))
			}
			display.Stop()
			return nil
		}
	}
}

// parseMetadata reads repeated key=value flags
func parseMetadata(values []string) (map[string]string, error) {
	metadata := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, clierrors.InvalidMetadataFlag(v)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func hasCategory(categories []notify.Category, id string) bool {
	for _, c := range categories {
		if c.Identifier == id {
			return true
		}
	}
	return false
}
