package shared

import (
	"encoding/json"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/usernotify/internal/config"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
	"github.com/ariel-frischer/usernotify/internal/logging"
	"github.com/ariel-frischer/usernotify/internal/mainthread"
	"github.com/ariel-frischer/usernotify/pkg/notify"
	"github.com/ariel-frischer/usernotify/pkg/usernotify"
)

// AddGlobalFlags defines the persistent flags every command reads through Setup
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", config.DefaultLocalConfigPath, "Path to config file")
	cmd.PersistentFlags().String("app-id", "", "Application id (overrides app_id)")
	cmd.PersistentFlags().String("protocol", "", "Callback URI scheme (overrides protocol)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
}

// Setup loads the configuration, applies the global flag overrides and
// initializes logging. The returned cleanup closes the log file.
func Setup(cmd *cobra.Command) (*config.Configuration, func(), error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, clierrors.ConfigParseError(configPath, err)
	}

	if appID, _ := cmd.Flags().GetString("app-id"); appID != "" {
		cfg.AppID = appID
	}
	if protocol, _ := cmd.Flags().GetString("protocol"); protocol != "" {
		cfg.Protocol = protocol
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}

	cleanup, err := logging.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, clierrors.Wrap(err, clierrors.Configuration, "Check that log_file points to a writable location")
	}
	logging.Get().Debug().Str("app_id", cfg.AppID).Str("state_dir", cfg.StateDir).Msg("configuration loaded")
	return cfg, cleanup, nil
}

// NewManager constructs the platform manager. Tests replace it.
var NewManager = func(cfg *config.Configuration) (notify.Manager, error) {
	sound, err := cfg.Sound()
	if err != nil {
		return nil, err
	}
	log := logging.Component("cli")
	return usernotify.New(usernotify.Options{
		AppID:       cfg.AppID,
		Protocol:    cfg.Protocol,
		SoundPolicy: sound,
		StateDir:    cfg.StateDir,
		Logger:      &log,
	})
}

// OpenManager constructs the manager on the main thread and returns it with
// a function that releases it
func OpenManager(cfg *config.Configuration) (notify.Manager, func(), error) {
	var m notify.Manager
	err := mainthread.CallErr(func() error {
		var err error
		m, err = NewManager(cfg)
		return err
	})
	if err != nil {
		if notify.KindOf(err) == notify.UnsupportedError {
			return nil, nil, clierrors.NotificationsUnsupported(runtime.GOOS, err)
		}
		return nil, nil, clierrors.FromNotifyError(err, "failed to open the notification manager")
	}
	release := func() {
		if err := usernotify.Close(m); err != nil {
			logging.Get().Warn().Err(err).Msg("closing notification manager")
		}
	}
	return m, release, nil
}

// ResponseJSON is the output form of a notification response
type ResponseJSON struct {
	NotificationID string            `json:"notification_id"`
	Action         notify.Action     `json:"action"`
	UserInput      *string           `json:"user_input,omitempty"`
	UserMetadata   map[string]string `json:"user_metadata"`
}

// NewResponseJSON converts a response for output
func NewResponseJSON(r notify.Response) ResponseJSON {
	metadata := r.UserMetadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return ResponseJSON{
		NotificationID: r.NotificationID,
		Action:         r.Action,
		UserInput:      r.UserInput,
		UserMetadata:   metadata,
	}
}

// WriteResponse writes r as one line of JSON
func WriteResponse(w io.Writer, r notify.Response) error {
	return json.NewEncoder(w).Encode(NewResponseJSON(r))
}
