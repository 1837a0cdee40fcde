// Package usernotify constructs the notification manager for the running
// platform.
//
//	m, err := usernotify.New(usernotify.Options{AppID: "org.example.App", Protocol: "example"})
//	if err != nil {
//		return err
//	}
//	defer usernotify.Close(m)
//
// macOS uses the user notification center of the application bundle. Linux
// uses the freedesktop notification service on the session bus. Windows
// shows toasts through PowerShell. Everything else gets a manager whose
// operations fail with notify.ErrNotSupported.
package usernotify

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ariel-frischer/usernotify/internal/logging"
	"github.com/ariel-frischer/usernotify/internal/platform/toast"
	"github.com/ariel-frischer/usernotify/internal/store"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// Options configures the platform manager
type Options struct {
	// AppID identifies the application to the notification system: the
	// desktop entry name on Linux and the application user model id on
	// Windows. macOS uses the bundle identifier instead.
	AppID string

	// Protocol is the URI scheme the application is registered for. When set,
	// toast activations carry a callback URI that DecodeCallbackURI reads.
	Protocol string

	SoundPolicy notify.SoundPolicy

	// StateDir holds the notification records of backends whose platform
	// keeps none. Defaults to DefaultStateDir().
	StateDir string

	// Logger defaults to the package-global logger
	Logger *zerolog.Logger
}

// DefaultStateDir returns ~/.usernotify/state
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "usernotify", "state")
	}
	return filepath.Join(home, ".usernotify", "state")
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return *logging.Get()
}

func (o Options) stateDir() string {
	if o.StateDir == "" {
		return DefaultStateDir()
	}
	return o.StateDir
}

// New returns the manager for the running platform
func New(opts Options) (notify.Manager, error) {
	return newPlatformManager(opts)
}

var (
	sharedOnce    sync.Once
	sharedManager notify.Manager
	sharedErr     error
)

// Shared returns the process-wide manager, constructing it on first use.
// Options passed after the first call are ignored.
func Shared(opts Options) (notify.Manager, error) {
	sharedOnce.Do(func() {
		sharedManager, sharedErr = New(opts)
	})
	return sharedManager, sharedErr
}

// Close releases the resources held by a manager returned from New. Other
// managers are left alone.
func Close(m notify.Manager) error {
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// DecodeCallbackURI recovers the response carried by a toast callback URI,
// typically the argument an application is launched with after a click
func DecodeCallbackURI(uri string) (notify.Response, error) {
	return toast.DecodeDeeplink(uri)
}

// EncodeCallbackURI builds the callback URI for an interaction
func EncodeCallbackURI(protocol, notificationID string, action notify.Action, metadata map[string]string) (string, error) {
	return toast.EncodeDeeplink(protocol, notificationID, action, metadata)
}

// managed couples a manager with the resources its backend holds open
type managed struct {
	notify.Manager
	closers []io.Closer
}

func (m *managed) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	return errors.Join(errs...)
}

// openStore opens the bbolt store in the state directory, falling back to
// an in-memory store when the database is unavailable
func openStore(opts Options, log zerolog.Logger) store.Store {
	st, err := store.OpenBolt(opts.stateDir())
	if err != nil {
		log.Warn().Err(err).Msg("notification store unavailable, history limited to this process")
		return store.NewMemory()
	}
	return st
}

func toastOptions(opts Options, log zerolog.Logger) toast.Options {
	return toast.Options{
		AppID:       opts.AppID,
		Protocol:    opts.Protocol,
		SoundPolicy: opts.SoundPolicy,
		Logger:      &log,
	}
}
