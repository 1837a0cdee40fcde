//go:build linux

package usernotify

import (
	"io"

	"github.com/ariel-frischer/usernotify/internal/platform/freedesktop"
	"github.com/ariel-frischer/usernotify/internal/platform/toast"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func newPlatformManager(opts Options) (notify.Manager, error) {
	const op = "new freedesktop manager"
	if opts.AppID == "" {
		return nil, notify.NewError(notify.ConfigurationError, op, notify.ErrNoAppID)
	}
	log := opts.logger()
	st := openStore(opts, log)

	platform, err := freedesktop.Connect(opts.AppID, st, log)
	if err != nil {
		_ = st.Close()
		return nil, notify.NewError(notify.UnsupportedError, op, err)
	}
	m, err := toast.New(platform, toastOptions(opts, log))
	if err != nil {
		_ = platform.Close()
		_ = st.Close()
		return nil, err
	}
	return &managed{Manager: m, closers: []io.Closer{st, platform}}, nil
}
