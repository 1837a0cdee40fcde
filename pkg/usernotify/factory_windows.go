//go:build windows

package usernotify

import (
	"errors"
	"io"

	"github.com/ariel-frischer/usernotify/internal/platform/toast"
	"github.com/ariel-frischer/usernotify/internal/platform/wintoast"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

var errNoPowerShell = errors.New("powershell not found in PATH")

func newPlatformManager(opts Options) (notify.Manager, error) {
	const op = "new toast manager"
	if opts.AppID == "" {
		return nil, notify.NewError(notify.ConfigurationError, op, notify.ErrNoAppID)
	}
	if !wintoast.Available() {
		return nil, notify.NewError(notify.UnsupportedError, op, errNoPowerShell)
	}
	log := opts.logger()
	st := openStore(opts, log)

	m, err := toast.New(wintoast.New(opts.AppID, st, log), toastOptions(opts, log))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &managed{Manager: m, closers: []io.Closer{st}}, nil
}
