//go:build darwin

package usernotify

import (
	"github.com/ariel-frischer/usernotify/internal/platform/usercenter"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func newPlatformManager(opts Options) (notify.Manager, error) {
	center, err := usercenter.NativeCenter()
	if err != nil {
		return nil, err
	}
	log := opts.logger()
	return usercenter.New(center, usercenter.Options{
		SoundPolicy: opts.SoundPolicy,
		Logger:      &log,
	})
}
