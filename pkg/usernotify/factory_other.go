//go:build !darwin && !linux && !windows

package usernotify

import (
	"runtime"

	"github.com/ariel-frischer/usernotify/internal/platform/unsupported"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func newPlatformManager(Options) (notify.Manager, error) {
	return unsupported.Manager{Platform: runtime.GOOS}, nil
}
