//go:build !darwin

package usercenter

import "github.com/ariel-frischer/usernotify/pkg/notify"

// NativeCenter is only available on macOS
func NativeCenter() (Center, error) {
	return nil, notify.NewError(notify.UnsupportedError, "native center", notify.ErrNotSupported)
}
