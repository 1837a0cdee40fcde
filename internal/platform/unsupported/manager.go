// Package unsupported provides the manager used on platforms without a
// notification backend. Every operation fails with notify.ErrNotSupported.
package unsupported

import (
	"context"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// Manager is a notify.Manager that supports nothing
type Manager struct {
	// Platform names the platform in errors, usually runtime.GOOS
	Platform string
}

var _ notify.Manager = Manager{}

func (m Manager) fail(op string) error {
	if m.Platform != "" {
		op = op + " on " + m.Platform
	}
	return notify.NewError(notify.UnsupportedError, op, notify.ErrNotSupported)
}

func (m Manager) GetNotificationPermissionState(context.Context) (bool, error) {
	return false, m.fail("get permission state")
}

func (m Manager) FirstTimeAskForNotificationPermission(context.Context) (bool, error) {
	return false, m.fail("ask permission")
}

func (m Manager) Register(notify.ResponseHandler, []notify.Category) error {
	return m.fail("register")
}

func (m Manager) RemoveAllDeliveredNotifications() error {
	return m.fail("remove all delivered notifications")
}

func (m Manager) RemoveDeliveredNotifications([]string) error {
	return m.fail("remove delivered notifications")
}

func (m Manager) GetActiveNotifications(context.Context) ([]notify.Handle, error) {
	return nil, m.fail("get active notifications")
}

func (m Manager) Send(context.Context, notify.Content) (notify.Handle, error) {
	return notify.Handle{}, m.fail("send")
}
