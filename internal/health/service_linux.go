//go:build linux

package health

import "github.com/ariel-frischer/usernotify/internal/platform/freedesktop"

const appIDRequired = true

// CheckNotificationService checks for a notification server on the session bus
func CheckNotificationService() CheckResult {
	server, err := freedesktop.Probe()
	if err != nil {
		return CheckResult{Name: "Notification server", Passed: false, Message: err.Error()}
	}
	return CheckResult{Name: "Notification server", Passed: true, Message: server}
}
