//go:build !darwin && !linux && !windows

package health

import "runtime"

const appIDRequired = false

// CheckNotificationService fails: no backend exists for this platform
func CheckNotificationService() CheckResult {
	return CheckResult{Name: "Notification service", Passed: false, Message: "notifications are not supported on " + runtime.GOOS}
}
