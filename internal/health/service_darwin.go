//go:build darwin

package health

import "github.com/ariel-frischer/usernotify/internal/platform/usercenter"

// macOS identifies the application by its bundle, not by app_id
const appIDRequired = false

// CheckNotificationService checks that the process runs inside an application bundle
func CheckNotificationService() CheckResult {
	center, err := usercenter.NativeCenter()
	if err != nil {
		return CheckResult{Name: "Notification center", Passed: false, Message: "not running from an application bundle"}
	}
	return CheckResult{Name: "Notification center", Passed: true, Message: "bundle " + center.BundleIdentifier()}
}
