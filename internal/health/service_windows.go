//go:build windows

package health

import "github.com/ariel-frischer/usernotify/internal/platform/wintoast"

const appIDRequired = true

// CheckNotificationService checks that PowerShell is available to show toasts
func CheckNotificationService() CheckResult {
	if !wintoast.Available() {
		return CheckResult{Name: "PowerShell", Passed: false, Message: "PowerShell not found in PATH"}
	}
	return CheckResult{Name: "PowerShell", Passed: true, Message: "PowerShell found"}
}
