// Package health checks that the environment can show notifications.
package health

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/usernotify/internal/config"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what the checks look at
type Options struct {
	AppID          string
	StateDir       string
	CategoriesFile string
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, 4),
		Passed: true,
	}
	for _, check := range []CheckResult{
		CheckNotificationService(),
		CheckAppID(opts.AppID),
		CheckStateDir(opts.StateDir),
		CheckCategoriesFile(opts.CategoriesFile),
	} {
		report.Checks = append(report.Checks, check)
		if !check.Passed {
			report.Passed = false
		}
	}
	return report
}

// CheckAppID checks that an application id is configured
func CheckAppID(appID string) CheckResult {
	if appID == "" {
		return CheckResult{
			Name:    "Application id",
			Passed:  !appIDRequired,
			Message: "not configured (set app_id or USERNOTIFY_APP_ID)",
		}
	}
	return CheckResult{Name: "Application id", Passed: true, Message: appID}
}

// CheckStateDir checks that notification records can be written to dir
func CheckStateDir(dir string) CheckResult {
	const name = "State directory"
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return CheckResult{Name: name, Passed: false, Message: fmt.Sprintf("cannot create %s: %v", dir, err)}
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	probe.Close()
	_ = os.Remove(probe.Name())
	return CheckResult{Name: name, Passed: true, Message: filepath.Clean(dir) + " is writable"}
}

// CheckCategoriesFile checks that the categories file, when configured, is valid
func CheckCategoriesFile(path string) CheckResult {
	const name = "Categories file"
	if path == "" {
		return CheckResult{Name: name, Passed: true, Message: "none configured"}
	}
	categories, err := config.LoadCategories(path)
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.Identifier)
	}
	return CheckResult{Name: name, Passed: true, Message: fmt.Sprintf("%d categories (%s)", len(categories), strings.Join(ids, ", "))}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		if !check.Passed {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
