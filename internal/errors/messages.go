package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// MissingAppID is returned when a command needs an application id and none is configured
func MissingAppID() *CLIError {
	return NewConfigError(
		"no application id configured",
		"Pass --app-id with your application id (desktop entry name on Linux, AppUserModelID on Windows)",
		"Or set USERNOTIFY_APP_ID",
		`Or add "app_id" to .usernotify/config.json`,
	)
}

// NotificationsUnsupported is returned when the platform backend cannot be used
func NotificationsUnsupported(platform string, err error) *CLIError {
	cliErr := NewPrerequisiteError(
		fmt.Sprintf("notifications are not available on %s: %v", platform, err),
		"Run 'usernotify doctor' to check the notification environment",
	)
	cliErr.Err = err
	return cliErr
}

// InvalidMetadataFlag is returned for a --meta value that is not key=value
func InvalidMetadataFlag(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid metadata %q", value),
		"usernotify send --meta key=value [--meta key=value ...]",
		"Separate the key and value with '='",
	)
}

// InvalidCategoriesFile is returned when the categories file cannot be used
func InvalidCategoriesFile(path string, err error) *CLIError {
	cliErr := NewConfigError(
		fmt.Sprintf("invalid categories file %s: %v", path, err),
		"Check the file against the categories format in the documentation",
		"Every category needs an id; every action needs an id and a title",
		"Text actions also need a button_title",
	)
	cliErr.Err = err
	return cliErr
}

// ConfigParseError is returned when the configuration cannot be loaded
func ConfigParseError(path string, err error) *CLIError {
	cliErr := NewConfigError(
		fmt.Sprintf("failed to load configuration %s: %v", path, err),
		"Check the JSON syntax of the config file",
		"Run 'usernotify config show' to see the effective configuration",
	)
	cliErr.Err = err
	return cliErr
}

// InvalidCallbackURI is returned when decode is given a URI it cannot read
func InvalidCallbackURI(uri string, err error) *CLIError {
	cliErr := NewArgumentErrorWithUsage(
		fmt.Sprintf("cannot decode callback URI %q: %v", uri, err),
		"usernotify decode <scheme>://<id>/<action>?<metadata>",
	)
	cliErr.Err = err
	return cliErr
}

// RegistrationFailed is returned when the response handler could not be registered
func RegistrationFailed(err error) *CLIError {
	return FromNotifyError(err, "failed to register for notification responses")
}

// SendFailed is returned when a notification could not be posted
func SendFailed(err error) *CLIError {
	return FromNotifyError(err, "failed to send notification")
}

// PermissionDenied is returned when the user declined notifications
func PermissionDenied() *CLIError {
	return NewPrerequisiteError(
		"notifications are not permitted for this application",
		"Allow notifications for the application in the system settings",
	)
}

// TimeoutError is returned when waiting for something took too long
func TimeoutError(duration, what string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("timed out after %s waiting for %s", duration, what),
		"Increase response_timeout, or set it to 0 to wait forever",
	)
}

// FromNotifyError categorizes a notification error by its kind, prefixing
// message when non-empty
func FromNotifyError(err error, message string) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	category, remediation := Runtime, []string(nil)
	switch notify.KindOf(err) {
	case notify.ConfigurationError:
		category = Configuration
		if stderrors.Is(err, notify.ErrNoBundleID) {
			remediation = []string{"Run the binary from inside an application bundle"}
		}
		if stderrors.Is(err, notify.ErrNoAppID) {
			return MissingAppID()
		}
	case notify.InvalidArgumentError, notify.SerializationError:
		category = Argument
	case notify.UnsupportedError:
		category = Prerequisite
		remediation = []string{"Run 'usernotify doctor' to check the notification environment"}
	case notify.ThreadingError:
		remediation = []string{"Call the manager from the main thread"}
	case notify.RegistrationError:
		if stderrors.Is(err, notify.ErrDuplicateCategory) {
			category = Configuration
			remediation = []string{"Give every category in the categories file a unique id"}
		}
	}

	if message == "" {
		return Wrap(err, category, remediation...)
	}
	return WrapWithMessage(err, category, message, remediation...)
}
