package notify

import "context"

// SoundPolicy decides what a notification without an explicit Sound plays
type SoundPolicy int

const (
	// SoundPlatformDefault plays the platform default sound
	SoundPlatformDefault SoundPolicy = iota
	// SoundSilent plays nothing
	SoundSilent
)

// ParseSoundPolicy accepts "platform" (or "") and "silent"
func ParseSoundPolicy(s string) (SoundPolicy, error) {
	switch s {
	case "", "platform":
		return SoundPlatformDefault, nil
	case "silent":
		return SoundSilent, nil
	default:
		return SoundPlatformDefault, &Error{Kind: ConfigurationError, Op: "parse sound policy", Err: errUnknownSoundPolicy(s)}
	}
}

// String returns the configuration name of the policy
func (p SoundPolicy) String() string {
	if p == SoundSilent {
		return "silent"
	}
	return "platform"
}

// Manager is the notification contract shared by every platform adapter.
// Implementations are safe for concurrent use; on macOS the operations
// documented as main-thread only fail with ErrNotMainThread elsewhere.
type Manager interface {
	// GetNotificationPermissionState reports whether notifications may be shown.
	// It never prompts the user.
	GetNotificationPermissionState(ctx context.Context) (bool, error)

	// FirstTimeAskForNotificationPermission prompts the user the first time it
	// is called and returns the granted state. A decline is (false, nil).
	FirstTimeAskForNotificationPermission(ctx context.Context) (bool, error)

	// Register installs the response handler and replaces the category set.
	// It may be called once per manager; a second call returns
	// ErrMultipleRegistration and leaves the first registration in place.
	Register(handler ResponseHandler, categories []Category) error

	// RemoveAllDeliveredNotifications clears the notification center for this app
	RemoveAllDeliveredNotifications() error

	// RemoveDeliveredNotifications removes the given notifications. Unknown ids
	// are ignored.
	RemoveDeliveredNotifications(ids []string) error

	// GetActiveNotifications returns the notifications still shown
	GetActiveNotifications(ctx context.Context) ([]Handle, error)

	// Send posts a notification and returns once the system accepted it
	Send(ctx context.Context, content Content) (Handle, error)
}
