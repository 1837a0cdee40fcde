package toast

// DismissalReason says why a toast left the screen
type DismissalReason int

const (
	// UserCanceled means the user dismissed the toast
	UserCanceled DismissalReason = iota
	// ApplicationHidden means the application removed it
	ApplicationHidden
	// TimedOut means it expired
	TimedOut
	// UnknownReason covers anything the platform does not classify
	UnknownReason
)

// String returns the reason name used in logs
func (r DismissalReason) String() string {
	switch r {
	case UserCanceled:
		return "user_canceled"
	case ApplicationHidden:
		return "application_hidden"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// ActivatedArgs is what the platform reports when a toast is activated
type ActivatedArgs struct {
	// Arguments is the activation string: the launch attribute for a body
	// tap, the action's arguments attribute for a button
	Arguments string
	// UserInput holds text-input values keyed by input id
	UserInput map[string]string
}

// Toast is one notification object with persistent event subscriptions.
// Handlers run on a platform-owned goroutine.
type Toast interface {
	Tag() string
	Group() string
	// Data is the toast's key/value data store
	Data() map[string]string
	OnActivated(func(ActivatedArgs)) error
	OnDismissed(func(DismissalReason)) error
}

// Platform is the native toast subsystem
type Platform interface {
	// CreateToast builds a toast from its XML document without showing it
	CreateToast(document, tag, group string, data map[string]string) (Toast, error)
	// Show displays the toast under appID
	Show(appID string, t Toast) error
	// History returns the toasts the platform still shows for appID
	History(appID string) ([]Toast, error)
	// Clear removes every toast of the calling application
	Clear() error
	// ClearApp removes every toast shown under appID
	ClearApp(appID string) error
	// RemoveGroupedTag removes one toast
	RemoveGroupedTag(tag, group, appID string) error
}
