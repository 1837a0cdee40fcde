package notify

import "maps"

// ActionKind classifies the interaction that produced a Response
type ActionKind int

const (
	// KindDefault is a tap on the notification body
	KindDefault ActionKind = iota
	// KindDismiss is an explicit user dismissal
	KindDismiss
	// KindOther is a category action; Action.Identifier names it
	KindOther
)

// Action is the user interaction carried by a Response
type Action struct {
	Kind       ActionKind
	Identifier string
}

// DefaultAction is a tap on the notification itself
func DefaultAction() Action {
	return Action{Kind: KindDefault}
}

// DismissAction is an explicit user dismissal
func DismissAction() Action {
	return Action{Kind: KindDismiss}
}

// OtherAction is the category action with the given identifier
func OtherAction(identifier string) Action {
	return Action{Kind: KindOther, Identifier: identifier}
}

// String returns "default", "dismiss" or the action identifier
func (a Action) String() string {
	switch a.Kind {
	case KindDefault:
		return "default"
	case KindDismiss:
		return "dismiss"
	default:
		return a.Identifier
	}
}

// MarshalText encodes the action the way String does
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Response is a normalized user interaction with a notification
type Response struct {
	NotificationID string
	Action         Action

	// UserInput is non-nil only for text-input actions
	UserInput *string

	UserMetadata map[string]string
}

// Input returns the text reply and whether one was given
func (r Response) Input() (string, bool) {
	if r.UserInput == nil {
		return "", false
	}
	return *r.UserInput, true
}

// ResponseHandler receives every interaction for a manager. It is called
// from an adapter-owned goroutine.
type ResponseHandler func(Response)

// Handle identifies a notification the system has accepted
type Handle struct {
	ID           string
	UserMetadata map[string]string

	remove func(id string) error
}

// NewHandle returns a handle whose Close calls remove with the id. A nil
// remove makes Close a no-op.
func NewHandle(id string, metadata map[string]string, remove func(id string) error) Handle {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return Handle{ID: id, UserMetadata: metadata, remove: remove}
}

// GetID returns the notification id
func (h Handle) GetID() string {
	return h.ID
}

// Metadata returns a copy of the metadata captured at send time
func (h Handle) Metadata() map[string]string {
	return maps.Clone(h.UserMetadata)
}

// Close removes the notification from the notification center, best effort
func (h Handle) Close() error {
	if h.remove == nil {
		return nil
	}
	return h.remove(h.ID)
}
