package usercenter

// Action identifiers the center reports for a body tap and a dismissal
const (
	DefaultActionIdentifier = "com.apple.UNNotificationDefaultActionIdentifier"
	DismissActionIdentifier = "com.apple.UNNotificationDismissActionIdentifier"
)

// SoundKind selects how a request plays sound
type SoundKind int

const (
	// SoundNone plays nothing
	SoundNone SoundKind = iota
	// SoundPlatform plays the platform default sound
	SoundPlatform
	// SoundNamed plays the named sound file
	SoundNamed
)

// Sound is the sound attached to a request
type Sound struct {
	Kind SoundKind `json:"kind"`
	Name string    `json:"name,omitempty"`
}

// RequestContent is the native content of a notification request
type RequestContent struct {
	Title              string            `json:"title"`
	Subtitle           string            `json:"subtitle"`
	Body               string            `json:"body"`
	Sound              Sound             `json:"sound"`
	ThreadIdentifier   string            `json:"thread_identifier"`
	CategoryIdentifier string            `json:"category_identifier"`
	UserInfo           map[string]string `json:"user_info"`
}

// Request is a notification request as the center stores it
type Request struct {
	Identifier string         `json:"identifier"`
	Content    RequestContent `json:"content"`
}

// Action is a native category action
type Action struct {
	Identifier  string `json:"identifier"`
	Title       string `json:"title"`
	TextInput   bool   `json:"text_input"`
	ButtonTitle string `json:"button_title,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Category is a native notification category
type Category struct {
	Identifier string   `json:"identifier"`
	Actions    []Action `json:"actions"`
}

// NotificationResponse is what the center hands the delegate on interaction
type NotificationResponse struct {
	ActionIdentifier string `json:"action_identifier"`
	// UserText is set for text-input actions only
	UserText *string `json:"user_text,omitempty"`
	Request  Request `json:"request"`
}

// PresentationOptions say how to show a notification while the app is frontmost
type PresentationOptions uint

// Presentation option bits, matching the native values
const (
	PresentBadge  PresentationOptions = 1 << 0
	PresentSound  PresentationOptions = 1 << 1
	PresentList   PresentationOptions = 1 << 3
	PresentBanner PresentationOptions = 1 << 4
)

// AuthorizationOptions are the capabilities requested from the user
type AuthorizationOptions uint

// Authorization option bits, matching the native values
const (
	AuthorizeBadge AuthorizationOptions = 1 << 0
	AuthorizeSound AuthorizationOptions = 1 << 1
	AuthorizeAlert AuthorizationOptions = 1 << 2
)

// AuthorizationStatus is the current permission state
type AuthorizationStatus int

// Authorization statuses, matching the native values
const (
	StatusNotDetermined AuthorizationStatus = iota
	StatusDenied
	StatusAuthorized
	StatusProvisional
	StatusEphemeral
)

// Granted reports whether notifications may be shown
func (s AuthorizationStatus) Granted() bool {
	switch s {
	case StatusAuthorized, StatusProvisional, StatusEphemeral:
		return true
	default:
		return false
	}
}

// Delegate receives center callbacks
type Delegate interface {
	WillPresent(req Request) PresentationOptions
	DidReceive(resp NotificationResponse)
}

// Center is the native user notification center. Completions may run on any
// goroutine; failures are reported as *notify.NativeError.
type Center interface {
	BundleIdentifier() string
	SetDelegate(d Delegate)
	SetNotificationCategories(categories []Category)
	RequestAuthorization(options AuthorizationOptions, completion func(granted bool, err error))
	GetNotificationSettings(completion func(status AuthorizationStatus))
	AddNotificationRequest(req Request, completion func(err error))
	GetDeliveredNotifications(completion func(delivered []Request))
	RemoveDeliveredNotifications(ids []string)
	RemoveAllDeliveredNotifications()
}
