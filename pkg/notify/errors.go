package notify

import (
	"errors"
	"fmt"
)

// Sentinel errors. Adapters wrap them in *Error; test with errors.Is.
var (
	ErrNoBundleID           = errors.New("bundle id is not set, this is required to send notifications")
	ErrNoAppID              = errors.New("application id is not set, this is required to send notifications")
	ErrNotMainThread        = errors.New("notification APIs need to be called from the main thread, but this is not the main thread")
	ErrMultipleRegistration = errors.New("handler already registered, register may only be called once per manager")
	ErrDuplicateCategory    = errors.New("duplicate category identifier")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrChannelClosed        = errors.New("completion channel closed before the native callback fired")
	ErrNotSupported         = errors.New("notifications are not supported on this platform")
	ErrInvalidCallbackURI   = errors.New("invalid callback uri")
	ErrNilHandler           = errors.New("response handler is nil")
)

// ErrorKind groups failures by how a caller can react to them
type ErrorKind int

const (
	// UnknownError is the zero kind
	UnknownError ErrorKind = iota
	// ConfigurationError means the application identity or options are missing or invalid
	ConfigurationError
	// ThreadingError means a main-thread operation was called elsewhere
	ThreadingError
	// RegistrationError means Register was misused
	RegistrationError
	// PlatformFailure means the native notification system reported a failure
	PlatformFailure
	// SerializationError means metadata or a callback URI could not be encoded or decoded
	SerializationError
	// CommunicationError means a native completion never arrived
	CommunicationError
	// UnsupportedError means the platform has no notification support
	UnsupportedError
	// InvalidArgumentError means the caller passed unusable input
	InvalidArgumentError
)

var kindNames = map[ErrorKind]string{
	UnknownError:         "unknown",
	ConfigurationError:   "configuration",
	ThreadingError:       "threading",
	RegistrationError:    "registration",
	PlatformFailure:      "platform",
	SerializationError:   "serialization",
	CommunicationError:   "communication",
	UnsupportedError:     "unsupported",
	InvalidArgumentError: "invalid argument",
}

// String returns the kind name
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single error type returned by managers
type Error struct {
	Kind ErrorKind
	// Op is the manager operation that failed, e.g. "send"
	Op  string
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and operation
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in the chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}

// NativeError is a failure reported by the operating system's notification API
type NativeError struct {
	Code        int
	Domain      string
	UserInfo    string
	Description string
}

// Error implements the error interface
func (e *NativeError) Error() string {
	return fmt.Sprintf("platform error: code: %d, domain: %s, user_info: %s, description: %s",
		e.Code, e.Domain, e.UserInfo, e.Description)
}

func errUnknownSoundPolicy(s string) error {
	return fmt.Errorf("unknown sound policy %q (expected platform or silent)", s)
}
