package freedesktop

import (
	"maps"
	"slices"
	"sync"

	"github.com/ariel-frischer/usernotify/internal/platform/toast"
)

// Toast is one notification shown through the notification server
type Toast struct {
	tag   string
	group string
	raw   string
	doc   toast.Document
	data  map[string]string

	mu        sync.Mutex
	nativeID  uint32
	replyArgs string
	activated []func(toast.ActivatedArgs)
	dismissed []func(toast.DismissalReason)
	wasUsed   bool
}

var _ toast.Toast = (*Toast)(nil)

func newToast(tag, group, raw string, doc toast.Document, data map[string]string) *Toast {
	return &Toast{tag: tag, group: group, raw: raw, doc: doc, data: maps.Clone(data)}
}

// Tag returns the toast tag
func (t *Toast) Tag() string { return t.tag }

// Group returns the toast group
func (t *Toast) Group() string { return t.group }

// Data returns a copy of the data store
func (t *Toast) Data() map[string]string { return maps.Clone(t.data) }

// NativeID returns the server-assigned id, zero before Show
func (t *Toast) NativeID() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nativeID
}

// OnActivated subscribes to activations
func (t *Toast) OnActivated(fn func(toast.ActivatedArgs)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activated = append(t.activated, fn)
	return nil
}

// OnDismissed subscribes to dismissals
func (t *Toast) OnDismissed(fn func(toast.DismissalReason)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dismissed = append(t.dismissed, fn)
	return nil
}

func (t *Toast) setNativeID(id uint32) {
	t.mu.Lock()
	t.nativeID = id
	t.mu.Unlock()
}

func (t *Toast) setReplyArguments(args string) {
	t.mu.Lock()
	t.replyArgs = args
	t.mu.Unlock()
}

func (t *Toast) replyArguments() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replyArgs
}

func (t *Toast) wasActivated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wasUsed
}

func (t *Toast) fireActivated(args toast.ActivatedArgs) {
	t.mu.Lock()
	t.wasUsed = true
	handlers := slices.Clone(t.activated)
	t.mu.Unlock()
	for _, fn := range handlers {
		fn(args)
	}
}

func (t *Toast) fireDismissed(reason toast.DismissalReason) {
	t.mu.Lock()
	handlers := slices.Clone(t.dismissed)
	t.mu.Unlock()
	for _, fn := range handlers {
		fn(reason)
	}
}
