// Package toasttest provides an in-memory toast.Platform for tests.
package toasttest

import (
	"errors"
	"maps"
	"sync"

	"github.com/ariel-frischer/usernotify/internal/platform/toast"
)

// Common test errors
var (
	ErrMockClear   = errors.New("mock clear error")
	ErrMockHistory = errors.New("mock history error")
	ErrMockShow    = errors.New("mock show error")
	ErrMockRemove  = errors.New("mock remove error")
)

// Toast is a fake toast that records its subscriptions
type Toast struct {
	mu        sync.Mutex
	tag       string
	group     string
	document  string
	data      map[string]string
	activated []func(toast.ActivatedArgs)
	dismissed []func(toast.DismissalReason)

	SubscribeErr error
}

// NewToast returns a toast that is not attached to any platform
func NewToast(tag, group, document string, data map[string]string) *Toast {
	return &Toast{tag: tag, group: group, document: document, data: maps.Clone(data)}
}

// Tag returns the toast tag
func (t *Toast) Tag() string { return t.tag }

// Group returns the toast group
func (t *Toast) Group() string { return t.group }

// Document returns the XML the toast was created from
func (t *Toast) Document() string { return t.document }

// Data returns the data store
func (t *Toast) Data() map[string]string { return maps.Clone(t.data) }

// OnActivated records a handler
func (t *Toast) OnActivated(fn func(toast.ActivatedArgs)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SubscribeErr != nil {
		return t.SubscribeErr
	}
	t.activated = append(t.activated, fn)
	return nil
}

// OnDismissed records a handler
func (t *Toast) OnDismissed(fn func(toast.DismissalReason)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SubscribeErr != nil {
		return t.SubscribeErr
	}
	t.dismissed = append(t.dismissed, fn)
	return nil
}

// Activate fires every activation handler
func (t *Toast) Activate(arguments string, input map[string]string) {
	t.mu.Lock()
	handlers := append([]func(toast.ActivatedArgs){}, t.activated...)
	t.mu.Unlock()
	for _, fn := range handlers {
		fn(toast.ActivatedArgs{Arguments: arguments, UserInput: input})
	}
}

// Dismiss fires every dismissal handler
func (t *Toast) Dismiss(reason toast.DismissalReason) {
	t.mu.Lock()
	handlers := append([]func(toast.DismissalReason){}, t.dismissed...)
	t.mu.Unlock()
	for _, fn := range handlers {
		fn(reason)
	}
}

// Subscriptions returns the number of activation and dismissal handlers
func (t *Toast) Subscriptions() (activated, dismissed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.activated), len(t.dismissed)
}

// Platform is a fake toast platform. Shown toasts stay in the history until
// removed or cleared.
type Platform struct {
	mu      sync.Mutex
	shown   []*Toast
	appIDs  map[string]string
	removed []string

	ClearErr    error
	ClearAppErr error
	HistoryErr  error
	ShowErr     error
	RemoveErr   error

	ClearCalls    int
	ClearAppCalls int
}

// NewPlatform returns an empty fake platform
func NewPlatform() *Platform {
	return &Platform{appIDs: make(map[string]string)}
}

var _ toast.Platform = (*Platform)(nil)

// CreateToast returns a new fake toast
func (p *Platform) CreateToast(document, tag, group string, data map[string]string) (toast.Toast, error) {
	return NewToast(tag, group, document, data), nil
}

// Show adds the toast to the history
func (p *Platform) Show(appID string, t toast.Toast) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ShowErr != nil {
		return p.ShowErr
	}
	ft, ok := t.(*Toast)
	if !ok {
		return errors.New("toasttest: foreign toast")
	}
	p.shown = append(p.shown, ft)
	p.appIDs[ft.tag] = appID
	return nil
}

// Seed adds a toast as if an earlier process had shown it
func (p *Platform) Seed(appID string, t *Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, t)
	p.appIDs[t.tag] = appID
}

// History returns the toasts still shown for appID
func (p *Platform) History(appID string) ([]toast.Toast, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.HistoryErr != nil {
		return nil, p.HistoryErr
	}
	var out []toast.Toast
	for _, t := range p.shown {
		if p.appIDs[t.tag] == appID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Clear removes every toast
func (p *Platform) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ClearCalls++
	if p.ClearErr != nil {
		return p.ClearErr
	}
	p.shown = nil
	return nil
}

// ClearApp removes the toasts of appID
func (p *Platform) ClearApp(appID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ClearAppCalls++
	if p.ClearAppErr != nil {
		return p.ClearAppErr
	}
	kept := p.shown[:0]
	for _, t := range p.shown {
		if p.appIDs[t.tag] != appID {
			kept = append(kept, t)
		}
	}
	p.shown = kept
	return nil
}

// RemoveGroupedTag removes one toast; unknown tags are ignored
func (p *Platform) RemoveGroupedTag(tag, group, appID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, tag)
	if p.RemoveErr != nil {
		return p.RemoveErr
	}
	kept := p.shown[:0]
	for _, t := range p.shown {
		if t.tag == tag && t.group == group && p.appIDs[t.tag] == appID {
			continue
		}
		kept = append(kept, t)
	}
	p.shown = kept
	return nil
}

// Toast returns the shown toast with tag, or nil
func (p *Platform) Toast(tag string) *Toast {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.shown {
		if t.tag == tag {
			return t
		}
	}
	return nil
}

// Removed returns the tags passed to RemoveGroupedTag
func (p *Platform) Removed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.removed...)
}
