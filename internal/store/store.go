// Package store keeps records of shown notifications for platforms whose
// notification service forgets them once they are on screen.
package store

import (
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("notification store is closed")

// Record is one shown notification
type Record struct {
	AppID    string            `json:"app_id"`
	Tag      string            `json:"tag"`
	Group    string            `json:"group"`
	Document string            `json:"document"`
	Data     map[string]string `json:"data,omitempty"`

	// NativeID is the id the notification service assigned, if any. It is
	// only meaningful within Session.
	NativeID uint32 `json:"native_id,omitempty"`
	// Session identifies the notification service instance that assigned
	// NativeID
	Session string `json:"session,omitempty"`
	// Untagged marks a toast the action center holds without a tag
	Untagged  bool      `json:"untagged,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists records keyed by app id and tag
type Store interface {
	Put(r Record) error
	Get(appID, tag string) (Record, bool, error)
	// List returns records for appID in creation order
	List(appID string) ([]Record, error)
	// FindNative looks a record up by the native id session assigned,
	// across all apps
	FindNative(session string, nativeID uint32) (Record, bool, error)
	Delete(appID, tag string) error
	DeleteApp(appID string) error
	DeleteAll() error
	Close() error
}
