//go:build darwin

package usercenter

/*
#cgo CFLAGS: -x objective-c -fobjc-arc -mmacosx-version-min=10.14
#cgo LDFLAGS: -framework Foundation -framework UserNotifications

#include <stdlib.h>
#include "center_darwin.h"
*/
import "C"

import (
	"encoding/json"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/ariel-frischer/usernotify/internal/logging"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// nativeCenter drives UNUserNotificationCenter.currentNotificationCenter
type nativeCenter struct {
	bundleID string

	mu       sync.Mutex
	delegate cgo.Handle
}

// NativeCenter returns the process notification center. It fails with
// ErrNoBundleID when the binary is not part of an application bundle, since
// the center cannot be used without one.
func NativeCenter() (Center, error) {
	cBundle := C.usernotifyBundleIdentifier()
	if cBundle == nil {
		return nil, notify.NewError(notify.ConfigurationError, "native center", notify.ErrNoBundleID)
	}
	defer C.free(unsafe.Pointer(cBundle))
	return &nativeCenter{bundleID: C.GoString(cBundle)}, nil
}

func (c *nativeCenter) BundleIdentifier() string {
	return c.bundleID
}

func (c *nativeCenter) SetDelegate(d Delegate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	previous := c.delegate
	c.delegate = cgo.NewHandle(d)
	C.usernotifySetDelegate(C.uintptr_t(c.delegate))
	if previous != 0 {
		previous.Delete()
	}
}

func (c *nativeCenter) SetNotificationCategories(categories []Category) {
	withJSON(categories, func(s *C.char) { C.usernotifySetCategories(s) })
}

func (c *nativeCenter) RequestAuthorization(options AuthorizationOptions, completion func(bool, error)) {
	h := cgo.NewHandle(completion)
	C.usernotifyRequestAuthorization(C.long(options), C.uintptr_t(h))
}

func (c *nativeCenter) GetNotificationSettings(completion func(AuthorizationStatus)) {
	h := cgo.NewHandle(completion)
	C.usernotifyGetSettings(C.uintptr_t(h))
}

func (c *nativeCenter) AddNotificationRequest(req Request, completion func(error)) {
	h := cgo.NewHandle(completion)
	withJSON(req, func(s *C.char) { C.usernotifyAddRequest(s, C.uintptr_t(h)) })
}

func (c *nativeCenter) GetDeliveredNotifications(completion func([]Request)) {
	h := cgo.NewHandle(completion)
	C.usernotifyGetDelivered(C.uintptr_t(h))
}

func (c *nativeCenter) RemoveDeliveredNotifications(ids []string) {
	withJSON(ids, func(s *C.char) { C.usernotifyRemoveDelivered(s) })
}

func (c *nativeCenter) RemoveAllDeliveredNotifications() {
	C.usernotifyRemoveAllDelivered()
}

func withJSON(v any, fn func(*C.char)) {
	data, err := json.Marshal(v)
	if err != nil {
		log := logging.Component("usercenter")
		log.Error().Err(err).Msg("failed to encode native payload")
		data = []byte("null")
	}
	s := C.CString(string(data))
	defer C.free(unsafe.Pointer(s))
	fn(s)
}

func nativeError(hasError C.int, code C.long, domain, description, userInfo *C.char) error {
	if hasError == 0 {
		return nil
	}
	return &notify.NativeError{
		Code:        int(code),
		Domain:      goString(domain),
		UserInfo:    goString(userInfo),
		Description: goString(description),
	}
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

// take returns the callback stored in h and releases the handle
func take[T any](h C.uintptr_t) T {
	handle := cgo.Handle(h)
	defer handle.Delete()
	return handle.Value().(T)
}

//export usernotifyWillPresent
func usernotifyWillPresent(h C.uintptr_t, payload *C.char) C.long {
	var req Request
	if err := json.Unmarshal([]byte(C.GoString(payload)), &req); err != nil {
		return C.long(PresentBadge | PresentBanner | PresentSound)
	}
	d := cgo.Handle(h).Value().(Delegate)
	return C.long(d.WillPresent(req))
}

//export usernotifyDidReceive
func usernotifyDidReceive(h C.uintptr_t, payload *C.char) {
	var resp NotificationResponse
	if err := json.Unmarshal([]byte(C.GoString(payload)), &resp); err != nil {
		log := logging.Component("usercenter")
		log.Error().Err(err).Msg("failed to decode notification response")
		return
	}
	d := cgo.Handle(h).Value().(Delegate)
	d.DidReceive(resp)
}

//export usernotifyAuthorizationCompleted
func usernotifyAuthorizationCompleted(h C.uintptr_t, granted, hasError C.int, code C.long, domain, description, userInfo *C.char) {
	completion := take[func(bool, error)](h)
	completion(granted != 0, nativeError(hasError, code, domain, description, userInfo))
}

//export usernotifySettingsCompleted
func usernotifySettingsCompleted(h C.uintptr_t, status C.long) {
	completion := take[func(AuthorizationStatus)](h)
	completion(AuthorizationStatus(status))
}

//export usernotifyAddCompleted
func usernotifyAddCompleted(h C.uintptr_t, hasError C.int, code C.long, domain, description, userInfo *C.char) {
	completion := take[func(error)](h)
	completion(nativeError(hasError, code, domain, description, userInfo))
}

//export usernotifyDeliveredCompleted
func usernotifyDeliveredCompleted(h C.uintptr_t, payload *C.char) {
	completion := take[func([]Request)](h)
	var delivered []Request
	if err := json.Unmarshal([]byte(C.GoString(payload)), &delivered); err != nil {
		log := logging.Component("usercenter")
		log.Error().Err(err).Msg("failed to decode delivered notifications")
	}
	completion(delivered)
}
