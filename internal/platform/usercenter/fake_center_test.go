package usercenter

import (
	"sync"
	"time"
)

// fakeCenter runs completions on their own goroutine, like the native
// center does
type fakeCenter struct {
	mu sync.Mutex

	bundleID   string
	delegate   Delegate
	categories []Category
	requests   []Request
	delivered  []Request
	removed    [][]string
	removedAll int

	status      AuthorizationStatus
	authGranted bool
	authErr     error
	addErr      error
	// hang leaves completions unresolved
	hang bool
}

func newFakeCenter() *fakeCenter {
	return &fakeCenter{bundleID: "com.example.app", status: StatusAuthorized, authGranted: true}
}

func (c *fakeCenter) BundleIdentifier() string { return c.bundleID }

func (c *fakeCenter) SetDelegate(d Delegate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delegate = d
}

func (c *fakeCenter) SetNotificationCategories(categories []Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
}

func (c *fakeCenter) later(fn func()) {
	if c.hang {
		return
	}
	go func() {
		time.Sleep(time.Millisecond)
		fn()
	}()
}

func (c *fakeCenter) RequestAuthorization(_ AuthorizationOptions, completion func(bool, error)) {
	c.mu.Lock()
	granted, err := c.authGranted, c.authErr
	c.mu.Unlock()
	c.later(func() { completion(granted, err) })
}

func (c *fakeCenter) GetNotificationSettings(completion func(AuthorizationStatus)) {
	c.mu.Lock()
	status := c.status
	c.mu.Unlock()
	c.later(func() { completion(status) })
}

func (c *fakeCenter) AddNotificationRequest(req Request, completion func(error)) {
	c.mu.Lock()
	err := c.addErr
	c.requests = append(c.requests, req)
	if err == nil {
		c.delivered = append(c.delivered, req)
	}
	c.mu.Unlock()
	c.later(func() { completion(err) })
}

func (c *fakeCenter) GetDeliveredNotifications(completion func([]Request)) {
	c.mu.Lock()
	delivered := append([]Request(nil), c.delivered...)
	c.mu.Unlock()
	c.later(func() { completion(delivered) })
}

func (c *fakeCenter) RemoveDeliveredNotifications(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, ids)
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := c.delivered[:0]
	for _, r := range c.delivered {
		if !drop[r.Identifier] {
			kept = append(kept, r)
		}
	}
	c.delivered = kept
}

func (c *fakeCenter) RemoveAllDeliveredNotifications() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removedAll++
	c.delivered = nil
}

// respond simulates a user interaction reaching the installed delegate
func (c *fakeCenter) respond(resp NotificationResponse) {
	c.mu.Lock()
	d := c.delegate
	c.mu.Unlock()
	d.DidReceive(resp)
}

func (c *fakeCenter) lastRequest() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1]
}

func (c *fakeCenter) installedCategories() []Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categories
}
