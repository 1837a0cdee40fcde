// Package freedesktop shows toasts through the freedesktop notification
// service on the session bus.
package freedesktop

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/ariel-frischer/usernotify/internal/platform/toast"
	"github.com/ariel-frischer/usernotify/internal/store"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"

	signalActionInvoked      = dbusNotifyInterface + ".ActionInvoked"
	signalNotificationClosed = dbusNotifyInterface + ".NotificationClosed"
	signalNotificationReply  = dbusNotifyInterface + ".NotificationReplied"

	dbusInterface          = "org.freedesktop.DBus"
	signalNameOwnerChanged = dbusInterface + ".NameOwnerChanged"

	// defaultActionKey is invoked by a click on the notification body
	defaultActionKey = "default"
	// inlineReplyKey is the action key servers with inline-reply support turn into a text box
	inlineReplyKey = "inline-reply"

	capabilityInlineReply = "inline-reply"

	// defaultSoundName is the sound theme name used for the platform default sound
	defaultSoundName = "message-new-instant"
)

// busCaller is the subset of dbus.BusObject the platform needs
type busCaller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Platform is a toast.Platform over org.freedesktop.Notifications
type Platform struct {
	obj   busCaller
	appID string
	store store.Store
	log   zerolog.Logger

	inlineReply bool

	// resolveSession names the server instance currently owning the
	// notification service
	resolveSession func() (string, error)

	mu       sync.Mutex
	session  string
	live     map[string]*Toast
	byNative map[uint32]*Toast

	conn    *dbus.Conn
	signals chan *dbus.Signal
	done    chan struct{}
}

var _ toast.Platform = (*Platform)(nil)

// Connect opens the session bus and starts listening for notification
// signals. Records of shown notifications go to st.
func Connect(appID string, st store.Store, log zerolog.Logger) (*Platform, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}

	p := newPlatform(conn.Object(dbusNotifyDest, dbusNotifyPath), appID, st, log, func() (string, error) {
		return serverSession(conn.BusObject())
	})
	p.conn = conn
	p.inlineReply = p.hasCapability(capabilityInlineReply)

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusNotifyPath),
		dbus.WithMatchInterface(dbusNotifyInterface),
	); err != nil {
		return nil, fmt.Errorf("subscribing to notification signals: %w", err)
	}
	if err := conn.AddMatchSignal(ownerChangedMatch()...); err != nil {
		return nil, fmt.Errorf("subscribing to notification server restarts: %w", err)
	}
	p.signals = make(chan *dbus.Signal, 10)
	conn.Signal(p.signals)
	go p.listen()

	return p, nil
}

func newPlatform(obj busCaller, appID string, st store.Store, log zerolog.Logger, resolveSession func() (string, error)) *Platform {
	return &Platform{
		obj:            obj,
		appID:          appID,
		store:          st,
		log:            log.With().Str("component", "freedesktop").Logger(),
		resolveSession: resolveSession,
		live:           make(map[string]*Toast),
		byNative:       make(map[uint32]*Toast),
		done:           make(chan struct{}),
	}
}

func ownerChangedMatch() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchSender(dbusInterface),
		dbus.WithMatchInterface(dbusInterface),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, dbusNotifyDest),
	}
}

// serverSession identifies the running notification server by the bus id
// and the unique name owning org.freedesktop.Notifications. Native ids
// are only meaningful within one session.
func serverSession(bus busCaller) (string, error) {
	var busID, owner string
	if err := bus.Call(dbusInterface+".GetId", 0).Store(&busID); err != nil {
		return "", fmt.Errorf("reading bus id: %w", err)
	}
	if err := bus.Call(dbusInterface+".GetNameOwner", 0, dbusNotifyDest).Store(&owner); err != nil {
		return "", fmt.Errorf("reading notification server owner: %w", err)
	}
	return busID + "/" + owner, nil
}

// currentSession returns the cached server session, resolving it when the
// server was not running at the last attempt
func (p *Platform) currentSession() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == "" && p.resolveSession != nil {
		session, err := p.resolveSession()
		if err != nil {
			p.log.Debug().Err(err).Msg("notification server session unknown")
			return ""
		}
		p.session = session
	}
	return p.session
}

// serverRestarted drops everything tied to the previous server instance
func (p *Platform) serverRestarted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = ""
	clear(p.live)
	clear(p.byNative)
}

// Close stops signal delivery. The shared session bus connection stays open.
func (p *Platform) Close() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	close(p.done)
	if p.conn == nil {
		return nil
	}
	p.conn.RemoveSignal(p.signals)
	return errors.Join(
		p.conn.RemoveMatchSignal(
			dbus.WithMatchObjectPath(dbusNotifyPath),
			dbus.WithMatchInterface(dbusNotifyInterface),
		),
		p.conn.RemoveMatchSignal(ownerChangedMatch()...),
	)
}

// Capabilities returns what the notification server supports
func (p *Platform) Capabilities() ([]string, error) {
	var caps []string
	if err := p.obj.Call(dbusNotifyInterface+".GetCapabilities", 0).Store(&caps); err != nil {
		return nil, fmt.Errorf("reading server capabilities: %w", err)
	}
	return caps, nil
}

// ServerInformation returns the server name, vendor, version and spec version
func (p *Platform) ServerInformation() (name, vendor, version, specVersion string, err error) {
	err = p.obj.Call(dbusNotifyInterface+".GetServerInformation", 0).Store(&name, &vendor, &version, &specVersion)
	return name, vendor, version, specVersion, err
}

func (p *Platform) hasCapability(capability string) bool {
	caps, err := p.Capabilities()
	if err != nil {
		p.log.Debug().Err(err).Msg("capabilities unavailable")
		return false
	}
	return slices.Contains(caps, capability)
}

// CreateToast parses the document into a toast that is not yet shown
func (p *Platform) CreateToast(document, tag, group string, data map[string]string) (toast.Toast, error) {
	doc, err := toast.ParseDocument(document)
	if err != nil {
		return nil, err
	}
	return newToast(tag, group, document, doc, data), nil
}

// Show sends the notification to the server and records it
func (p *Platform) Show(appID string, t toast.Toast) error {
	ft, ok := t.(*Toast)
	if !ok {
		return fmt.Errorf("freedesktop: cannot show %T", t)
	}
	actions, replyArgs := p.actionList(ft.doc)
	ft.setReplyArguments(replyArgs)

	call := p.obj.Call(dbusNotifyInterface+".Notify", 0,
		appID,                   // app_name
		uint32(0),               // replaces_id
		"",                      // app_icon
		ft.doc.Title(),          // summary
		bodyText(ft.doc),        // body
		actions,                 // actions
		hintsFor(appID, ft.doc), // hints
		int32(-1),               // expire_timeout
	)
	if call.Err != nil {
		return fmt.Errorf("showing notification: %w", call.Err)
	}
	var nativeID uint32
	if err := call.Store(&nativeID); err != nil {
		return fmt.Errorf("reading notification id: %w", err)
	}
	ft.setNativeID(nativeID)
	session := p.currentSession()

	p.mu.Lock()
	if previous, ok := p.byNative[nativeID]; ok && previous != ft {
		delete(p.live, previous.tag)
	}
	p.live[ft.tag] = ft
	p.byNative[nativeID] = ft
	p.mu.Unlock()

	if err := p.store.Put(store.Record{
		AppID:     appID,
		Tag:       ft.tag,
		Group:     ft.group,
		Document:  ft.raw,
		Data:      ft.Data(),
		NativeID:  nativeID,
		Session:   session,
		CreatedAt: time.Now(),
	}); err != nil {
		p.log.Error().Err(err).Str("tag", ft.tag).Msg("failed to record notification")
	}
	return nil
}

// actionList builds the Notify action array and returns the arguments to
// report for an inline reply
func (p *Platform) actionList(doc toast.Document) ([]string, string) {
	actions := []string{defaultActionKey, ""}
	var replyArgs string
	for _, b := range doc.ButtonList() {
		if b.HintInputID != "" && p.inlineReply && replyArgs == "" {
			actions = append(actions, inlineReplyKey, b.Content)
			replyArgs = b.Arguments
			continue
		}
		actions = append(actions, b.Arguments, b.Content)
	}
	return actions, replyArgs
}

func bodyText(doc toast.Document) string {
	switch {
	case doc.Subtitle() == "":
		return doc.Body()
	case doc.Body() == "":
		return doc.Subtitle()
	default:
		return doc.Subtitle() + "\n" + doc.Body()
	}
}

func hintsFor(appID string, doc toast.Document) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant(appID),
	}
	switch src := doc.SoundSource(); {
	case doc.Silent():
		hints["suppress-sound"] = dbus.MakeVariant(true)
	case src == toast.DefaultAudioSource:
		hints["sound-name"] = dbus.MakeVariant(defaultSoundName)
	case src != "":
		hints["sound-name"] = dbus.MakeVariant(src)
	}
	for _, b := range doc.ButtonList() {
		if b.HintInputID != "" {
			if placeholder := doc.InputPlaceholder(b.HintInputID); placeholder != "" {
				hints["x-kde-reply-placeholder-text"] = dbus.MakeVariant(placeholder)
			}
			break
		}
	}
	return hints
}

// History returns the recorded notifications for appID that the current
// server has not reported closed. Records from an earlier server session
// are dropped; the server that assigned their ids is gone.
func (p *Platform) History(appID string) ([]toast.Toast, error) {
	records, err := p.store.List(appID)
	if err != nil {
		return nil, err
	}
	session := p.currentSession()
	out := make([]toast.Toast, 0, len(records))
	for _, r := range records {
		if r.Session != session {
			p.log.Debug().Str("tag", r.Tag).Str("session", r.Session).Msg("dropping notification from an earlier server session")
			p.drop(r)
			continue
		}
		t, err := p.adopt(r)
		if err != nil {
			p.log.Warn().Err(err).Str("tag", r.Tag).Msg("dropping unreadable notification record")
			p.drop(r)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (p *Platform) drop(r store.Record) {
	p.forget(r.Tag)
	if err := p.store.Delete(r.AppID, r.Tag); err != nil {
		p.log.Error().Err(err).Str("tag", r.Tag).Msg("failed to delete notification record")
	}
}

// adopt returns the live toast for a record, rebuilding it if this process
// did not show it. A native id already held by another toast is never
// reassigned.
func (p *Platform) adopt(r store.Record) (*Toast, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.live[r.Tag]; ok {
		return t, nil
	}
	if holder, ok := p.byNative[r.NativeID]; ok {
		return nil, fmt.Errorf("native id %d already belongs to %s", r.NativeID, holder.tag)
	}
	doc, err := toast.ParseDocument(r.Document)
	if err != nil {
		return nil, err
	}
	t := newToast(r.Tag, r.Group, r.Document, doc, r.Data)
	t.setNativeID(r.NativeID)
	if p.inlineReply {
		_, replyArgs := p.actionList(doc)
		t.setReplyArguments(replyArgs)
	}
	p.live[r.Tag] = t
	p.byNative[r.NativeID] = t
	return t, nil
}

// Clear closes every notification of the platform's application
func (p *Platform) Clear() error {
	return p.ClearApp(p.appID)
}

// ClearApp closes every notification the current server shows for appID
// and forgets the rest
func (p *Platform) ClearApp(appID string) error {
	records, err := p.store.List(appID)
	if err != nil {
		return err
	}
	session := p.currentSession()
	var firstErr error
	for _, r := range records {
		if r.Session == session {
			if err := p.closeNative(r.NativeID); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		p.forget(r.Tag)
	}
	if err := p.store.DeleteApp(appID); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// RemoveGroupedTag closes one notification. Unknown tags are ignored.
func (p *Platform) RemoveGroupedTag(tag, group, appID string) error {
	r, ok, err := p.store.Get(appID, tag)
	if err != nil {
		return err
	}
	if !ok || r.Group != group {
		return nil
	}
	p.forget(tag)
	if err := p.store.Delete(appID, tag); err != nil {
		return err
	}
	if r.Session != p.currentSession() {
		return nil
	}
	return p.closeNative(r.NativeID)
}

func (p *Platform) closeNative(nativeID uint32) error {
	if err := p.obj.Call(dbusNotifyInterface+".CloseNotification", 0, nativeID).Err; err != nil {
		return fmt.Errorf("closing notification %d: %w", nativeID, err)
	}
	return nil
}

func (p *Platform) forget(tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.live[tag]
	if !ok {
		return
	}
	delete(p.live, tag)
	if id := t.NativeID(); p.byNative[id] == t {
		delete(p.byNative, id)
	}
}

func (p *Platform) listen() {
	for {
		select {
		case sig, ok := <-p.signals:
			if !ok {
				return
			}
			p.handleSignal(sig)
		case <-p.done:
			return
		}
	}
}

func (p *Platform) lookup(nativeID uint32) *Toast {
	p.mu.Lock()
	t, ok := p.byNative[nativeID]
	p.mu.Unlock()
	if ok {
		return t
	}
	r, found, err := p.store.FindNative(p.currentSession(), nativeID)
	if err != nil || !found || r.AppID != p.appID {
		return nil
	}
	adopted, err := p.adopt(r)
	if err != nil {
		return nil
	}
	return adopted
}

func (p *Platform) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case signalNameOwnerChanged:
		var name, oldOwner, newOwner string
		// a server starting for the first time has nothing to invalidate
		if err := dbus.Store(sig.Body, &name, &oldOwner, &newOwner); err != nil || name != dbusNotifyDest || oldOwner == "" {
			return
		}
		p.log.Info().Str("old_owner", oldOwner).Str("new_owner", newOwner).Msg("notification server changed")
		p.serverRestarted()

	case signalActionInvoked:
		var (
			nativeID uint32
			key      string
		)
		if err := dbus.Store(sig.Body, &nativeID, &key); err != nil {
			p.log.Debug().Err(err).Msg("malformed ActionInvoked signal")
			return
		}
		if t := p.lookup(nativeID); t != nil {
			args := key
			if key == defaultActionKey {
				args = t.doc.Launch
			}
			t.fireActivated(toast.ActivatedArgs{Arguments: args})
		}

	case signalNotificationReply:
		var (
			nativeID uint32
			text     string
		)
		if err := dbus.Store(sig.Body, &nativeID, &text); err != nil {
			p.log.Debug().Err(err).Msg("malformed NotificationReplied signal")
			return
		}
		if t := p.lookup(nativeID); t != nil {
			t.fireActivated(toast.ActivatedArgs{
				Arguments: t.replyArguments(),
				UserInput: map[string]string{toast.TextInputID: text},
			})
		}

	case signalNotificationClosed:
		var nativeID, reason uint32
		if err := dbus.Store(sig.Body, &nativeID, &reason); err != nil {
			p.log.Debug().Err(err).Msg("malformed NotificationClosed signal")
			return
		}
		t := p.lookup(nativeID)
		if t == nil {
			return
		}
		p.forget(t.tag)
		if err := p.store.Delete(p.appID, t.tag); err != nil {
			p.log.Error().Err(err).Str("tag", t.tag).Msg("failed to delete notification record")
		}
		dismissal := closeReason(reason)
		if dismissal == toast.UserCanceled && t.wasActivated() {
			// servers close a notification after one of its actions ran
			dismissal = toast.ApplicationHidden
		}
		t.fireDismissed(dismissal)
	}
}

// closeReason maps NotificationClosed reasons: 1 expired, 2 dismissed by
// the user, 3 closed by CloseNotification
func closeReason(reason uint32) toast.DismissalReason {
	switch reason {
	case 1:
		return toast.TimedOut
	case 2:
		return toast.UserCanceled
	case 3:
		return toast.ApplicationHidden
	default:
		return toast.UnknownReason
	}
}

// Probe asks the notification server for its identity without subscribing
// to signals
func Probe() (string, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return "", fmt.Errorf("connecting to session bus: %w", err)
	}
	p := newPlatform(conn.Object(dbusNotifyDest, dbusNotifyPath), "", store.NewMemory(), zerolog.Nop(), nil)
	name, vendor, version, _, err := p.ServerInformation()
	if err != nil {
		return "", fmt.Errorf("no notification server on the session bus: %w", err)
	}
	return fmt.Sprintf("%s %s (%s)", name, version, vendor), nil
}
