// Package wintoast shows toasts through the Windows toast notification
// manager.
//
// Toasts are pushed through the COM notifier first, which reports
// activations and text input back into the process. When that fails the
// toast is shown by PowerShell with a tag and group, and activations reach
// the application as protocol launches of the callback URI instead.
package wintoast

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ariel-frischer/usernotify/internal/platform/toast"
	"github.com/ariel-frischer/usernotify/internal/store"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// activationScheme carries the tag and original arguments of in-process
// activations. It is never registered as a protocol.
const activationScheme = "usernotify-activation"

// runner executes a PowerShell script and returns its standard output
type runner func(s script) (string, error)

// activator pushes toast XML through the COM notifier and reports the
// activations of the toasts it pushed
type activator interface {
	Push(appID, xml string) error
	SetCallback(func(appID, arguments string, inputs map[string]string))
}

// simpleToast is the reduced notification the template fallback can show
type simpleToast struct {
	AppID   string
	Title   string
	Message string
	Audio   string
	Launch  string
	Actions []simpleAction
}

type simpleAction struct {
	Label     string
	Arguments string
}

// Platform is a toast.Platform over the Windows toast notification manager
type Platform struct {
	appID string
	store store.Store
	log   zerolog.Logger
	run   runner
	push  func(simpleToast) error
	com   activator

	mu   sync.Mutex
	live map[string]*Toast
}

var _ toast.Platform = (*Platform)(nil)

func newPlatform(appID string, st store.Store, log zerolog.Logger, run runner, push func(simpleToast) error, com activator) *Platform {
	p := &Platform{
		appID: appID,
		store: st,
		log:   log.With().Str("component", "wintoast").Logger(),
		run:   run,
		push:  push,
		com:   com,
		live:  make(map[string]*Toast),
	}
	if com != nil {
		com.SetCallback(p.activate)
	}
	return p
}

// CreateToast parses the document into a toast that is not yet shown
func (p *Platform) CreateToast(document, tag, group string, data map[string]string) (toast.Toast, error) {
	doc, err := toast.ParseDocument(document)
	if err != nil {
		return nil, err
	}
	return p.newToast(tag, group, document, doc, data), nil
}

func (p *Platform) newToast(tag, group, raw string, doc toast.Document, data map[string]string) *Toast {
	return &Toast{tag: tag, group: group, raw: raw, doc: doc, data: maps.Clone(data), log: p.log}
}

// Show displays the toast under appID. The COM notifier is tried first,
// then the PowerShell script, then the reduced template notification.
func (p *Platform) Show(appID string, t toast.Toast) error {
	wt, ok := t.(*Toast)
	if !ok {
		return fmt.Errorf("wintoast: cannot show %T", t)
	}

	untagged, err := p.pushInProcess(appID, wt)
	if err != nil {
		p.log.Debug().Err(err).Str("tag", wt.tag).Msg("in-process toast unavailable, using the action center script")
		if err := p.showScripted(appID, wt); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.live[wt.tag] = wt
	p.mu.Unlock()

	if err := p.store.Put(store.Record{
		AppID:     appID,
		Tag:       wt.tag,
		Group:     wt.group,
		Document:  wt.raw,
		Data:      wt.Data(),
		Untagged:  untagged,
		CreatedAt: time.Now(),
	}); err != nil {
		p.log.Error().Err(err).Str("tag", wt.tag).Msg("failed to record toast")
	}
	return nil
}

// pushInProcess shows the toast through the COM notifier. Such toasts
// carry no tag in the action center.
func (p *Platform) pushInProcess(appID string, wt *Toast) (bool, error) {
	if p.com == nil {
		return false, errors.New("no in-process notifier")
	}
	doc, err := activationDocument(wt.doc, wt.tag)
	if err != nil {
		return false, err
	}
	xml, err := doc.Marshal()
	if err != nil {
		return false, err
	}
	if err := p.com.Push(appID, xml); err != nil {
		return false, err
	}
	return true, nil
}

// showScripted shows the toast with its tag and group. When the document
// cannot be shown directly the reduced template notification is tried.
func (p *Platform) showScripted(appID string, wt *Toast) error {
	doc, err := protocolDocument(wt.doc, wt.tag, wt.metadata())
	if err != nil {
		return err
	}
	xml, err := doc.Marshal()
	if err != nil {
		return err
	}

	if _, err := p.run(showScript(appID, xml, wt.tag, wt.group)); err != nil {
		if p.push == nil {
			return fmt.Errorf("showing toast: %w", err)
		}
		p.log.Warn().Err(err).Str("tag", wt.tag).Msg("toast document rejected, falling back to template toast")
		if err := p.push(simpleFrom(appID, doc)); err != nil {
			return fmt.Errorf("showing template toast: %w", err)
		}
	}
	return nil
}

// activate routes a COM activation to the toast named in its arguments
func (p *Platform) activate(appID, arguments string, inputs map[string]string) {
	resp, err := toast.DecodeDeeplink(arguments)
	if err != nil {
		p.log.Warn().Err(err).Str("arguments", arguments).Msg("activation for a toast this process did not push")
		return
	}
	if appID == "" {
		appID = p.appID
	}

	p.mu.Lock()
	t, ok := p.live[resp.NotificationID]
	p.mu.Unlock()
	if !ok {
		r, found, err := p.store.Get(appID, resp.NotificationID)
		if err != nil || !found {
			p.log.Debug().Err(err).Str("tag", resp.NotificationID).Msg("activation for an unknown toast")
			return
		}
		if t, err = p.adopt(r); err != nil {
			p.log.Warn().Err(err).Str("tag", r.Tag).Msg("unreadable toast record")
			return
		}
	}

	args := t.doc.Launch
	if resp.Action.Kind == notify.KindOther {
		args = resp.Action.Identifier
	}
	t.fireActivated(toast.ActivatedArgs{Arguments: args, UserInput: inputs})
}

// History returns recorded toasts that are still in the action center.
// When the action center cannot be read every record is returned. Toasts
// pushed in-process have no tag to look up and are kept until cleared.
func (p *Platform) History(appID string) ([]toast.Toast, error) {
	records, err := p.store.List(appID)
	if err != nil {
		return nil, err
	}

	if out, err := p.run(historyScript(appID)); err == nil {
		shown := parseTags(out)
		kept := records[:0]
		for _, r := range records {
			if _, ok := shown[r.Tag]; ok || r.Untagged {
				kept = append(kept, r)
				continue
			}
			p.dismissed(r.Tag)
			if err := p.store.Delete(r.AppID, r.Tag); err != nil {
				p.log.Error().Err(err).Str("tag", r.Tag).Msg("failed to delete stale toast record")
			}
		}
		records = kept
	} else {
		p.log.Debug().Err(err).Msg("action center history unavailable")
	}

	toasts := make([]toast.Toast, 0, len(records))
	for _, r := range records {
		t, err := p.adopt(r)
		if err != nil {
			p.log.Warn().Err(err).Str("tag", r.Tag).Msg("dropping unreadable toast record")
			_ = p.store.Delete(r.AppID, r.Tag)
			continue
		}
		toasts = append(toasts, t)
	}
	return toasts, nil
}

func (p *Platform) adopt(r store.Record) (*Toast, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.live[r.Tag]; ok {
		return t, nil
	}
	doc, err := toast.ParseDocument(r.Document)
	if err != nil {
		return nil, err
	}
	t := p.newToast(r.Tag, r.Group, r.Document, doc, r.Data)
	p.live[r.Tag] = t
	return t, nil
}

func (p *Platform) forget(tag string) {
	p.mu.Lock()
	delete(p.live, tag)
	p.mu.Unlock()
}

// dismissed forgets a toast that left the action center without this
// process removing it. The action center does not say why.
func (p *Platform) dismissed(tag string) {
	p.mu.Lock()
	t, ok := p.live[tag]
	delete(p.live, tag)
	p.mu.Unlock()
	if ok {
		t.fireDismissed(toast.UnknownReason)
	}
}

// Clear removes every toast of the calling process. Unpackaged processes
// have no implicit application id and fail here.
func (p *Platform) Clear() error {
	if _, err := p.run(clearScript("")); err != nil {
		return fmt.Errorf("clearing toast history: %w", err)
	}
	return p.dropApp(p.appID)
}

// ClearApp removes every toast shown under appID
func (p *Platform) ClearApp(appID string) error {
	if _, err := p.run(clearScript(appID)); err != nil {
		return fmt.Errorf("clearing toast history for %s: %w", appID, err)
	}
	return p.dropApp(appID)
}

func (p *Platform) dropApp(appID string) error {
	p.mu.Lock()
	clear(p.live)
	p.mu.Unlock()
	return p.store.DeleteApp(appID)
}

// RemoveGroupedTag removes one toast from the action center
func (p *Platform) RemoveGroupedTag(tag, group, appID string) error {
	p.forget(tag)
	if err := p.store.Delete(appID, tag); err != nil {
		return err
	}
	if _, err := p.run(removeScript(tag, group, appID)); err != nil {
		return fmt.Errorf("removing toast %s: %w", tag, err)
	}
	return nil
}

// protocolDocument rewrites button activations as protocol launches of the
// callback URI so clicks reach an unpackaged application. Documents without
// a launch URI are returned unchanged.
func protocolDocument(doc toast.Document, tag string, metadata map[string]string) (toast.Document, error) {
	scheme, _, ok := strings.Cut(doc.Launch, "://")
	if !ok || doc.Actions == nil {
		return doc, nil
	}
	actions := *doc.Actions
	actions.Buttons = make([]toast.Button, len(doc.Actions.Buttons))
	for i, b := range doc.Actions.Buttons {
		uri, err := toast.EncodeDeeplink(scheme, tag, notify.OtherAction(b.Arguments), metadata)
		if err != nil {
			return toast.Document{}, err
		}
		b.Arguments = uri
		b.ActivationType = "protocol"
		actions.Buttons[i] = b
	}
	doc.Actions = &actions
	return doc, nil
}

// activationDocument points the body and every button at the activation
// scheme so COM activations name their toast. Buttons activate the
// process in the foreground.
func activationDocument(doc toast.Document, tag string) (toast.Document, error) {
	launch, err := toast.EncodeDeeplink(activationScheme, tag, notify.DefaultAction(), nil)
	if err != nil {
		return toast.Document{}, err
	}
	doc.Launch = launch
	doc.ActivationType = "foreground"
	if doc.Actions == nil {
		return doc, nil
	}
	actions := *doc.Actions
	actions.Buttons = make([]toast.Button, len(doc.Actions.Buttons))
	for i, b := range doc.Actions.Buttons {
		uri, err := toast.EncodeDeeplink(activationScheme, tag, notify.OtherAction(b.Arguments), nil)
		if err != nil {
			return toast.Document{}, err
		}
		b.Arguments = uri
		b.ActivationType = "foreground"
		actions.Buttons[i] = b
	}
	doc.Actions = &actions
	return doc, nil
}

// activatorGUID is a stable class id per application id
func activatorGUID(appID string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("usernotify:activator:"+appID))
	return "{" + strings.ToUpper(id.String()) + "}"
}

func simpleFrom(appID string, doc toast.Document) simpleToast {
	n := simpleToast{
		AppID:   appID,
		Title:   doc.Title(),
		Message: strings.TrimSpace(doc.Subtitle() + "\n" + doc.Body()),
		Audio:   audioName(doc),
		Launch:  doc.Launch,
	}
	if doc.Launch == "" {
		return n
	}
	for _, b := range doc.ButtonList() {
		n.Actions = append(n.Actions, simpleAction{Label: b.Content, Arguments: b.Arguments})
	}
	return n
}

// audioName maps an audio source to a template sound name such as "sms"
// or "loopingalarm"
func audioName(doc toast.Document) string {
	if doc.Silent() {
		return "silent"
	}
	src, ok := strings.CutPrefix(doc.SoundSource(), "ms-winsoundevent:Notification.")
	if !ok {
		return "default"
	}
	return strings.ToLower(strings.ReplaceAll(src, ".", ""))
}

// parseTags reads one tag per line
func parseTags(out string) map[string]struct{} {
	tags := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags[tag] = struct{}{}
		}
	}
	return tags
}

// Toast is a toast shown through the action center
type Toast struct {
	tag   string
	group string
	raw   string
	doc   toast.Document
	data  map[string]string
	log   zerolog.Logger

	mu        sync.Mutex
	activated []func(toast.ActivatedArgs)
	dismissal []func(toast.DismissalReason)
}

var _ toast.Toast = (*Toast)(nil)

// Tag returns the toast tag
func (t *Toast) Tag() string { return t.tag }

// Group returns the toast group
func (t *Toast) Group() string { return t.group }

// Data returns a copy of the data store
func (t *Toast) Data() map[string]string { return maps.Clone(t.data) }

// OnActivated subscribes to in-process activations. Toasts shown by the
// script activate through protocol launches instead.
func (t *Toast) OnActivated(fn func(toast.ActivatedArgs)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activated = append(t.activated, fn)
	return nil
}

// OnDismissed subscribes to the toast leaving the action center
func (t *Toast) OnDismissed(fn func(toast.DismissalReason)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dismissal = append(t.dismissal, fn)
	return nil
}

func (t *Toast) fireActivated(args toast.ActivatedArgs) {
	t.mu.Lock()
	handlers := slices.Clone(t.activated)
	t.mu.Unlock()
	for _, fn := range handlers {
		fn(args)
	}
}

func (t *Toast) fireDismissed(reason toast.DismissalReason) {
	t.mu.Lock()
	handlers := slices.Clone(t.dismissal)
	t.mu.Unlock()
	for _, fn := range handlers {
		fn(reason)
	}
}

func (t *Toast) metadata() map[string]string {
	metadata := map[string]string{}
	raw, ok := t.data[toast.UserInfoKey]
	if !ok {
		return metadata
	}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		t.log.Error().Err(err).Str("tag", t.tag).Msg("failed to decode toast metadata")
		return map[string]string{}
	}
	return metadata
}
