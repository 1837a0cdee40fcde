// Package toast implements the notification manager for event-handler style
// platforms: each notification is a toast object with its own activation and
// dismissal subscriptions, described by XML markup.
package toast

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ariel-frischer/usernotify/internal/async"
	"github.com/ariel-frischer/usernotify/internal/logging"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

const (
	// MessageGroup is the group every toast is shown under
	MessageGroup = "msg-group"
	// UserInfoKey is the data store key holding the metadata JSON
	UserInfoKey = "UserInfoJson"

	idLength = 16
)

// Options configures a Manager
type Options struct {
	// AppID is the application user model id toasts are shown under
	AppID string
	// Protocol is the callback URI scheme; empty disables protocol activation
	Protocol    string
	SoundPolicy notify.SoundPolicy
	// Logger defaults to the global logger
	Logger *zerolog.Logger
}

// Manager is a notify.Manager over a toast Platform
type Manager struct {
	platform Platform
	appID    string
	protocol string
	sound    notify.SoundPolicy
	log      zerolog.Logger

	mu         sync.RWMutex
	categories map[string]notify.Category

	handler async.Cell[notify.ResponseHandler]

	subMu      sync.Mutex
	subscribed map[string]struct{}

	newID func() string
}

var _ notify.Manager = (*Manager)(nil)

// New returns a manager for appID on platform
func New(platform Platform, opts Options) (*Manager, error) {
	if opts.AppID == "" {
		return nil, notify.NewError(notify.ConfigurationError, "new toast manager", notify.ErrNoAppID)
	}
	log := logging.Component("toast")
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "toast").Logger()
	}
	return &Manager{
		platform:   platform,
		appID:      opts.AppID,
		protocol:   opts.Protocol,
		sound:      opts.SoundPolicy,
		log:        log,
		categories: make(map[string]notify.Category),
		subscribed: make(map[string]struct{}),
		newID:      newNotificationID,
	}, nil
}

func newNotificationID() string {
	return uuid.NewString()[:idLength]
}

// GetNotificationPermissionState always reports true; toasts need no permission
func (m *Manager) GetNotificationPermissionState(context.Context) (bool, error) {
	return true, nil
}

// FirstTimeAskForNotificationPermission always reports true
func (m *Manager) FirstTimeAskForNotificationPermission(context.Context) (bool, error) {
	return true, nil
}

// Register installs handler, replaces the category set and subscribes to
// every toast the platform still shows, including those from earlier runs
func (m *Manager) Register(handler notify.ResponseHandler, categories []notify.Category) error {
	const op = "register"
	if m.handler.IsSet() {
		return notify.NewError(notify.RegistrationError, op, notify.ErrMultipleRegistration)
	}
	if handler == nil {
		return notify.NewError(notify.InvalidArgumentError, op, notify.ErrNilHandler)
	}
	if err := notify.ValidateCategories(categories); err != nil {
		return notify.NewError(notify.RegistrationError, op, err)
	}

	history, err := m.platform.History(m.appID)
	if err != nil {
		return notify.NewError(notify.PlatformFailure, op, err)
	}
	if !m.handler.Set(handler) {
		return notify.NewError(notify.RegistrationError, op, notify.ErrMultipleRegistration)
	}
	m.replaceCategories(categories)

	for _, t := range history {
		if err := m.subscribe(t); err != nil {
			m.log.Error().Err(err).Str("tag", t.Tag()).Msg("failed to subscribe to toast from history")
		}
	}
	m.log.Debug().Int("categories", len(categories)).Int("history", len(history)).Msg("registered")
	return nil
}

func (m *Manager) replaceCategories(categories []notify.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.categories)
	for _, c := range categories {
		m.categories[c.Identifier] = c
	}
}

func (m *Manager) category(id string) *notify.Category {
	if id == "" {
		return nil
	}
	m.mu.RLock()
	c, ok := m.categories[id]
	m.mu.RUnlock()
	if !ok {
		m.log.Warn().Str("category", id).Msg("unknown category, sending without actions")
		return nil
	}
	return &c
}

// Send shows a toast and subscribes to its events
func (m *Manager) Send(ctx context.Context, content notify.Content) (notify.Handle, error) {
	const op = "send"
	if err := ctx.Err(); err != nil {
		return notify.Handle{}, err
	}

	id := m.newID()
	metadata := content.Metadata()
	payload, err := json.Marshal(metadata)
	if err != nil {
		return notify.Handle{}, notify.NewError(notify.SerializationError, op, err)
	}

	var launch string
	if m.protocol != "" {
		launch, err = EncodeDeeplink(m.protocol, id, notify.DefaultAction(), metadata)
		if err != nil {
			return notify.Handle{}, err
		}
	}

	doc, err := NewDocument(content, launch, m.category(content.CategoryID), m.sound).Marshal()
	if err != nil {
		return notify.Handle{}, notify.NewError(notify.SerializationError, op, err)
	}

	t, err := m.platform.CreateToast(doc, id, MessageGroup, map[string]string{UserInfoKey: string(payload)})
	if err != nil {
		return notify.Handle{}, notify.NewError(notify.PlatformFailure, op, err)
	}
	if err := m.subscribe(t); err != nil {
		return notify.Handle{}, notify.NewError(notify.PlatformFailure, op, err)
	}
	if err := m.platform.Show(m.appID, t); err != nil {
		m.forget(id)
		return notify.Handle{}, notify.NewError(notify.PlatformFailure, op, err)
	}

	return notify.NewHandle(id, metadata, m.removeOne), nil
}

// GetActiveNotifications lists the toasts in the platform history
func (m *Manager) GetActiveNotifications(ctx context.Context) ([]notify.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	history, err := m.platform.History(m.appID)
	if err != nil {
		return nil, notify.NewError(notify.PlatformFailure, "get active notifications", err)
	}
	handles := make([]notify.Handle, 0, len(history))
	for _, t := range history {
		handles = append(handles, notify.NewHandle(t.Tag(), m.metadataOf(t), m.removeOne))
	}
	return handles, nil
}

// RemoveAllDeliveredNotifications clears the history, falling back to an
// app-scoped clear. Failures are logged, never returned.
func (m *Manager) RemoveAllDeliveredNotifications() error {
	if err := m.platform.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear notification history, trying app-scoped clear")
		if err := m.platform.ClearApp(m.appID); err != nil {
			m.log.Error().Err(err).Msg("failed to clear notification history for app")
		}
	}
	m.subMu.Lock()
	clear(m.subscribed)
	m.subMu.Unlock()
	return nil
}

// RemoveDeliveredNotifications removes each id. Failures are logged.
func (m *Manager) RemoveDeliveredNotifications(ids []string) error {
	for _, id := range ids {
		if err := m.removeOne(id); err != nil {
			m.log.Error().Err(err).Str("id", id).Msg("failed to remove notification")
		}
	}
	return nil
}

func (m *Manager) removeOne(id string) error {
	defer m.forget(id)
	if err := m.platform.RemoveGroupedTag(id, MessageGroup, m.appID); err != nil {
		return notify.NewError(notify.PlatformFailure, "remove notification", err)
	}
	return nil
}

func (m *Manager) subscribe(t Toast) error {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if _, ok := m.subscribed[t.Tag()]; ok {
		return nil
	}
	if err := t.OnActivated(func(args ActivatedArgs) { m.activated(t, args) }); err != nil {
		return err
	}
	if err := t.OnDismissed(func(reason DismissalReason) { m.dismissed(t, reason) }); err != nil {
		return err
	}
	m.subscribed[t.Tag()] = struct{}{}
	return nil
}

func (m *Manager) forget(id string) {
	m.subMu.Lock()
	delete(m.subscribed, id)
	m.subMu.Unlock()
}

func (m *Manager) activated(t Toast, args ActivatedArgs) {
	resp := notify.Response{
		NotificationID: t.Tag(),
		Action:         m.actionFromArguments(args.Arguments),
		UserMetadata:   m.metadataOf(t),
	}
	if input, ok := args.UserInput[TextInputID]; ok {
		resp.UserInput = &input
	}
	m.dispatch(resp)
}

func (m *Manager) dismissed(t Toast, reason DismissalReason) {
	if reason != UserCanceled {
		m.log.Debug().Str("id", t.Tag()).Stringer("reason", reason).Msg("ignoring dismissal")
		return
	}
	m.dispatch(notify.Response{
		NotificationID: t.Tag(),
		Action:         notify.DismissAction(),
		UserMetadata:   m.metadataOf(t),
	})
}

func (m *Manager) actionFromArguments(args string) notify.Action {
	if args == "" {
		return notify.DefaultAction()
	}
	if m.protocol != "" && strings.HasPrefix(args, m.protocol+"://") {
		resp, err := DecodeDeeplink(args)
		if err != nil {
			m.log.Error().Err(err).Str("arguments", args).Msg("undecodable activation, passing it through")
			return notify.OtherAction(args)
		}
		return resp.Action
	}
	return notify.OtherAction(args)
}

func (m *Manager) metadataOf(t Toast) map[string]string {
	metadata := map[string]string{}
	raw, ok := t.Data()[UserInfoKey]
	if !ok {
		m.log.Warn().Str("id", t.Tag()).Msg("toast has no metadata")
		return metadata
	}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		m.log.Error().Err(err).Str("id", t.Tag()).Msg("failed to decode toast metadata")
		return map[string]string{}
	}
	return metadata
}

func (m *Manager) dispatch(resp notify.Response) {
	handler, ok := m.handler.Get()
	if !ok {
		m.log.Debug().Str("id", resp.NotificationID).Msg("no handler registered, dropping response")
		return
	}
	handler(resp)
}
