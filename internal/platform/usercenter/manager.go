// Package usercenter implements the notification manager for the macOS user
// notification center: a singleton delegate, one-shot completion callbacks
// and main-thread affinity for mutating calls.
package usercenter

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ariel-frischer/usernotify/internal/async"
	"github.com/ariel-frischer/usernotify/internal/logging"
	"github.com/ariel-frischer/usernotify/internal/mainthread"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// declineErrorCode is the center's "notifications not allowed" error code
const declineErrorCode = 1

// Options configures a Manager
type Options struct {
	SoundPolicy notify.SoundPolicy
	// Logger defaults to the global logger
	Logger *zerolog.Logger
	// IsMainThread defaults to mainthread.IsMain
	IsMainThread func() bool
}

// Manager is a notify.Manager over a Center
type Manager struct {
	center   Center
	bundleID string
	sound    notify.SoundPolicy
	log      zerolog.Logger
	isMain   func() bool

	delegate async.Cell[*delegate]
	worker   async.Cell[*worker]
}

var _ notify.Manager = (*Manager)(nil)

// New returns a manager for center. The application must have a bundle
// identifier.
func New(center Center, opts Options) (*Manager, error) {
	bundleID := center.BundleIdentifier()
	if bundleID == "" {
		return nil, notify.NewError(notify.ConfigurationError, "new user center manager", notify.ErrNoBundleID)
	}
	log := logging.Component("usercenter")
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "usercenter").Logger()
	}
	isMain := opts.IsMainThread
	if isMain == nil {
		isMain = mainthread.IsMain
	}
	return &Manager{
		center:   center,
		bundleID: bundleID,
		sound:    opts.SoundPolicy,
		log:      log,
		isMain:   isMain,
	}, nil
}

func (m *Manager) requireMain(op string) error {
	if !m.isMain() {
		return notify.NewError(notify.ThreadingError, op, notify.ErrNotMainThread)
	}
	return nil
}

func wrapAwait(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, notify.ErrChannelClosed):
		return notify.NewError(notify.CommunicationError, op, err)
	default:
		return notify.NewError(notify.PlatformFailure, op, err)
	}
}

// GetNotificationPermissionState reads the authorization status without prompting
func (m *Manager) GetNotificationPermissionState(ctx context.Context) (bool, error) {
	bridge := async.NewOneshot[AuthorizationStatus]()
	m.center.GetNotificationSettings(func(status AuthorizationStatus) {
		bridge.Complete(status, nil)
	})
	status, err := bridge.Await(ctx)
	if err != nil {
		return false, wrapAwait("get permission state", err)
	}
	return status.Granted(), nil
}

// FirstTimeAskForNotificationPermission asks for alert, sound and badge
// permission. A decline is reported as (false, nil).
func (m *Manager) FirstTimeAskForNotificationPermission(ctx context.Context) (bool, error) {
	const op = "ask permission"
	if err := m.requireMain(op); err != nil {
		return false, err
	}
	bridge := async.NewOneshot[bool]()
	m.center.RequestAuthorization(AuthorizeAlert|AuthorizeSound|AuthorizeBadge, func(granted bool, err error) {
		bridge.Complete(granted, err)
	})
	granted, err := bridge.Await(ctx)
	if err != nil {
		if isDecline(err) {
			m.log.Debug().Err(err).Msg("notification permission declined")
			return false, nil
		}
		return false, wrapAwait(op, err)
	}
	return granted, nil
}

func isDecline(err error) bool {
	var native *notify.NativeError
	return errors.As(err, &native) &&
		native.Code == declineErrorCode &&
		strings.Contains(native.Description, "allowed")
}

// Register installs the delegate, replaces the category set and starts the
// handler worker. It can succeed once per manager.
func (m *Manager) Register(handler notify.ResponseHandler, categories []notify.Category) error {
	const op = "register"
	if err := m.requireMain(op); err != nil {
		return err
	}
	if m.delegate.IsSet() {
		return notify.NewError(notify.RegistrationError, op, notify.ErrMultipleRegistration)
	}
	if handler == nil {
		return notify.NewError(notify.InvalidArgumentError, op, notify.ErrNilHandler)
	}
	if err := notify.ValidateCategories(categories); err != nil {
		return notify.NewError(notify.RegistrationError, op, err)
	}

	responses := make(chan notify.Response, ResponseBufferSize)
	d := &delegate{responses: responses, log: m.log}
	if !m.delegate.Set(d) {
		return notify.NewError(notify.RegistrationError, op, notify.ErrMultipleRegistration)
	}
	m.center.SetDelegate(d)
	m.center.SetNotificationCategories(nativeCategories(categories))

	if !m.worker.Set(startWorker(responses, handler)) {
		return notify.NewError(notify.RegistrationError, op, notify.ErrMultipleRegistration)
	}
	m.log.Debug().Int("categories", len(categories)).Msg("registered")
	return nil
}

// Send submits a request and waits for the center to accept it
func (m *Manager) Send(ctx context.Context, content notify.Content) (notify.Handle, error) {
	const op = "send"
	if err := m.requireMain(op); err != nil {
		return notify.Handle{}, err
	}
	if err := ctx.Err(); err != nil {
		return notify.Handle{}, err
	}

	id := uuid.NewString() + "." + m.bundleID
	req := newRequest(id, content, m.sound)

	bridge := async.NewOneshot[struct{}]()
	m.center.AddNotificationRequest(req, func(err error) {
		bridge.Complete(struct{}{}, err)
	})
	if _, err := bridge.Await(ctx); err != nil {
		return notify.Handle{}, wrapAwait(op, err)
	}
	return notify.NewHandle(id, req.Content.UserInfo, m.removeOne), nil
}

// GetActiveNotifications lists the delivered notifications still shown
func (m *Manager) GetActiveNotifications(ctx context.Context) ([]notify.Handle, error) {
	bridge := async.NewOneshot[[]Request]()
	m.center.GetDeliveredNotifications(func(delivered []Request) {
		bridge.Complete(delivered, nil)
	})
	delivered, err := bridge.Await(ctx)
	if err != nil {
		return nil, wrapAwait("get active notifications", err)
	}
	handles := make([]notify.Handle, 0, len(delivered))
	for _, req := range delivered {
		handles = append(handles, notify.NewHandle(req.Identifier, metadataOf(req), m.removeOne))
	}
	return handles, nil
}

// RemoveAllDeliveredNotifications clears the notification center
func (m *Manager) RemoveAllDeliveredNotifications() error {
	m.center.RemoveAllDeliveredNotifications()
	return nil
}

// RemoveDeliveredNotifications removes the given notifications
func (m *Manager) RemoveDeliveredNotifications(ids []string) error {
	if err := m.requireMain("remove notifications"); err != nil {
		return err
	}
	m.center.RemoveDeliveredNotifications(ids)
	return nil
}

func (m *Manager) removeOne(id string) error {
	if err := m.requireMain("close notification"); err != nil {
		return err
	}
	m.center.RemoveDeliveredNotifications([]string{id})
	return nil
}
