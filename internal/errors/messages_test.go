// Package errors_test tests structured CLI error message generation and remediation steps.
// Related: internal/errors/messages.go
// Tags: errors, cli-errors, messages, remediation, error-categories
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func TestMessages(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("cause")

	tests := map[string]struct {
		err             *CLIError
		wantCategory    ErrorCategory
		wantContains    string
		wantRemediation bool
		wantUsage       bool
	}{
		"missing app id": {
			err:             MissingAppID(),
			wantCategory:    Configuration,
			wantContains:    "application id",
			wantRemediation: true,
		},
		"unsupported": {
			err:             NotificationsUnsupported("linux", cause),
			wantCategory:    Prerequisite,
			wantContains:    "linux",
			wantRemediation: true,
		},
		"invalid metadata": {
			err:             InvalidMetadataFlag("novalue"),
			wantCategory:    Argument,
			wantContains:    "novalue",
			wantRemediation: true,
			wantUsage:       true,
		},
		"invalid categories": {
			err:             InvalidCategoriesFile("/c.yaml", cause),
			wantCategory:    Configuration,
			wantContains:    "/c.yaml",
			wantRemediation: true,
		},
		"config parse": {
			err:             ConfigParseError("/config.json", cause),
			wantCategory:    Configuration,
			wantContains:    "/config.json",
			wantRemediation: true,
		},
		"callback uri": {
			err:          InvalidCallbackURI("bad", cause),
			wantCategory: Argument,
			wantContains: `"bad"`,
			wantUsage:    true,
		},
		"permission denied": {
			err:             PermissionDenied(),
			wantCategory:    Prerequisite,
			wantContains:    "not permitted",
			wantRemediation: true,
		},
		"timeout": {
			err:             TimeoutError("30s", "a response"),
			wantCategory:    Runtime,
			wantContains:    "30s",
			wantRemediation: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantCategory, tt.err.Category)
			assert.Contains(t, tt.err.Message, tt.wantContains)
			assert.Equal(t, tt.wantRemediation, len(tt.err.Remediation) > 0)
			assert.Equal(t, tt.wantUsage, tt.err.Usage != "")
		})
	}
}

func TestFromNotifyError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory ErrorCategory
		wantMessage  string
	}{
		"configuration": {
			err:          notify.NewError(notify.ConfigurationError, "new", notify.ErrNoBundleID),
			wantCategory: Configuration,
		},
		"missing app id": {
			err:          notify.NewError(notify.ConfigurationError, "new", notify.ErrNoAppID),
			wantCategory: Configuration,
			wantMessage:  "no application id configured",
		},
		"unsupported": {
			err:          notify.NewError(notify.UnsupportedError, "send", notify.ErrNotSupported),
			wantCategory: Prerequisite,
		},
		"invalid argument": {
			err:          notify.NewError(notify.InvalidArgumentError, "register", notify.ErrNilHandler),
			wantCategory: Argument,
		},
		"serialization": {
			err:          notify.NewError(notify.SerializationError, "decode", notify.ErrInvalidCallbackURI),
			wantCategory: Argument,
		},
		"duplicate category": {
			err:          notify.NewError(notify.RegistrationError, "register", fmt.Errorf("%w: %q", notify.ErrDuplicateCategory, "c")),
			wantCategory: Configuration,
		},
		"platform failure": {
			err:          notify.NewError(notify.PlatformFailure, "send", &notify.NativeError{Code: 3}),
			wantCategory: Runtime,
			wantMessage:  "failed to send notification: send: platform error",
		},
		"plain error": {
			err:          stderrors.New("boom"),
			wantCategory: Runtime,
			wantMessage:  "failed to send notification: boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := SendFailed(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			if tt.wantMessage != "" {
				assert.Contains(t, got.Message, tt.wantMessage)
			}
		})
	}

	assert.Nil(t, FromNotifyError(nil, "x"))
	passthrough := NewArgumentError("already categorized")
	assert.Same(t, passthrough, RegistrationFailed(passthrough))
	assert.ErrorIs(t, FromNotifyError(notify.NewError(notify.PlatformFailure, "op", notify.ErrChannelClosed), ""), notify.ErrChannelClosed)
}
