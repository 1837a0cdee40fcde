package util

import (
	"bytes"
	"io"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/usernotify/internal/cli/shared"
	clierrors "github.com/ariel-frischer/usernotify/internal/errors"
	"github.com/ariel-frischer/usernotify/pkg/notify"
	"github.com/ariel-frischer/usernotify/pkg/usernotify"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "usernotify", SilenceErrors: true}
	shared.AddGroups(root)
	shared.AddGlobalFlags(root)
	Register(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDecode(t *testing.T) {
	t.Parallel()

	reply, err := usernotify.EncodeCallbackURI("myapp", "abc", notify.OtherAction("reply"), map[string]string{"chat": "42"})
	require.NoError(t, err)
	dismiss, err := usernotify.EncodeCallbackURI("myapp", "def", notify.DismissAction(), nil)
	require.NoError(t, err)

	tests := map[string]struct {
		uri  string
		want string
	}{
		"action with metadata": {
			uri:  reply,
			want: `{"notification_id":"abc","action":"reply","user_metadata":{"chat":"42"}}`,
		},
		"dismiss": {
			uri:  dismiss,
			want: `{"notification_id":"def","action":"dismiss","user_metadata":{}}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, err := execute(t, "decode", tt.uri)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid uri", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "decode", "not a uri")
		require.Error(t, err)
		require.ErrorIs(t, err, notify.ErrInvalidCallbackURI)
		cliErr := clierrors.AsCLIError(err)
		require.NotNil(t, cliErr)
		assert.Equal(t, clierrors.Argument, cliErr.Category)
		assert.Equal(t, shared.ExitInvalidArguments, shared.ExitCode(err))
	})

	t.Run("missing argument", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "decode")
		require.Error(t, err)
	})
}

// Tests that modify the global Version variable cannot run in parallel.
func TestVersion(t *testing.T) {
	origVersion, origCommit := Version, Commit
	Version, Commit = "v1.2.3", "abc1234"
	defer func() { Version, Commit = origVersion, origCommit }()

	t.Run("plain", func(t *testing.T) {
		out, err := execute(t, "version", "--plain")
		require.NoError(t, err)
		assert.Contains(t, out, "usernotify v1.2.3\n")
		assert.Contains(t, out, "commit: abc1234\n")
		assert.Contains(t, out, "platform: "+runtime.GOOS+"/"+runtime.GOARCH)
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := execute(t, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "v1.2.3")
		assert.Contains(t, out, "abc1234")
		assert.NotContains(t, out, "development build")
	})

	t.Run("IsDevBuild", func(t *testing.T) {
		tests := map[string]struct {
			version string
			want    bool
		}{
			"dev version":     {version: "dev", want: true},
			"release version": {version: "v0.6.1", want: false},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				Version = tt.version
				assert.Equal(t, tt.want, IsDevBuild())
			})
		}
	})
}
