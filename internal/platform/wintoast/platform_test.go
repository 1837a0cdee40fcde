package wintoast

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/usernotify/internal/platform/toast"
	"github.com/ariel-frischer/usernotify/internal/store"
	"github.com/ariel-frischer/usernotify/pkg/notify"
)

const testApp = "Example.App"

var errScript = errors.New("script failed")

// fakeShell records scripts and answers by their first distinctive call
type fakeShell struct {
	mu      sync.Mutex
	scripts []script
	history string
	fail    map[string]error
}

func (s *fakeShell) run(sc script) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, sc)
	for marker, err := range s.fail {
		if strings.Contains(sc.text, marker) {
			return "", err
		}
	}
	if strings.Contains(sc.text, "GetHistory") {
		return s.history, nil
	}
	return "", nil
}

// ran counts scripts containing marker whose environment holds env
func (s *fakeShell) ran(marker string, env map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sc := range s.scripts {
		if !strings.Contains(sc.text, marker) {
			continue
		}
		matched := true
		for k, v := range env {
			if sc.env[k] != v {
				matched = false
			}
		}
		if matched {
			n++
		}
	}
	return n
}

// fakeActivator stands in for the COM notifier
type fakeActivator struct {
	mu       sync.Mutex
	pushed   []string
	err      error
	callback func(appID, arguments string, inputs map[string]string)
}

func (a *fakeActivator) Push(_ string, xml string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.pushed = append(a.pushed, xml)
	return nil
}

func (a *fakeActivator) SetCallback(cb func(appID, arguments string, inputs map[string]string)) {
	a.callback = cb
}

func (a *fakeActivator) document(t *testing.T, i int) toast.Document {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.Greater(t, len(a.pushed), i)
	doc, err := toast.ParseDocument(a.pushed[i])
	require.NoError(t, err)
	return doc
}

type fakePusher struct {
	pushed []simpleToast
	err    error
}

func (f *fakePusher) push(n simpleToast) error {
	f.pushed = append(f.pushed, n)
	return f.err
}

func newTestPlatform(t *testing.T) (*Platform, *fakeShell, *fakePusher, store.Store) {
	t.Helper()
	shell := &fakeShell{fail: map[string]error{}}
	pusher := &fakePusher{}
	st := store.NewMemory()
	return newPlatform(testApp, st, zerolog.Nop(), shell.run, pusher.push, nil), shell, pusher, st
}

func newInProcessPlatform(t *testing.T) (*Platform, *fakeShell, *fakeActivator, store.Store) {
	t.Helper()
	shell := &fakeShell{fail: map[string]error{}}
	com := &fakeActivator{}
	st := store.NewMemory()
	return newPlatform(testApp, st, zerolog.Nop(), shell.run, nil, com), shell, com, st
}

var chat = notify.NewCategory("chat",
	notify.NewAction("like", "Like"),
	notify.NewTextInputAction("reply", "Reply", "Send", "Type"),
)

func document(t *testing.T, content notify.Content, launch string, category *notify.Category) string {
	t.Helper()
	doc, err := toast.NewDocument(content, launch, category, notify.SoundPlatformDefault).Marshal()
	require.NoError(t, err)
	return doc
}

func show(t *testing.T, p *Platform, tag, doc string) {
	t.Helper()
	created, err := p.CreateToast(doc, tag, toast.MessageGroup, map[string]string{toast.UserInfoKey: `{"k":"v"}`})
	require.NoError(t, err)
	require.NoError(t, p.Show(testApp, created))
}

func TestShow(t *testing.T) {
	t.Parallel()

	t.Run("runs the show script and records the toast", func(t *testing.T) {
		t.Parallel()
		p, shell, pusher, st := newTestPlatform(t)
		show(t, p, "tag-1", document(t, notify.Content{Title: "Hi"}, "", nil))

		require.Equal(t, 1, shell.ran("CreateToastNotifier", map[string]string{
			envAppID: testApp,
			envTag:   "tag-1",
			envGroup: toast.MessageGroup,
		}))
		assert.Empty(t, pusher.pushed)

		rec, ok, err := st.Get(testApp, "tag-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `{"k":"v"}`, rec.Data[toast.UserInfoKey])
	})

	t.Run("falls back to the template toast", func(t *testing.T) {
		t.Parallel()
		p, shell, pusher, st := newTestPlatform(t)
		shell.fail["LoadXml"] = errScript
		show(t, p, "tag-1", document(t, notify.Content{Title: "Hi", Subtitle: "s", Body: "b"}, "myapp://tag-1/__default__", &chat))

		require.Len(t, pusher.pushed, 1)
		got := pusher.pushed[0]
		assert.Equal(t, testApp, got.AppID)
		assert.Equal(t, "Hi", got.Title)
		assert.Equal(t, "s\nb", got.Message)
		assert.Equal(t, "sms", got.Audio)
		assert.Equal(t, "myapp://tag-1/__default__", got.Launch)
		require.Len(t, got.Actions, 2)
		assert.Equal(t, "Like", got.Actions[0].Label)
		assert.True(t, strings.HasPrefix(got.Actions[0].Arguments, "myapp://tag-1/like?"))

		_, ok, err := st.Get(testApp, "tag-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("both paths failing is an error", func(t *testing.T) {
		t.Parallel()
		p, shell, pusher, st := newTestPlatform(t)
		shell.fail["LoadXml"] = errScript
		pusher.err = errors.New("push failed")

		created, err := p.CreateToast(document(t, notify.Content{Title: "Hi"}, "", nil), "tag", toast.MessageGroup, nil)
		require.NoError(t, err)
		require.Error(t, p.Show(testApp, created))

		records, err := st.List(testApp)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestProtocolDocument(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		launch    string
		wantProto bool
	}{
		"with launch uri":    {launch: "myapp://id/__default__", wantProto: true},
		"without launch uri": {launch: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc := toast.NewDocument(notify.Content{Title: "x"}, tt.launch, &chat, notify.SoundPlatformDefault)
			got, err := protocolDocument(doc, "id", map[string]string{"k": "v"})
			require.NoError(t, err)

			buttons := got.ButtonList()
			require.Len(t, buttons, 2)
			if !tt.wantProto {
				assert.Equal(t, "like", buttons[0].Arguments)
				assert.Equal(t, "foreground", buttons[0].ActivationType)
				return
			}
			for i, id := range []string{"like", "reply"} {
				assert.Equal(t, "protocol", buttons[i].ActivationType)
				resp, err := toast.DecodeDeeplink(buttons[i].Arguments)
				require.NoError(t, err)
				assert.Equal(t, "id", resp.NotificationID)
				assert.Equal(t, notify.OtherAction(id), resp.Action)
				assert.Equal(t, map[string]string{"k": "v"}, resp.UserMetadata)
			}
			assert.Equal(t, "like", doc.ButtonList()[0].Arguments, "original document untouched")
		})
	}
}

func TestHistoryPrunesToastsNoLongerShown(t *testing.T) {
	t.Parallel()
	p, shell, _, st := newTestPlatform(t)
	show(t, p, "a", document(t, notify.Content{Title: "a"}, "", nil))
	show(t, p, "b", document(t, notify.Content{Title: "b"}, "", nil))
	shell.history = "b\r\n"

	history, err := p.History(testApp)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "b", history[0].Tag())

	_, ok, err := st.Get(testApp, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryWithoutActionCenter(t *testing.T) {
	t.Parallel()
	p, shell, _, st := newTestPlatform(t)
	shell.fail["GetHistory"] = errScript
	require.NoError(t, st.Put(store.Record{AppID: testApp, Tag: "old", Group: toast.MessageGroup, Document: document(t, notify.Content{Title: "old"}, "", nil)}))

	history, err := p.History(testApp)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "old", history[0].Tag())
	assert.Equal(t, toast.MessageGroup, history[0].Group())
}

func TestClearAndRemove(t *testing.T) {
	t.Parallel()

	t.Run("clear failure leaves records for the app-scoped retry", func(t *testing.T) {
		t.Parallel()
		p, shell, _, st := newTestPlatform(t)
		show(t, p, "a", document(t, notify.Content{Title: "a"}, "", nil))
		shell.fail["History.Clear()"] = errScript

		require.Error(t, p.Clear())
		records, err := st.List(testApp)
		require.NoError(t, err)
		assert.Len(t, records, 1)

		require.NoError(t, p.ClearApp(testApp))
		assert.Equal(t, 1, shell.ran("History.Clear($env:", map[string]string{envAppID: testApp}))
		records, err = st.List(testApp)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("remove grouped tag", func(t *testing.T) {
		t.Parallel()
		p, shell, _, st := newTestPlatform(t)
		show(t, p, "a", document(t, notify.Content{Title: "a"}, "", nil))

		require.NoError(t, p.RemoveGroupedTag("a", toast.MessageGroup, testApp))
		assert.Equal(t, 1, shell.ran("History.Remove(", map[string]string{
			envTag:   "a",
			envGroup: toast.MessageGroup,
			envAppID: testApp,
		}))
		_, ok, err := st.Get(testApp, "a")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAudioName(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		content notify.Content
		policy  notify.SoundPolicy
		want    string
	}{
		"default sound":  {content: notify.Content{Sound: notify.SoundDefault}, want: "sms"},
		"silent policy":  {policy: notify.SoundSilent, want: "silent"},
		"event sound":    {content: notify.Content{Sound: "ms-winsoundevent:Notification.Looping.Alarm2"}, want: "loopingalarm2"},
		"custom file":    {content: notify.Content{Sound: "C:\\bell.wav"}, want: "default"},
		"platform unset": {want: "sms"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, audioName(toast.NewDocument(tt.content, "", nil, tt.policy)))
		})
	}
}

func TestScriptsPassValuesThroughTheEnvironment(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		value string
	}{
		"dollar sign":          {value: "Cost $5"},
		"backtick":             {value: "a`b"},
		"ascii quote":          {value: "it's"},
		"typographic quote":    {value: "Don\u2019t"},
		"left quote injection": {value: "x\u2018; Remove-Item C:\\x; \u2018"},
		"low quote injection":  {value: "x\u201a); Stop-Process -Name explorer; (\u201b"},
		"newline":              {value: "line one\nline two"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			scripts := map[string]script{
				"show":    showScript(tt.value, "<toast>"+tt.value+"</toast>", tt.value, tt.value),
				"history": historyScript(tt.value),
				"clear":   clearScript(tt.value),
				"remove":  removeScript(tt.value, tt.value, tt.value),
			}
			for kind, sc := range scripts {
				assert.NotContains(t, sc.text, tt.value, kind)
				assert.Equal(t, tt.value, sc.env[envAppID], kind)
			}
			assert.Equal(t, "<toast>"+tt.value+"</toast>", scripts["show"].env[envXML])
			assert.Equal(t, tt.value, scripts["remove"].env[envTag])
			assert.Equal(t, tt.value, scripts["remove"].env[envGroup])
		})
	}

	assert.Empty(t, clearScript("").env, "process-wide clear takes no arguments")
}

func TestToastManagerOverWindowsPlatform(t *testing.T) {
	t.Parallel()
	p, shell, _, _ := newTestPlatform(t)
	m, err := toast.New(p, toast.Options{AppID: testApp, Protocol: "myapp"})
	require.NoError(t, err)

	h, err := m.Send(t.Context(), notify.NewBuilder().Title("x").Build())
	require.NoError(t, err)
	shell.history = h.GetID() + "\n"

	active, err := m.GetActiveNotifications(t.Context())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, h.GetID(), active[0].GetID())

	require.NoError(t, h.Close())
	assert.Equal(t, 1, shell.ran("History.Remove(", map[string]string{envTag: h.GetID()}))
}

func TestShowInProcess(t *testing.T) {
	t.Parallel()

	t.Run("pushes the activation document and records an untagged toast", func(t *testing.T) {
		t.Parallel()
		p, shell, com, st := newInProcessPlatform(t)
		show(t, p, "tag-1", document(t, notify.Content{Title: "Hi"}, "myapp://tag-1/__default__", &chat))

		assert.Zero(t, shell.ran("CreateToastNotifier", nil))
		doc := com.document(t, 0)
		assert.Equal(t, "foreground", doc.ActivationType)
		launch, err := toast.DecodeDeeplink(doc.Launch)
		require.NoError(t, err)
		assert.Equal(t, "tag-1", launch.NotificationID)
		assert.Equal(t, notify.DefaultAction(), launch.Action)

		buttons := doc.ButtonList()
		require.Len(t, buttons, 2)
		for i, id := range []string{"like", "reply"} {
			assert.Equal(t, "foreground", buttons[i].ActivationType)
			resp, err := toast.DecodeDeeplink(buttons[i].Arguments)
			require.NoError(t, err)
			assert.Equal(t, "tag-1", resp.NotificationID)
			assert.Equal(t, notify.OtherAction(id), resp.Action)
		}
		assert.Equal(t, toast.TextInputID, buttons[1].HintInputID)

		rec, ok, err := st.Get(testApp, "tag-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, rec.Untagged)
	})

	t.Run("falls back to the tagged script", func(t *testing.T) {
		t.Parallel()
		p, shell, com, st := newInProcessPlatform(t)
		com.err = errors.New("class not registered")
		show(t, p, "tag-1", document(t, notify.Content{Title: "Hi"}, "", nil))

		assert.Equal(t, 1, shell.ran("CreateToastNotifier", map[string]string{envTag: "tag-1"}))
		rec, ok, err := st.Get(testApp, "tag-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.False(t, rec.Untagged)
	})
}

func TestInProcessActivation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		launch    string
		button    int
		inputs    map[string]string
		wantArgs  toast.ActivatedArgs
		bodyClick bool
	}{
		"body click reports the launch attribute": {
			launch:    "myapp://tag-1/__default__",
			bodyClick: true,
			wantArgs:  toast.ActivatedArgs{Arguments: "myapp://tag-1/__default__", UserInput: map[string]string{}},
		},
		"body click without protocol": {
			bodyClick: true,
			wantArgs:  toast.ActivatedArgs{UserInput: map[string]string{}},
		},
		"button reports its arguments": {
			button:   0,
			wantArgs: toast.ActivatedArgs{Arguments: "like", UserInput: map[string]string{}},
		},
		"reply carries the typed text": {
			button:   1,
			inputs:   map[string]string{toast.TextInputID: "on my way"},
			wantArgs: toast.ActivatedArgs{Arguments: "reply", UserInput: map[string]string{toast.TextInputID: "on my way"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p, _, com, _ := newInProcessPlatform(t)
			created, err := p.CreateToast(document(t, notify.Content{Title: "Hi"}, tt.launch, &chat), "tag-1", toast.MessageGroup, nil)
			require.NoError(t, err)
			var got []toast.ActivatedArgs
			require.NoError(t, created.OnActivated(func(a toast.ActivatedArgs) { got = append(got, a) }))
			require.NoError(t, p.Show(testApp, created))

			doc := com.document(t, 0)
			arguments := doc.Launch
			if !tt.bodyClick {
				arguments = doc.ButtonList()[tt.button].Arguments
			}
			inputs := tt.inputs
			if inputs == nil {
				inputs = map[string]string{}
			}
			com.callback(testApp, arguments, inputs)

			require.Len(t, got, 1)
			assert.Equal(t, tt.wantArgs, got[0])
		})
	}
}

func TestInProcessActivationOfEarlierToast(t *testing.T) {
	t.Parallel()
	p, _, com, st := newInProcessPlatform(t)
	show(t, p, "old", document(t, notify.Content{Title: "old"}, "", &chat))
	buttons := com.document(t, 0).ButtonList()

	restarted := newPlatform(testApp, st, zerolog.Nop(), (&fakeShell{}).run, nil, com)
	history, err := restarted.History(testApp)
	require.NoError(t, err)
	require.Len(t, history, 1, "untagged toasts survive the history check")

	var got *toast.ActivatedArgs
	require.NoError(t, history[0].OnActivated(func(a toast.ActivatedArgs) { got = &a }))
	com.callback(testApp, buttons[0].Arguments, nil)
	require.NotNil(t, got)
	assert.Equal(t, "like", got.Arguments)

	assert.NotPanics(t, func() {
		com.callback(testApp, "launched from somewhere else", nil)
		com.callback(testApp, "usernotify-activation://unknown/__default__?e30=", nil)
	})
}

func TestToastManagerReceivesInProcessReplies(t *testing.T) {
	t.Parallel()
	p, _, com, _ := newInProcessPlatform(t)
	m, err := toast.New(p, toast.Options{AppID: testApp})
	require.NoError(t, err)

	responses := make(chan notify.Response, 1)
	require.NoError(t, m.Register(func(r notify.Response) { responses <- r }, []notify.Category{chat}))
	h, err := m.Send(t.Context(), notify.NewBuilder().Title("x").CategoryID("chat").Metadata("k", "v").Build())
	require.NoError(t, err)

	reply := com.document(t, 0).ButtonList()[1]
	com.callback(testApp, reply.Arguments, map[string]string{toast.TextInputID: "hello"})

	resp := <-responses
	assert.Equal(t, h.GetID(), resp.NotificationID)
	assert.Equal(t, notify.OtherAction("reply"), resp.Action)
	require.NotNil(t, resp.UserInput)
	assert.Equal(t, "hello", *resp.UserInput)
	assert.Equal(t, map[string]string{"k": "v"}, resp.UserMetadata)
}

func TestHistoryReportsToastsThatLeftTheActionCenter(t *testing.T) {
	t.Parallel()
	p, shell, _, _ := newTestPlatform(t)
	created, err := p.CreateToast(document(t, notify.Content{Title: "a"}, "", nil), "a", toast.MessageGroup, nil)
	require.NoError(t, err)
	var reasons []toast.DismissalReason
	require.NoError(t, created.OnDismissed(func(r toast.DismissalReason) { reasons = append(reasons, r) }))
	require.NoError(t, p.Show(testApp, created))

	shell.history = ""
	history, err := p.History(testApp)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, []toast.DismissalReason{toast.UnknownReason}, reasons)
}

func TestMetadataDecodeFailureIsLogged(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	p := newPlatform(testApp, store.NewMemory(), zerolog.New(&logs), (&fakeShell{}).run, nil, nil)
	created, err := p.CreateToast(document(t, notify.Content{Title: "a"}, "", nil), "a", toast.MessageGroup,
		map[string]string{toast.UserInfoKey: "{not json"})
	require.NoError(t, err)

	assert.Empty(t, created.(*Toast).metadata())
	assert.Contains(t, logs.String(), "failed to decode toast metadata")
	assert.Contains(t, logs.String(), `"tag":"a"`)
}

func TestActivatorGUID(t *testing.T) {
	t.Parallel()
	first := activatorGUID(testApp)
	assert.Equal(t, first, activatorGUID(testApp))
	assert.NotEqual(t, first, activatorGUID("Other.App"))
	assert.Regexp(t, `^\{[0-9A-F]{8}-[0-9A-F]{4}-5[0-9A-F]{3}-[0-9A-F]{4}-[0-9A-F]{12}\}$`, first)
}
