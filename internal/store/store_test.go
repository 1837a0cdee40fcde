package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	bolt, err := OpenBolt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Store{
		"bolt":   bolt,
		"memory": NewMemory(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			second := Record{AppID: "app", Tag: "b", Group: "msg-group", CreatedAt: base.Add(time.Second), NativeID: 7}
			first := Record{
				AppID:     "app",
				Tag:       "a",
				Group:     "msg-group",
				Document:  "<toast/>",
				Data:      map[string]string{"UserInfoJson": `{"k":"v"}`},
				CreatedAt: base,
				NativeID:  3,
			}
			other := Record{AppID: "other", Tag: "c", CreatedAt: base, NativeID: 9, Session: "s1"}
			earlier := Record{AppID: "other", Tag: "d", CreatedAt: base, NativeID: 9, Session: "s0"}

			require.NoError(t, s.Put(second))
			require.NoError(t, s.Put(first))
			require.NoError(t, s.Put(other))
			require.NoError(t, s.Put(earlier))

			got, ok, err := s.Get("app", "a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, first.Data, got.Data)
			assert.Equal(t, "<toast/>", got.Document)

			records, err := s.List("app")
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "a", records[0].Tag, "oldest first")
			assert.Equal(t, "b", records[1].Tag)

			found, ok, err := s.FindNative("s1", 9)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "c", found.Tag)

			found, ok, err = s.FindNative("s0", 9)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "d", found.Tag, "native ids are scoped to their session")

			_, ok, err = s.FindNative("s2", 9)
			require.NoError(t, err)
			assert.False(t, ok)

			_, ok, err = s.FindNative("s1", 1000)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Delete("app", "a"))
			require.NoError(t, s.Delete("app", "missing"))
			require.NoError(t, s.Delete("unknown-app", "a"))
			records, err = s.List("app")
			require.NoError(t, err)
			assert.Len(t, records, 1)

			require.NoError(t, s.DeleteApp("app"))
			records, err = s.List("app")
			require.NoError(t, err)
			assert.Empty(t, records)

			require.NoError(t, s.DeleteAll())
			_, ok, err = s.Get("other", "c")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBoltStorePersists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := OpenBolt(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(Record{AppID: "app", Tag: "t1", CreatedAt: time.Now()}))
	require.NoError(t, s.Close())

	reopened, err := OpenBolt(dir)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.List("app")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "t1", records[0].Tag)
	assert.Contains(t, reopened.Path(), DBFileName)
}

func TestBoltStoresShareOneDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := OpenBolt(dir)
	require.NoError(t, err)
	defer first.Close()

	start := time.Now()
	second, err := OpenBolt(dir)
	require.NoError(t, err)
	defer second.Close()
	assert.Less(t, time.Since(start), lockTimeout, "second store must not wait for the first to close")

	now := time.Now()
	require.NoError(t, first.Put(Record{AppID: "app", Tag: "from-first", CreatedAt: now}))
	require.NoError(t, second.Put(Record{AppID: "app", Tag: "from-second", CreatedAt: now.Add(time.Second)}))

	for name, s := range map[string]*BoltStore{"first": first, "second": second} {
		records, err := s.List("app")
		require.NoError(t, err, name)
		require.Len(t, records, 2, name)
		assert.Equal(t, "from-first", records[0].Tag, name)
		assert.Equal(t, "from-second", records[1].Tag, name)
	}

	require.NoError(t, second.Delete("app", "from-first"))
	_, ok, err := first.Get("app", "from-first")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreClosed(t *testing.T) {
	t.Parallel()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())

			assert.ErrorIs(t, s.Put(Record{AppID: "a", Tag: "b"}), ErrClosed)
			_, err := s.List("a")
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}
