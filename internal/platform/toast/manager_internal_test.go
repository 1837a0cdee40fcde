package toast

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func TestReplaceCategories(t *testing.T) {
	t.Parallel()

	nop := zerolog.Nop()
	m, err := New(nil, Options{AppID: "app", Logger: &nop})
	require.NoError(t, err)

	m.replaceCategories([]notify.Category{notify.NewCategory("c1", notify.NewAction("c1.ok", "OK"))})
	require.NotNil(t, m.category("c1"))

	m.replaceCategories([]notify.Category{notify.NewCategory("c2")})
	assert.Nil(t, m.category("c1"), "earlier categories must be gone")
	assert.NotNil(t, m.category("c2"))
	assert.Nil(t, m.category(""))
}

func TestNotificationIDLength(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for range 100 {
		id := newNotificationID()
		assert.Len(t, id, idLength)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
