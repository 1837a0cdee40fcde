package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func TestOneshot(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		resolve func(o *Oneshot[int])
		want    int
		wantErr error
	}{
		"completes from another goroutine": {
			resolve: func(o *Oneshot[int]) {
				go o.Complete(42, nil)
			},
			want: 42,
		},
		"carries the callback error": {
			resolve: func(o *Oneshot[int]) {
				go o.Complete(0, errors.New("native failure"))
			},
			wantErr: errors.New("native failure"),
		},
		"first completion wins": {
			resolve: func(o *Oneshot[int]) {
				o.Complete(1, nil)
				o.Complete(2, nil)
				o.Abandon()
			},
			want: 1,
		},
		"abandoned bridge reports closed channel": {
			resolve: func(o *Oneshot[int]) {
				o.Abandon()
			},
			wantErr: notify.ErrChannelClosed,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			o := NewOneshot[int]()
			tt.resolve(o)

			got, err := o.Await(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOneshotContextCancel(t *testing.T) {
	t.Parallel()

	o := NewOneshot[string]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := o.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// a late completion must not block or panic
	o.Complete("late", nil)
	select {
	case <-o.Done():
	default:
		t.Fatal("bridge should be resolved after Complete")
	}
}

func TestCell(t *testing.T) {
	t.Parallel()

	var c Cell[string]
	_, ok := c.Get()
	assert.False(t, ok)
	assert.False(t, c.IsSet())

	var wg sync.WaitGroup
	wins := make(chan string, 10)
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Set(v) {
				wins <- v
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1)

	got, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, winners[0], got)
	assert.False(t, c.Set("late"))
}
