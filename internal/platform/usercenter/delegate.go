package usercenter

import (
	"github.com/rs/zerolog"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// ResponseBufferSize bounds the responses waiting for the handler
const ResponseBufferSize = 10

// delegate turns center callbacks into responses. It never blocks the
// thread the center calls it on.
type delegate struct {
	responses chan<- notify.Response
	log       zerolog.Logger
}

var _ Delegate = (*delegate)(nil)

func (d *delegate) WillPresent(Request) PresentationOptions {
	return PresentBadge | PresentBanner | PresentSound
}

func (d *delegate) DidReceive(native NotificationResponse) {
	resp := responseFor(native)
	select {
	case d.responses <- resp:
	default:
		d.log.Error().
			Str("id", resp.NotificationID).
			Stringer("action", resp.Action).
			Msg("response queue full, dropping response")
	}
}

// worker calls the handler for each queued response, one at a time
type worker struct {
	done chan struct{}
}

func startWorker(responses <-chan notify.Response, handler notify.ResponseHandler) *worker {
	w := &worker{done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for resp := range responses {
			handler(resp)
		}
	}()
	return w
}
