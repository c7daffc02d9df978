package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSendTimeout bounds a single background delivery.
const DefaultSendTimeout = 30 * time.Second

// ErrClosed is returned by Dispatcher.Send after Close.
var ErrClosed = errors.New("notification dispatcher closed")

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher hands emails to a Sender in the background so callers never
// wait on the mail server. Failures are logged.
type Dispatcher struct {
	next    Sender
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(next Sender, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Dispatcher{next: next, timeout: timeout, log: log}
}

// Send queues the email and returns immediately. The delivery outlives ctx's
// cancellation but keeps its values.
func (d *Dispatcher) Send(ctx context.Context, to, subject, body string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		start := time.Now()
		if err := d.next.Send(sendCtx, to, subject, body); err != nil {
			d.log.Warn().Err(err).Str("subject", subject).Msg("notification not delivered")
			return
		}
		d.log.Debug().Str("subject", subject).Dur("latency", time.Since(start)).Msg("notification delivered")
	}()
	return nil
}

// Close stops accepting emails and waits for queued deliveries to finish
// or for ctx to end, whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
