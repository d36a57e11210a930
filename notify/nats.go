package notify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/internal/natsutil"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// ErrClosed is returned when publishing through a closed notifier.
var ErrClosed = errors.New("notifier closed")

// NATS turns messages on a subject into change notifications.
//
// Every message runs all OnChange callbacks and all OnMessage callbacks
// with its payload. Callbacks run on the NATS subscription goroutine, one
// message at a time, and must not block.
type NATS struct {
	nc      *nats.Conn
	subject string
	sub     *nats.Subscription
	logger  types.Logger

	changeListeners  *xsync.Map[uint64, func()]
	messageListeners *xsync.Map[uint64, func([]byte)]
	nextID           atomic.Uint64
	received         atomic.Int64
	closed           atomic.Bool
}

var _ types.ChangeNotifier = (*NATS)(nil)

// Option configures a NATS notifier.
type Option func(*NATS)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger types.Logger) Option {
	return func(n *NATS) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNATS subscribes to subject on nc.
//
// Parameters:
//   - nc: Connected NATS client
//   - subject: Subject to listen on; wildcards are allowed
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *NATS: Subscribed notifier
//   - error: If nc is nil, subject is empty or the subscription fails
func NewNATS(nc *nats.Conn, subject string, opts ...Option) (*NATS, error) {
	if nc == nil {
		return nil, errors.New("nats connection is required")
	}
	if subject == "" {
		return nil, errors.New("subject is required")
	}

	n := &NATS{
		nc:               nc,
		subject:          subject,
		logger:           logging.NewNop(),
		changeListeners:  xsync.NewMap[uint64, func()](),
		messageListeners: xsync.NewMap[uint64, func([]byte)](),
	}
	for _, opt := range opts {
		opt(n)
	}

	sub, err := nc.Subscribe(subject, n.handle)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	n.sub = sub

	// Make sure the server has registered the subscription before the
	// caller starts publishing.
	if err := nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("failed to flush subscription: %w", err)
	}

	n.logger.Debug("change notifier subscribed", "subject", subject)

	return n, nil
}

// OnChange registers a callback run for every message.
func (n *NATS) OnChange(callback func()) func() {
	id := n.nextID.Add(1)
	n.changeListeners.Store(id, callback)

	return func() { n.changeListeners.Delete(id) }
}

// OnMessage registers a callback that receives every message payload.
func (n *NATS) OnMessage(callback func(data []byte)) func() {
	id := n.nextID.Add(1)
	n.messageListeners.Store(id, callback)

	return func() { n.messageListeners.Delete(id) }
}

// Signal publishes a change on the notifier's subject and flushes it.
//
// The subject must not contain wildcards.
func (n *NATS) Signal(ctx context.Context, payload []byte) error {
	if n.closed.Load() {
		return ErrClosed
	}

	if err := n.nc.Publish(n.subject, payload); err != nil {
		return n.wrap("publish", err)
	}
	if err := n.nc.FlushWithContext(ctx); err != nil {
		return n.wrap("flush", err)
	}

	return nil
}

// Received returns how many messages have been handled.
func (n *NATS) Received() int64 {
	return n.received.Load()
}

// Subject returns the subscribed subject.
func (n *NATS) Subject() string {
	return n.subject
}

// Close unsubscribes. Callbacks are not run after Close returns, apart from
// a message already being handled. It is safe to call more than once.
func (n *NATS) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := n.sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return fmt.Errorf("failed to unsubscribe from %s: %w", n.subject, err)
	}

	n.logger.Debug("change notifier closed", "subject", n.subject)

	return nil
}

func (n *NATS) handle(msg *nats.Msg) {
	if n.closed.Load() {
		return
	}

	n.received.Add(1)

	n.messageListeners.Range(func(_ uint64, callback func([]byte)) bool {
		callback(msg.Data)
		return true
	})
	n.changeListeners.Range(func(_ uint64, callback func()) bool {
		callback()
		return true
	})
}

func (n *NATS) wrap(op string, err error) error {
	if natsutil.IsConnectivityError(err) {
		n.logger.Warn("nats unavailable, change signal lost", "subject", n.subject, "error", err)
	}

	return fmt.Errorf("failed to %s change signal: %w", op, err)
}
