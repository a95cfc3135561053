package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/freddys-cards/cardbattles/pkg/logging"
	"go.uber.org/zap"
)

var (
	errNotifierFull   = errors.New("notifier queue full")
	errNotifierClosed = errors.New("notifier closed")
)

// sinkFunc adapts a function to match.NotificationSink.
type sinkFunc func(ctx context.Context, matchId string, phase match.Phase, event match.Event) error

func (f sinkFunc) Notify(ctx context.Context, matchId string, phase match.Phase, event match.Event) error {
	return f(ctx, matchId, phase, event)
}

type notice struct {
	matchId string
	phase   match.Phase
	event   match.Event
}

// notifier queues phase changes and pushes them from a single goroutine.
// The machine only pays for an enqueue while it holds the match lock; slow
// sockets or relays delay later pushes, never commands.
type notifier struct {
	sink    match.NotificationSink
	timeout time.Duration
	queue   chan notice
	onDrop  func()

	done   chan struct{}
	closed bool
	mu     sync.RWMutex
}

func newNotifier(sink match.NotificationSink, size int, onDrop func()) *notifier {
	n := &notifier{
		sink:    sink,
		timeout: 10 * time.Second,
		queue:   make(chan notice, size),
		onDrop:  onDrop,
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify implements match.NotificationSink.
func (n *notifier) Notify(_ context.Context, matchId string, phase match.Phase, event match.Event) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return errNotifierClosed
	}
	select {
	case n.queue <- notice{matchId: matchId, phase: phase, event: event}:
		return nil
	default:
		if n.onDrop != nil {
			n.onDrop()
		}
		return errNotifierFull
	}
}

func (n *notifier) run() {
	defer close(n.done)
	for nt := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		err := n.sink.Notify(ctx, nt.matchId, nt.phase, nt.event)
		cancel()
		if err != nil {
			logging.Error("failed to push phase change",
				zap.String("match_id", nt.matchId),
				zap.Stringer("event", nt.event.Kind),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting notices and waits until the queue is drained.
func (n *notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
}
