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
	errRecorderFull   = errors.New("recorder queue full")
	errRecorderClosed = errors.New("recorder closed")
)

type record struct {
	matchId string
	kind    match.EventKind
	payload any
}

// recorder queues events for the persistence backend and writes them from a
// single goroutine, so events keep the order in which the machine emitted
// them and a slow backend never holds a match lock.
type recorder struct {
	gateway match.PersistenceGateway
	timeout time.Duration
	queue   chan record
	onDrop  func()

	done   chan struct{}
	closed bool
	mu     sync.RWMutex
}

func newRecorder(gateway match.PersistenceGateway, size int, onDrop func()) *recorder {
	r := &recorder{
		gateway: gateway,
		timeout: 10 * time.Second,
		queue:   make(chan record, size),
		onDrop:  onDrop,
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// RecordEvent implements match.PersistenceGateway. The context of the
// command is not carried over to the write.
func (r *recorder) RecordEvent(_ context.Context, matchId string, kind match.EventKind, payload any) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errRecorderClosed
	}
	select {
	case r.queue <- record{matchId: matchId, kind: kind, payload: payload}:
		return nil
	default:
		if r.onDrop != nil {
			r.onDrop()
		}
		return errRecorderFull
	}
}

func (r *recorder) run() {
	defer close(r.done)
	for rec := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err := r.gateway.RecordEvent(ctx, rec.matchId, rec.kind, rec.payload)
		cancel()
		if err != nil {
			logging.Error("failed to persist event",
				zap.String("match_id", rec.matchId),
				zap.Stringer("event", rec.kind),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting events and waits until the queue is drained.
func (r *recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}
