package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/stretchr/testify/assert"
)

func TestNotifierKeepsOrder(t *testing.T) {
	relay := &blockingRelay{release: make(chan struct{})}
	close(relay.release)
	n := newNotifier(relay, 16, nil)
	kinds := []match.EventKind{match.EventRoundStarted, match.EventAttributeChosen, match.EventCardPlayed}
	for _, k := range kinds {
		assert.NoError(t, n.Notify(context.Background(), "m1", match.AwaitingPlays, match.Event{Kind: k}))
	}
	n.Close()
	assert.Equal(t, kinds, relay.pushed())

	err := n.Notify(context.Background(), "m1", match.AwaitingPlays, match.Event{Kind: match.EventCardPlayed})
	assert.ErrorIs(t, err, errNotifierClosed)
	n.Close()
}

func TestNotifierDropsWhenFull(t *testing.T) {
	relay := &blockingRelay{release: make(chan struct{})}
	var dropped atomic.Int32
	n := newNotifier(relay, 1, func() { dropped.Add(1) })

	var full error
	for i := 0; i < 5 && full == nil; i++ {
		full = n.Notify(context.Background(), "m1", match.AwaitingPlays, match.Event{Kind: match.EventCardPlayed})
	}
	assert.True(t, errors.Is(full, errNotifierFull))
	assert.Equal(t, int32(1), dropped.Load())

	close(relay.release)
	n.Close()
}
