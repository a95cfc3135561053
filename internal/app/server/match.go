package server

import (
	"sync"
	"time"

	"github.com/freddys-cards/cardbattles/pkg/logging"
	"github.com/freddys-cards/cardbattles/pkg/utils"
	"go.uber.org/zap"
)

// room holds the transport side of a live match: the connected players and
// the idle timer that evicts the match when nobody acts for too long.
type room struct {
	id      string
	players []*player
	timer   *utils.Timer

	idleHandler func(*room)

	ended bool
	mu    sync.Mutex
}

func newRoom(matchId string, idleTimeout time.Duration, idleHandler func(*room)) *room {
	r := &room{
		id:          matchId,
		idleHandler: idleHandler,
	}
	r.timer = utils.NewTimer(idleTimeout, func() { r.idleHandler(r) })
	logging.Info("idle timer set", zap.String("match_id", matchId), zap.String("duration", idleTimeout.String()))
	return r
}

func (r *room) join(p *player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return false
	}
	r.players = append(r.players, p)
	return true
}

func (r *room) leave(p *player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, q := range r.players {
		if q == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

func (r *room) connected() []*player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*player(nil), r.players...)
}

// broadcast writes to every connection the message build returns for its
// player.
func (r *room) broadcast(build func(playerId string) any) {
	for _, p := range r.connected() {
		if err := p.writeJson(build(p.Id)); err != nil {
			logging.Error("couldn't notify player",
				zap.String("match_id", r.id),
				zap.String("player_id", p.Id),
				zap.Error(err),
			)
		}
	}
}

// touch restarts the idle countdown.
func (r *room) touch() {
	r.timer.Reset()
}

func (r *room) end(reason string) {
	r.mu.Lock()
	if r.ended {
		r.mu.Unlock()
		return
	}
	r.ended = true
	players := r.players
	r.players = nil
	r.mu.Unlock()

	r.timer.Stop()
	for _, p := range players {
		p.close(reason)
	}
}

func (r *room) isEnded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}
