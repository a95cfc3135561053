package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// player is one WebSocket connection of a seated player. A player may hold
// several connections, e.g. a phone and a laptop.
type player struct {
	Id   string
	Conn *websocket.Conn

	mu *sync.Mutex
}

func newPlayer(conn *websocket.Conn, playerId string) *player {
	return &player{
		Id:   playerId,
		Conn: conn,
		mu:   new(sync.Mutex),
	}
}

func (p *player) writeJson(msg interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Conn == nil {
		return nil
	}
	p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.Conn.WriteJSON(msg)
}

func (p *player) writeControl(messageType int, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Conn == nil {
		return nil
	}
	return p.Conn.WriteControl(messageType, data, time.Now().Add(writeWait))
}

func (p *player) close(reason string) {
	p.writeControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Conn != nil {
		p.Conn.Close()
		p.Conn = nil
	}
}
