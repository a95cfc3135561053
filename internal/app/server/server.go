package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/freddys-cards/cardbattles/internal/cards"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/freddys-cards/cardbattles/pkg/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	recorderQueueSize = 1024
	notifierQueueSize = 1024
)

type Server struct {
	address  string
	upgrader websocket.Upgrader

	config  Config
	machine *match.Machine
	catalog *cards.Catalog
	dealer  *cards.Dealer
	relay   match.NotificationSink
	endGame EndGameHandler

	recorder *recorder
	notifier *notifier
	metrics  *metrics
	router   chi.Router
	http     *http.Server

	rooms map[string]*room
	mu    sync.Mutex
}

type options struct {
	persistence match.PersistenceGateway
	relay       match.NotificationSink
	endGame     EndGameHandler
	catalog     *cards.Catalog
	dealer      *cards.Dealer
	newId       func() string
}

type Option func(*options)

// WithPersistence records every match event through gateway.
func WithPersistence(gateway match.PersistenceGateway) Option {
	return func(o *options) { o.persistence = gateway }
}

// WithRelay forwards every phase change to sink in addition to the
// server's own WebSocket connections.
func WithRelay(sink match.NotificationSink) Option {
	return func(o *options) { o.relay = sink }
}

func WithEndGameHandler(h EndGameHandler) Option {
	return func(o *options) { o.endGame = h }
}

func WithCatalog(c *cards.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

func WithDealer(d *cards.Dealer) Option {
	return func(o *options) { o.dealer = d }
}

func WithIdGenerator(gen func() string) Option {
	return func(o *options) { o.newId = gen }
}

func NewServer(cfg Config, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = cards.Default()
	}
	if o.dealer == nil {
		o.dealer = cards.NewDealer(o.catalog, cfg.Copies, cfg.HandSize, nil)
	}

	s := &Server{
		address: "0.0.0.0:" + cfg.Port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		config:  cfg,
		catalog: o.catalog,
		dealer:  o.dealer,
		relay:   o.relay,
		endGame: o.endGame,
		metrics: newMetrics(),
		rooms:   make(map[string]*room),
	}

	s.notifier = newNotifier(sinkFunc(s.push), notifierQueueSize, s.metrics.droppedNotifications.Inc)

	var persistence match.PersistenceGateway = logGateway{}
	if o.persistence != nil {
		s.recorder = newRecorder(o.persistence, recorderQueueSize, s.metrics.droppedEvents.Inc)
		persistence = s.recorder
	}
	machineOpts := []match.Option{match.WithMaxRounds(cfg.MaxRounds)}
	if o.newId != nil {
		machineOpts = append(machineOpts, match.WithIdGenerator(o.newId))
	}
	s.machine = match.NewMachine(s.catalog, persistence, s, machineOpts...)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/matches", func(r chi.Router) {
		r.Post("/", s.handleStartMatch)
		r.Get("/{matchId}", s.handleGetMatch)
		r.Get("/{matchId}/ranking", s.handleGetRanking)
		r.Post("/{matchId}/attribute", s.handleChooseAttribute)
		r.Post("/{matchId}/plays", s.handlePlayCard)
	})
	r.Get("/game/{matchId}", s.handleGame)
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logging.Info("match server started", zap.String("port", s.config.Port))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, closes every live match and flushes
// queued events.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.notifier.Close()

	s.mu.Lock()
	rooms := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.rooms = make(map[string]*room)
	s.mu.Unlock()
	for _, r := range rooms {
		r.end("server shutting down")
	}
	if s.recorder != nil {
		s.recorder.Close()
	}
	return err
}

// Notify implements match.NotificationSink. It runs while the machine holds
// the match lock, so it only does in-memory bookkeeping and queues the push.
func (s *Server) Notify(ctx context.Context, matchId string, phase match.Phase, event match.Event) error {
	switch event.Kind {
	case match.EventMatchStarted:
		s.openRoom(matchId)
		s.metrics.matchesStarted.Inc()
	case match.EventRoundResolved:
		s.metrics.roundsResolved.Inc()
	case match.EventMatchFinished:
		s.metrics.matchesFinished.Inc()
		go s.handleEndGame(matchId)
	}
	return s.notifier.Notify(ctx, matchId, phase, event)
}

// push delivers a queued phase change to the match's sockets and the relay.
func (s *Server) push(ctx context.Context, matchId string, phase match.Phase, event match.Event) error {
	if r, ok := s.room(matchId); ok {
		r.broadcast(func(playerId string) any {
			return dtos.PhaseMessageFromEvent(matchId, phase, event, playerId)
		})
	}
	if s.relay != nil {
		return s.relay.Notify(ctx, matchId, phase, event)
	}
	return nil
}

func (s *Server) openRoom(matchId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[matchId] = newRoom(matchId, s.config.IdleTimeout, s.handleIdle)
	s.metrics.liveMatches.Inc()
}

func (s *Server) room(matchId string) (*room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[matchId]
	return r, ok
}

func (s *Server) touch(matchId string) {
	if r, ok := s.room(matchId); ok {
		r.touch()
	}
}

// handleIdle evicts a match nobody has acted on within the idle timeout.
func (s *Server) handleIdle(r *room) {
	s.evict(r.id, "match idle")
}

func (s *Server) evict(matchId, reason string) {
	s.mu.Lock()
	r, ok := s.rooms[matchId]
	if ok {
		delete(s.rooms, matchId)
		s.metrics.liveMatches.Dec()
	}
	s.mu.Unlock()

	s.machine.Remove(matchId)
	if ok {
		r.end(reason)
	}
	logging.Info("match evicted", zap.String("match_id", matchId), zap.String("reason", reason))
}

// handleEndGame reports a finished match. It runs on its own goroutine once
// the machine has released the match.
func (s *Server) handleEndGame(matchId string) {
	if s.endGame == nil {
		return
	}
	state, err := s.machine.GetState(matchId)
	if err != nil {
		logging.Error("failed to load finished match", zap.String("match_id", matchId), zap.Error(err))
		return
	}
	ranking, err := s.machine.FinalRanking(matchId)
	if err != nil {
		logging.Error("failed to rank finished match", zap.String("match_id", matchId), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result := dtos.MatchResultRequestFromMatch(state, ranking, time.Now().UTC())
	if err := s.endGame.HandleEndGame(ctx, result); err != nil {
		logging.Error("failed to handle end game", zap.String("match_id", matchId), zap.Error(err))
		return
	}
	logging.Info("game ended", zap.String("match_id", matchId))
}

// logGateway stands in for a persistence backend when none is configured.
type logGateway struct{}

func (logGateway) RecordEvent(_ context.Context, matchId string, kind match.EventKind, _ any) error {
	logging.Debug("match event", zap.String("match_id", matchId), zap.Stringer("event", kind))
	return nil
}
