package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/freddys-cards/cardbattles/pkg/logging"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errInvalidBody = errors.New("invalid request body")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"matches": len(s.machine.Matches()),
	})
}

// handleStartMatch deals a hand to every drafted player and opens the match.
func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	var req dtos.StartMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	if n := len(req.Players); n < match.MinPlayers || n > match.MaxPlayers {
		s.writeError(w, fmt.Errorf("%w: got %d players", match.ErrInvalidPlayerCount, n))
		return
	}
	hands, err := s.dealer.Deal(len(req.Players))
	if err != nil {
		s.writeError(w, err)
		return
	}
	setups := make([]match.PlayerSetup, 0, len(req.Players))
	for i, p := range req.Players {
		setups = append(setups, match.PlayerSetup{
			Id:     p.Id,
			Name:   p.Name,
			Avatar: match.Avatar(p.Avatar),
			Hand:   hands[i],
		})
	}
	state, err := s.machine.StartMatch(r.Context(), setups)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusCreated, dtos.PublicMatchStateResponseFromMatch(state))
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchId := chi.URLParam(r, "matchId")
	playerId := r.URL.Query().Get("playerId")
	state, err := s.machine.GetState(matchId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, ok := state.Players[playerId]; playerId != "" && !ok {
		s.writeError(w, fmt.Errorf("%w: %s", match.ErrUnknownPlayer, playerId))
		return
	}
	writeJson(w, http.StatusOK, dtos.MatchStateResponseFromMatch(state, playerId))
}

func (s *Server) handleGetRanking(w http.ResponseWriter, r *http.Request) {
	matchId := chi.URLParam(r, "matchId")
	ranking, err := s.machine.FinalRanking(matchId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, dtos.RankingResponseFromStandings(matchId, ranking))
}

func (s *Server) handleChooseAttribute(w http.ResponseWriter, r *http.Request) {
	matchId := chi.URLParam(r, "matchId")
	var req dtos.ChooseAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	state, err := s.chooseAttribute(r.Context(), matchId, req.PlayerId, req.Attribute)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, dtos.MatchStateResponseFromMatch(state, req.PlayerId))
}

func (s *Server) handlePlayCard(w http.ResponseWriter, r *http.Request) {
	matchId := chi.URLParam(r, "matchId")
	var req dtos.PlayCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	state, err := s.playCard(r.Context(), matchId, req.PlayerId, req.CardId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, dtos.MatchStateResponseFromMatch(state, req.PlayerId))
}

func (s *Server) chooseAttribute(ctx context.Context, matchId, playerId, attribute string) (match.Match, error) {
	attr, err := match.ParseAttribute(attribute)
	if err != nil {
		return match.Match{}, err
	}
	state, err := s.machine.ChooseAttribute(ctx, matchId, playerId, attr)
	if err != nil {
		return match.Match{}, err
	}
	s.touch(matchId)
	return state, nil
}

func (s *Server) playCard(ctx context.Context, matchId, playerId, cardId string) (match.Match, error) {
	state, err := s.machine.PlayCard(ctx, matchId, playerId, cardId)
	if err != nil {
		return match.Match{}, err
	}
	s.touch(matchId)
	return state, nil
}

// handleGame upgrades a seated player to a WebSocket. Phase changes of the
// match are pushed on it and the player may send commands back.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	matchId := chi.URLParam(r, "matchId")
	playerId := r.URL.Query().Get("playerId")
	state, err := s.machine.GetState(matchId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, ok := state.Players[playerId]; !ok {
		s.writeError(w, fmt.Errorf("%w: %q", match.ErrUnknownPlayer, playerId))
		return
	}
	room, ok := s.room(matchId)
	if !ok || room.isEnded() {
		s.writeError(w, fmt.Errorf("%w: %s", match.ErrMatchNotFound, matchId))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	// Commands run on the connection's context, not the upgrade request's.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	player := newPlayer(conn, playerId)
	if !room.join(player) {
		player.close("match closed")
		return
	}
	defer room.leave(player)
	logging.Info("player connected",
		zap.String("player_id", playerId),
		zap.String("match_id", matchId),
	)
	s.sendState(player, matchId)

	for {
		var msg dtos.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logging.Info("connection closed",
				zap.String("match_id", matchId),
				zap.String("player_id", playerId),
				zap.Error(err),
			)
			return
		}
		s.handleWebSocketMessage(ctx, player, matchId, msg)
	}
}

// Handler for when a player sends a message
func (s *Server) handleWebSocketMessage(ctx context.Context, player *player, matchId string, msg dtos.ClientMessage) {
	var err error
	switch msg.Type {
	case "choose_attribute":
		_, err = s.chooseAttribute(ctx, matchId, player.Id, msg.Data["attribute"])
	case "play_card":
		_, err = s.playCard(ctx, matchId, player.Id, msg.Data["cardId"])
	case "get_state":
		s.sendState(player, matchId)
		return
	default:
		err = fmt.Errorf("%w: unknown message type %q", errInvalidBody, msg.Type)
	}
	if err != nil {
		status, _ := s.reject(err)
		player.writeJson(dtos.ErrorResponse{Type: "error", Error: status, Message: err.Error()})
	}
}

func (s *Server) sendState(player *player, matchId string) {
	state, err := s.machine.GetState(matchId)
	if err != nil {
		status, _ := s.reject(err)
		player.writeJson(dtos.ErrorResponse{Type: "error", Error: status, Message: err.Error()})
		return
	}
	player.writeJson(dtos.StateMessage{
		Type:  "state",
		State: dtos.MatchStateResponseFromMatch(state, player.Id),
	})
}

func (s *Server) reject(err error) (string, int) {
	if errors.Is(err, errInvalidBody) {
		s.metrics.rejectedCommands.WithLabelValues(ErrStatusInvalidRequest).Inc()
		return ErrStatusInvalidRequest, http.StatusBadRequest
	}
	status, code := errorStatus(err)
	if code == http.StatusInternalServerError {
		logging.Error("command failed", zap.Error(err))
	} else {
		s.metrics.rejectedCommands.WithLabelValues(status).Inc()
	}
	return status, code
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := s.reject(err)
	writeJson(w, code, dtos.ErrorResponse{Type: "error", Error: status, Message: err.Error()})
}

func writeJson(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to write response", zap.Error(err))
	}
}
