package dtos

import (
	"time"

	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/freddys-cards/cardbattles/internal/match"
)

type PlayerResultRequest struct {
	PlayerId string `json:"playerId"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

// MatchResultRequest is the payload the match server sends to the end game
// function.
type MatchResultRequest struct {
	MatchId string                `json:"matchId"`
	Rounds  int                   `json:"rounds"`
	Players []PlayerResultRequest `json:"players"`
	EndedAt time.Time             `json:"endedAt"`
}

func MatchResultRequestFromMatch(m match.Match, ranking []match.Standing, endedAt time.Time) MatchResultRequest {
	req := MatchResultRequest{
		MatchId: m.Id,
		Rounds:  len(m.History),
		Players: make([]PlayerResultRequest, 0, len(ranking)),
		EndedAt: endedAt,
	}
	for _, s := range ranking {
		p := m.Players[s.PlayerId]
		req.Players = append(req.Players, PlayerResultRequest{
			PlayerId: s.PlayerId,
			Name:     p.Name,
			Avatar:   string(p.Avatar),
			Score:    s.Score,
			Position: s.Position,
		})
	}
	return req
}

func MatchResultRequestToEntity(req MatchResultRequest) entities.MatchResult {
	result := entities.MatchResult{
		MatchId: req.MatchId,
		Rounds:  req.Rounds,
		Players: make([]entities.PlayerResult, 0, len(req.Players)),
		EndedAt: req.EndedAt,
	}
	for _, p := range req.Players {
		if p.Position == 1 {
			result.Winner = p.PlayerId
		}
		result.Players = append(result.Players, entities.PlayerResult(p))
	}
	return result
}

type MatchResultResponse struct {
	MatchId string                `json:"matchId"`
	Rounds  int                   `json:"rounds"`
	Winner  string                `json:"winner"`
	Players []PlayerResultRequest `json:"players"`
	EndedAt time.Time             `json:"endedAt"`
}

func MatchResultResponseFromEntity(result entities.MatchResult) MatchResultResponse {
	resp := MatchResultResponse{
		MatchId: result.MatchId,
		Rounds:  result.Rounds,
		Winner:  result.Winner,
		Players: make([]PlayerResultRequest, 0, len(result.Players)),
		EndedAt: result.EndedAt,
	}
	for _, p := range result.Players {
		resp.Players = append(resp.Players, PlayerResultRequest(p))
	}
	return resp
}
