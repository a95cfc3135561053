package dtos

import (
	"github.com/freddys-cards/cardbattles/internal/match"
)

type PlayerRequest struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type StartMatchRequest struct {
	Players []PlayerRequest `json:"players"`
}

type ChooseAttributeRequest struct {
	PlayerId  string `json:"playerId"`
	Attribute string `json:"attribute"`
}

type PlayCardRequest struct {
	PlayerId string `json:"playerId"`
	CardId   string `json:"cardId"`
}

type PlayerStateResponse struct {
	Id       string   `json:"id"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar"`
	Score    int      `json:"score"`
	HandSize int      `json:"handSize"`
	Hand     []string `json:"hand,omitempty"`
}

type PlayResponse struct {
	PlayerId       string `json:"playerId"`
	CardId         string `json:"cardId,omitempty"`
	AttributeValue int    `json:"attributeValue,omitempty"`
}

type RoundResponse struct {
	Number    int            `json:"number"`
	Chooser   string         `json:"chooser"`
	Attribute string         `json:"attribute,omitempty"`
	Plays     []PlayResponse `json:"plays"`
	Winner    string         `json:"winner,omitempty"`
}

type MatchStateResponse struct {
	MatchId     string                `json:"matchId"`
	Phase       string                `json:"phase"`
	RoundNumber int                   `json:"roundNumber"`
	MaxRounds   int                   `json:"maxRounds"`
	Chooser     string                `json:"chooser,omitempty"`
	PlayerOrder []string              `json:"playerOrder"`
	Players     []PlayerStateResponse `json:"players"`
	Round       *RoundResponse        `json:"round,omitempty"`
	History     []RoundResponse       `json:"history"`
}

/*
MatchStateResponseFromMatch builds the view of a match seen by viewerId.
When viewerId is set, other players' hands are hidden and so are the cards
they have committed to the current round. An empty viewerId sees everything.
*/
func MatchStateResponseFromMatch(m match.Match, viewerId string) MatchStateResponse {
	resp := MatchStateResponse{
		MatchId:     m.Id,
		Phase:       m.Phase.String(),
		RoundNumber: m.RoundNumber,
		MaxRounds:   m.MaxRounds,
		PlayerOrder: append([]string{}, m.PlayerOrder...),
		Players:     make([]PlayerStateResponse, 0, len(m.PlayerOrder)),
		History:     make([]RoundResponse, 0, len(m.History)),
	}
	if m.Phase != match.Waiting && m.Phase != match.Finished {
		resp.Chooser = m.Chooser()
	}
	for _, id := range m.PlayerOrder {
		p := m.Players[id]
		player := PlayerStateResponse{
			Id:       p.Id,
			Name:     p.Name,
			Avatar:   string(p.Avatar),
			Score:    m.Scores[id],
			HandSize: len(p.Hand),
		}
		if viewerId == "" || viewerId == id {
			player.Hand = append([]string{}, p.Hand...)
		}
		resp.Players = append(resp.Players, player)
	}
	if m.Round != nil {
		round := roundResponse(m.PlayerOrder, *m.Round, viewerId, false)
		resp.Round = &round
	}
	for _, r := range m.History {
		resp.History = append(resp.History, roundResponse(m.PlayerOrder, r, viewerId, true))
	}
	return resp
}

// PublicMatchStateResponseFromMatch is the view of a match seen by no seat:
// hand sizes only and no card of the current round.
func PublicMatchStateResponseFromMatch(m match.Match) MatchStateResponse {
	resp := MatchStateResponseFromMatch(m, "")
	for i := range resp.Players {
		resp.Players[i].Hand = nil
	}
	if resp.Round != nil {
		for i, play := range resp.Round.Plays {
			resp.Round.Plays[i] = PlayResponse{PlayerId: play.PlayerId}
		}
	}
	return resp
}

func roundResponse(order []string, r match.Round, viewerId string, resolved bool) RoundResponse {
	resp := RoundResponse{
		Number:  r.Number,
		Chooser: r.Chooser,
		Plays:   []PlayResponse{},
		Winner:  r.Winner,
	}
	if r.AttributeChosen {
		resp.Attribute = r.Attribute.String()
	}
	for _, id := range order {
		play, ok := r.Plays[id]
		if !ok {
			continue
		}
		if !resolved && viewerId != "" && viewerId != id {
			resp.Plays = append(resp.Plays, PlayResponse{PlayerId: id})
			continue
		}
		resp.Plays = append(resp.Plays, PlayResponse{
			PlayerId:       play.PlayerId,
			CardId:         play.CardId,
			AttributeValue: play.AttributeValue,
		})
	}
	return resp
}

type StandingResponse struct {
	PlayerId string `json:"playerId"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

type RankingResponse struct {
	MatchId string             `json:"matchId"`
	Ranking []StandingResponse `json:"ranking"`
}

func RankingResponseFromStandings(matchId string, standings []match.Standing) RankingResponse {
	resp := RankingResponse{
		MatchId: matchId,
		Ranking: make([]StandingResponse, 0, len(standings)),
	}
	for _, s := range standings {
		resp.Ranking = append(resp.Ranking, StandingResponse(s))
	}
	return resp
}

type ErrorResponse struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
