package dtos

import "github.com/freddys-cards/cardbattles/internal/match"

// ClientMessage is a command sent by a player over a WebSocket.
type ClientMessage struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

// PhaseMessage is pushed to every connection of a match after a transition.
// Payloads are shaped per recipient, see PhaseMessageFromEvent.
type PhaseMessage struct {
	Type    string `json:"type"`
	MatchId string `json:"matchId"`
	Phase   string `json:"phase"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// HiddenPlayPayload announces that a player committed a card without
// saying which one.
type HiddenPlayPayload struct {
	Round    int    `json:"round"`
	PlayerId string `json:"playerId"`
	Pending  int    `json:"pending"`
}

// PhaseMessageFromEvent builds the push for viewerId. A played card stays
// hidden from everybody but its owner until the round resolves.
func PhaseMessageFromEvent(matchId string, phase match.Phase, event match.Event, viewerId string) PhaseMessage {
	payload := event.Payload
	if play, ok := payload.(match.CardPlayedPayload); ok && play.PlayerId != viewerId {
		payload = HiddenPlayPayload{
			Round:    play.Round,
			PlayerId: play.PlayerId,
			Pending:  play.Pending,
		}
	}
	return PhaseMessage{
		Type:    "phase",
		MatchId: matchId,
		Phase:   phase.String(),
		Event:   event.Kind.String(),
		Payload: payload,
	}
}

type StateMessage struct {
	Type  string             `json:"type"`
	State MatchStateResponse `json:"state"`
}
