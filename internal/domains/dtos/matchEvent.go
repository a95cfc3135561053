package dtos

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/google/uuid"
)

type MatchEventResponse struct {
	Id        string          `json:"id"`
	MatchId   string          `json:"matchId"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type NextMatchEventPageToken struct {
	SortKey string `json:"sortKey"`
}

type MatchEventListResponse struct {
	Items         []MatchEventResponse     `json:"items"`
	NextPageToken *NextMatchEventPageToken `json:"nextPageToken"`
}

func MatchEventResponseFromEntity(event entities.MatchEvent) MatchEventResponse {
	payload := json.RawMessage(event.Payload)
	if !json.Valid(payload) {
		payload = json.RawMessage("null")
	}
	return MatchEventResponse{
		Id:        event.Id,
		MatchId:   event.MatchId,
		Kind:      event.Kind,
		Payload:   payload,
		Timestamp: event.Timestamp,
	}
}

func MatchEventListResponseFromEntities(events []entities.MatchEvent) MatchEventListResponse {
	items := make([]MatchEventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, MatchEventResponseFromEntity(event))
	}
	return MatchEventListResponse{Items: items}
}

const sortKeyLayout = "20060102T150405.000000000Z"

// MatchEventToEntity encodes a machine event for storage. The sort key orders
// events of one match by time and stays unique for simultaneous events.
func MatchEventToEntity(
	matchId string,
	kind match.EventKind,
	payload any,
	at time.Time,
) (
	entities.MatchEvent,
	error,
) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return entities.MatchEvent{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	id := uuid.NewString()
	at = at.UTC()
	return entities.MatchEvent{
		MatchId:   matchId,
		SortKey:   at.Format(sortKeyLayout) + "#" + id,
		Id:        id,
		Kind:      kind.String(),
		Payload:   string(payloadJson),
		Timestamp: at,
	}, nil
}
