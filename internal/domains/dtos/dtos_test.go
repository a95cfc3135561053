package dtos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatch() match.Match {
	return match.Match{
		Id:          "m1",
		PlayerOrder: []string{"P1", "P2"},
		Players: map[string]match.Player{
			"P1": {Id: "P1", Name: "Mike", Avatar: match.Freddy, Hand: []string{"foxy#1", "chica#2"}},
			"P2": {Id: "P2", Name: "Vanessa", Avatar: match.Bonnie, Hand: []string{"mangle#1"}},
		},
		CurrentTurnIndex: 1,
		RoundNumber:      2,
		MaxRounds:        8,
		Phase:            match.AwaitingPlays,
		Scores:           map[string]int{"P1": 1, "P2": 0},
		Round: &match.Round{
			Number:          2,
			Chooser:         "P2",
			Attribute:       match.Speed,
			AttributeChosen: true,
			Plays: map[string]match.Play{
				"P2": {PlayerId: "P2", CardId: "bonnie#3", AttributeValue: 60},
			},
		},
		History: []match.Round{{
			Number:          1,
			Chooser:         "P1",
			Attribute:       match.Attack,
			AttributeChosen: true,
			Plays: map[string]match.Play{
				"P1": {PlayerId: "P1", CardId: "freddy#1", AttributeValue: 75},
				"P2": {PlayerId: "P2", CardId: "puppet#1", AttributeValue: 40},
			},
			Winner: "P1",
		}},
	}
}

func TestMatchStateResponseHidesOtherHands(t *testing.T) {
	resp := MatchStateResponseFromMatch(sampleMatch(), "P1")

	assert.Equal(t, "awaiting_plays", resp.Phase)
	assert.Equal(t, "P2", resp.Chooser)
	require.Len(t, resp.Players, 2)
	assert.Equal(t, []string{"foxy#1", "chica#2"}, resp.Players[0].Hand)
	assert.Nil(t, resp.Players[1].Hand)
	assert.Equal(t, 1, resp.Players[1].HandSize)

	require.NotNil(t, resp.Round)
	assert.Equal(t, "speed", resp.Round.Attribute)
	assert.Equal(t, []PlayResponse{{PlayerId: "P2"}}, resp.Round.Plays)

	require.Len(t, resp.History, 1)
	assert.Equal(t, "P1", resp.History[0].Winner)
	assert.Equal(t, "puppet#1", resp.History[0].Plays[1].CardId)
}

func TestMatchStateResponseFullView(t *testing.T) {
	resp := MatchStateResponseFromMatch(sampleMatch(), "")
	assert.Equal(t, []string{"mangle#1"}, resp.Players[1].Hand)
	assert.Equal(t, "bonnie#3", resp.Round.Plays[0].CardId)
}

func TestPublicMatchStateResponse(t *testing.T) {
	resp := PublicMatchStateResponseFromMatch(sampleMatch())
	for _, p := range resp.Players {
		assert.Nil(t, p.Hand)
	}
	assert.Equal(t, 2, resp.Players[0].HandSize)
	assert.Equal(t, []PlayResponse{{PlayerId: "P2"}}, resp.Round.Plays)
	assert.Equal(t, "freddy#1", resp.History[0].Plays[0].CardId)
}

func TestMatchStateResponseFinished(t *testing.T) {
	m := sampleMatch()
	m.Phase = match.Finished
	m.Round = nil
	resp := MatchStateResponseFromMatch(m, "P2")
	assert.Empty(t, resp.Chooser)
	assert.Nil(t, resp.Round)
}

func TestMatchResultRoundTrip(t *testing.T) {
	m := sampleMatch()
	endedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	req := MatchResultRequestFromMatch(m, match.Rank(m.PlayerOrder, m.Scores), endedAt)

	assert.Equal(t, "Mike", req.Players[0].Name)
	assert.Equal(t, 1, req.Rounds)

	result := MatchResultRequestToEntity(req)
	assert.Equal(t, "P1", result.Winner)
	assert.Equal(t, entities.PlayerResult{PlayerId: "P2", Name: "Vanessa", Avatar: "bonnie", Score: 0, Position: 2}, result.Players[1])

	resp := MatchResultResponseFromEntity(result)
	assert.Equal(t, req.Players, resp.Players)
}

func TestMatchEventResponse(t *testing.T) {
	list := MatchEventListResponseFromEntities([]entities.MatchEvent{
		{Id: "e1", MatchId: "m1", Kind: "round_started", Payload: `{"round":1}`},
		{Id: "e2", MatchId: "m1", Kind: "card_played", Payload: "not json"},
	})
	require.Len(t, list.Items, 2)
	assert.JSONEq(t, `{"round":1}`, string(list.Items[0].Payload))
	assert.Equal(t, json.RawMessage("null"), list.Items[1].Payload)
	assert.Nil(t, list.NextPageToken)
}

func TestPhaseMessage(t *testing.T) {
	msg := PhaseMessageFromEvent("m1", match.ChoosingAttribute, match.Event{
		Kind:    match.EventRoundStarted,
		Payload: match.RoundStartedPayload{Round: 1, Chooser: "P1"},
	}, "P2")
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "phase",
		"matchId": "m1",
		"phase": "choosing_attribute",
		"event": "round_started",
		"payload": {"round": 1, "chooser": "P1", "turnIndex": 0}
	}`, string(data))
}

func TestPhaseMessageHidesOtherPlays(t *testing.T) {
	event := match.Event{
		Kind: match.EventCardPlayed,
		Payload: match.CardPlayedPayload{
			Round: 1, PlayerId: "P1", CardId: "withered_foxy#1", AttributeValue: 85, Pending: 1,
		},
	}

	own, err := json.Marshal(PhaseMessageFromEvent("m1", match.AwaitingPlays, event, "P1"))
	require.NoError(t, err)
	assert.Contains(t, string(own), `"cardId":"withered_foxy#1"`)
	assert.Contains(t, string(own), `"attributeValue":85`)

	for _, viewer := range []string{"P2", ""} {
		data, err := json.Marshal(PhaseMessageFromEvent("m1", match.AwaitingPlays, event, viewer))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "phase",
			"matchId": "m1",
			"phase": "awaiting_plays",
			"event": "card_played",
			"payload": {"round": 1, "playerId": "P1", "pending": 1}
		}`, string(data))
	}
}

func TestMatchEventToEntity(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 5, time.FixedZone("X", 3600))
	event, err := MatchEventToEntity("m1", match.EventAttributeChosen, match.AttributeChosenPayload{
		Round: 1, Chooser: "P1", Attribute: match.Terror,
	}, at)
	require.NoError(t, err)

	assert.Equal(t, "m1", event.MatchId)
	assert.Equal(t, "attribute_chosen", event.Kind)
	assert.JSONEq(t, `{"round":1,"chooser":"P1","attribute":"terror"}`, event.Payload)
	assert.Equal(t, "20260301T110000.000000005Z#"+event.Id, event.SortKey)
	assert.True(t, at.Equal(event.Timestamp))

	other, err := MatchEventToEntity("m1", match.EventAttributeChosen, nil, at)
	require.NoError(t, err)
	assert.NotEqual(t, event.SortKey, other.SortKey)
	assert.Less(t, event.SortKey[:26], "20260301T110000.000000006Z")

	_, err = MatchEventToEntity("m1", match.EventCardPlayed, func() {}, at)
	assert.Error(t, err)
}
