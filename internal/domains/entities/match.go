package entities

import "time"

// MatchEvent is one fact recorded by the match machine. Payload holds the
// JSON encoding of the event payload.
type MatchEvent struct {
	MatchId   string    `dynamodbav:"MatchId"`
	SortKey   string    `dynamodbav:"SortKey"`
	Id        string    `dynamodbav:"Id"`
	Kind      string    `dynamodbav:"Kind"`
	Payload   string    `dynamodbav:"Payload"`
	Timestamp time.Time `dynamodbav:"Timestamp"`
}

type PlayerResult struct {
	PlayerId string `dynamodbav:"PlayerId"`
	Name     string `dynamodbav:"Name"`
	Avatar   string `dynamodbav:"Avatar"`
	Score    int    `dynamodbav:"Score"`
	Position int    `dynamodbav:"Position"`
}

type MatchResult struct {
	MatchId string         `dynamodbav:"MatchId"`
	Rounds  int            `dynamodbav:"Rounds"`
	Players []PlayerResult `dynamodbav:"Players"`
	Winner  string         `dynamodbav:"Winner"`
	EndedAt time.Time      `dynamodbav:"EndedAt"`
}
