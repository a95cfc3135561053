package entities

import "time"

// Connection is an API Gateway WebSocket connection bound to a match seat.
type Connection struct {
	Id          string    `dynamodbav:"Id"`
	MatchId     string    `dynamodbav:"MatchId"`
	PlayerId    string    `dynamodbav:"PlayerId"`
	ConnectedAt time.Time `dynamodbav:"ConnectedAt"`
}
