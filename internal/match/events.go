package match

import "context"

// EventKind identifies a fact recorded by the machine.
type EventKind string

const (
	EventMatchStarted    EventKind = "match_started"
	EventRoundStarted    EventKind = "round_started"
	EventAttributeChosen EventKind = "attribute_chosen"
	EventCardPlayed      EventKind = "card_played"
	EventRoundResolved   EventKind = "round_resolved"
	EventMatchFinished   EventKind = "match_finished"
)

func (k EventKind) String() string {
	return string(k)
}

// Event is handed to the NotificationSink after every transition.
type Event struct {
	Kind    EventKind `json:"kind"`
	Payload any       `json:"payload"`
}

type PlayerProfile struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar Avatar `json:"avatar"`
}

type MatchStartedPayload struct {
	PlayerOrder []string        `json:"playerOrder"`
	Players     []PlayerProfile `json:"players"`
	MaxRounds   int             `json:"maxRounds"`
}

type RoundStartedPayload struct {
	Round     int    `json:"round"`
	Chooser   string `json:"chooser"`
	TurnIndex int    `json:"turnIndex"`
}

type AttributeChosenPayload struct {
	Round     int       `json:"round"`
	Chooser   string    `json:"chooser"`
	Attribute Attribute `json:"attribute"`
}

type CardPlayedPayload struct {
	Round          int    `json:"round"`
	PlayerId       string `json:"playerId"`
	CardId         string `json:"cardId"`
	AttributeValue int    `json:"attributeValue"`
	Pending        int    `json:"pending"`
}

type RoundResolvedPayload struct {
	Round        int            `json:"round"`
	Attribute    Attribute      `json:"attribute"`
	Winner       string         `json:"winner"`
	WinningValue int            `json:"winningValue"`
	Plays        []Play         `json:"plays"`
	Scores       map[string]int `json:"scores"`
}

type MatchFinishedPayload struct {
	Rounds  int        `json:"rounds"`
	Ranking []Standing `json:"ranking"`
}

// CardLookup resolves a card instance to its attributes. Implementations
// return an error wrapping ErrUnknownCard for unknown ids.
type CardLookup interface {
	GetAttributes(cardId string) (Attributes, error)
}

// PersistenceGateway durably records facts. Failures are logged by the
// machine and never undo a transition.
type PersistenceGateway interface {
	RecordEvent(ctx context.Context, matchId string, kind EventKind, payload any) error
}

// NotificationSink receives every phase change for presentation.
type NotificationSink interface {
	Notify(ctx context.Context, matchId string, phase Phase, event Event) error
}
