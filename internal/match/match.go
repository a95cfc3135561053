package match

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Phase uint8

const (
	Waiting Phase = iota
	ChoosingAttribute
	AwaitingPlays
	Resolving
	Finished
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case ChoosingAttribute:
		return "choosing_attribute"
	case AwaitingPlays:
		return "awaiting_plays"
	case Resolving:
		return "resolving"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for candidate := Waiting; candidate <= Finished; candidate++ {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Avatar is the character a player drafts. Two players of one match never
// share an avatar.
type Avatar string

const (
	Freddy       Avatar = "freddy"
	Bonnie       Avatar = "bonnie"
	Chica        Avatar = "chica"
	Foxy         Avatar = "foxy"
	GoldenFreddy Avatar = "golden_freddy"
	Springtrap   Avatar = "springtrap"
	Mangle       Avatar = "mangle"
	Puppet       Avatar = "puppet"
)

func Avatars() []Avatar {
	return []Avatar{Freddy, Bonnie, Chica, Foxy, GoldenFreddy, Springtrap, Mangle, Puppet}
}

func (a Avatar) Valid() bool {
	for _, known := range Avatars() {
		if a == known {
			return true
		}
	}
	return false
}

const (
	MinPlayers       = 2
	MaxPlayers       = 7
	MinNameLength    = 3
	MaxNameLength    = 10
	DefaultMaxRounds = 8
)

// PlayerSetup is a drafted player together with the hand dealt to them.
type PlayerSetup struct {
	Id     string
	Name   string
	Avatar Avatar
	Hand   []string
}

type Player struct {
	Id     string   `json:"id"`
	Name   string   `json:"name"`
	Avatar Avatar   `json:"avatar"`
	Hand   []string `json:"hand"`
}

type Play struct {
	PlayerId       string `json:"playerId"`
	CardId         string `json:"cardId"`
	AttributeValue int    `json:"attributeValue"`
}

type Round struct {
	Number          int             `json:"number"`
	Chooser         string          `json:"chooser"`
	Attribute       Attribute       `json:"attribute"`
	AttributeChosen bool            `json:"attributeChosen"`
	Plays           map[string]Play `json:"plays"`
	// Winner stays empty until the round resolves.
	Winner string `json:"winner,omitempty"`
}

// Match is the full state of one match. Values returned by Machine are
// snapshots and never alias the machine's own state.
type Match struct {
	Id               string            `json:"id"`
	PlayerOrder      []string          `json:"playerOrder"`
	Players          map[string]Player `json:"players"`
	CurrentTurnIndex int               `json:"currentTurnIndex"`
	RoundNumber      int               `json:"roundNumber"`
	MaxRounds        int               `json:"maxRounds"`
	Phase            Phase             `json:"phase"`
	Scores           map[string]int    `json:"scores"`
	// Round is the current round; nil while Waiting or Finished.
	Round   *Round  `json:"round,omitempty"`
	History []Round `json:"history"`
	// UsedCards maps every played card to the player who played it.
	UsedCards map[string]string `json:"usedCards"`
}

// Standing is one line of the final ranking. Position is 1-based.
type Standing struct {
	PlayerId string `json:"playerId"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

// Chooser returns the id of the player whose turn it is to pick the attribute.
func (m Match) Chooser() string {
	if len(m.PlayerOrder) == 0 {
		return ""
	}
	return m.PlayerOrder[m.CurrentTurnIndex]
}

func (m Match) clone() Match {
	c := m
	c.PlayerOrder = append([]string(nil), m.PlayerOrder...)
	c.Players = make(map[string]Player, len(m.Players))
	for id, p := range m.Players {
		p.Hand = append([]string{}, p.Hand...)
		c.Players[id] = p
	}
	c.Scores = make(map[string]int, len(m.Scores))
	for id, s := range m.Scores {
		c.Scores[id] = s
	}
	if m.Round != nil {
		r := m.Round.clone()
		c.Round = &r
	}
	c.History = make([]Round, len(m.History))
	for i, r := range m.History {
		c.History[i] = r.clone()
	}
	c.UsedCards = make(map[string]string, len(m.UsedCards))
	for card, owner := range m.UsedCards {
		c.UsedCards[card] = owner
	}
	return c
}

func (r Round) clone() Round {
	c := r
	c.Plays = make(map[string]Play, len(r.Plays))
	for id, p := range r.Plays {
		c.Plays[id] = p
	}
	return c
}

func validateSetups(setups []PlayerSetup) error {
	if len(setups) < MinPlayers || len(setups) > MaxPlayers {
		return fmt.Errorf("%w: got %d, want %d-%d", ErrInvalidPlayerCount, len(setups), MinPlayers, MaxPlayers)
	}
	ids := make(map[string]struct{}, len(setups))
	avatars := make(map[Avatar]string, len(setups))
	cards := make(map[string]string)
	for _, s := range setups {
		if strings.TrimSpace(s.Id) == "" {
			return fmt.Errorf("%w: missing player id", ErrIncompleteProfile)
		}
		if _, dup := ids[s.Id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, s.Id)
		}
		ids[s.Id] = struct{}{}

		n := utf8.RuneCountInString(strings.TrimSpace(s.Name))
		if n < MinNameLength || n > MaxNameLength {
			return fmt.Errorf("%w: name of %s must be %d-%d characters", ErrIncompleteProfile, s.Id, MinNameLength, MaxNameLength)
		}
		if s.Avatar == "" {
			return fmt.Errorf("%w: %s has no avatar", ErrIncompleteProfile, s.Id)
		}
		if !s.Avatar.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownAvatar, s.Avatar)
		}
		if holder, taken := avatars[s.Avatar]; taken {
			return fmt.Errorf("%w: %s held by %s and %s", ErrDuplicateAvatar, s.Avatar, holder, s.Id)
		}
		avatars[s.Avatar] = s.Id

		for _, card := range s.Hand {
			if holder, dealt := cards[card]; dealt {
				return fmt.Errorf("%w: %s held by %s and %s", ErrDuplicateCard, card, holder, s.Id)
			}
			cards[card] = s.Id
		}
	}
	return nil
}

func newMatch(id string, setups []PlayerSetup, maxRounds int) Match {
	m := Match{
		Id:          id,
		PlayerOrder: make([]string, 0, len(setups)),
		Players:     make(map[string]Player, len(setups)),
		MaxRounds:   maxRounds,
		Phase:       Waiting,
		Scores:      make(map[string]int, len(setups)),
		History:     []Round{},
		UsedCards:   make(map[string]string),
	}
	for _, s := range setups {
		m.PlayerOrder = append(m.PlayerOrder, s.Id)
		m.Players[s.Id] = Player{
			Id:     s.Id,
			Name:   strings.TrimSpace(s.Name),
			Avatar: s.Avatar,
			Hand:   append([]string{}, s.Hand...),
		}
		m.Scores[s.Id] = 0
	}
	return m
}

// startRound opens round RoundNumber for the player at CurrentTurnIndex.
func (m *Match) startRound() {
	m.Round = &Round{
		Number:  m.RoundNumber,
		Chooser: m.Chooser(),
		Plays:   make(map[string]Play, len(m.PlayerOrder)),
	}
	m.Phase = ChoosingAttribute
}

func removeCard(hand []string, cardId string) ([]string, bool) {
	for i, c := range hand {
		if c == cardId {
			return append(hand[:i:i], hand[i+1:]...), true
		}
	}
	return hand, false
}
