package match

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/freddys-cards/cardbattles/pkg/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Machine is the authoritative round/turn state machine for every live
// match. Commands against one match are serialised; different matches
// proceed independently.
type Machine struct {
	cards       CardLookup
	persistence PersistenceGateway
	notifier    NotificationSink

	maxRounds int
	newId     func() string

	matches map[string]*entry
	mu      sync.RWMutex
}

type entry struct {
	match Match
	mu    sync.Mutex
}

type Option func(*Machine)

func WithMaxRounds(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.maxRounds = n
		}
	}
}

func WithIdGenerator(gen func() string) Option {
	return func(m *Machine) {
		if gen != nil {
			m.newId = gen
		}
	}
}

// NewMachine builds a Machine. persistence and notifier may be nil.
func NewMachine(
	cards CardLookup,
	persistence PersistenceGateway,
	notifier NotificationSink,
	opts ...Option,
) *Machine {
	m := &Machine{
		cards:       cards,
		persistence: persistence,
		notifier:    notifier,
		maxRounds:   DefaultMaxRounds,
		newId:       uuid.NewString,
		matches:     make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartMatch validates the drafted players, creates the match and opens
// round one for the first player in order.
func (m *Machine) StartMatch(ctx context.Context, players []PlayerSetup) (Match, error) {
	if err := validateSetups(players); err != nil {
		return Match{}, err
	}

	e := &entry{match: newMatch(m.newId(), players, m.maxRounds)}
	e.mu.Lock()
	defer e.mu.Unlock()

	m.mu.Lock()
	if _, exists := m.matches[e.match.Id]; exists {
		m.mu.Unlock()
		return Match{}, fmt.Errorf("match %s already exists", e.match.Id)
	}
	m.matches[e.match.Id] = e
	m.mu.Unlock()

	match := &e.match
	profiles := make([]PlayerProfile, 0, len(match.PlayerOrder))
	for _, id := range match.PlayerOrder {
		p := match.Players[id]
		profiles = append(profiles, PlayerProfile{Id: p.Id, Name: p.Name, Avatar: p.Avatar})
	}
	m.emit(ctx, match, EventMatchStarted, MatchStartedPayload{
		PlayerOrder: append([]string(nil), match.PlayerOrder...),
		Players:     profiles,
		MaxRounds:   match.MaxRounds,
	})

	match.RoundNumber = 1
	match.CurrentTurnIndex = 0
	match.startRound()
	m.emitRoundStarted(ctx, match)

	logging.Info("match started",
		zap.String("match_id", match.Id),
		zap.Strings("players", match.PlayerOrder),
		zap.Int("max_rounds", match.MaxRounds),
	)
	return match.clone(), nil
}

// ChooseAttribute sets the comparison attribute of the current round. Only
// the round's chooser may call it, once.
func (m *Machine) ChooseAttribute(ctx context.Context, matchId, playerId string, attr Attribute) (Match, error) {
	e, err := m.lookup(matchId)
	if err != nil {
		return Match{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	match := &e.match

	if match.Phase == Finished {
		return Match{}, ErrMatchFinished
	}
	if _, ok := match.Players[playerId]; !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerId)
	}
	switch match.Phase {
	case ChoosingAttribute:
	case AwaitingPlays:
		return Match{}, fmt.Errorf("%w: round %d uses %s", ErrAttributeAlreadyChosen, match.Round.Number, match.Round.Attribute)
	default:
		return Match{}, fmt.Errorf("%w: %s", ErrInvalidPhase, match.Phase)
	}
	if chooser := match.Round.Chooser; playerId != chooser {
		return Match{}, fmt.Errorf("%w: want %s - got %s", ErrNotYourTurn, chooser, playerId)
	}
	if !attr.Valid() {
		return Match{}, fmt.Errorf("%w: %d", ErrUnknownAttribute, attr)
	}

	match.Round.Attribute = attr
	match.Round.AttributeChosen = true
	match.Phase = AwaitingPlays
	m.emit(ctx, match, EventAttributeChosen, AttributeChosenPayload{
		Round:     match.Round.Number,
		Chooser:   playerId,
		Attribute: attr,
	})
	logging.Debug("attribute chosen",
		zap.String("match_id", match.Id),
		zap.Int("round", match.Round.Number),
		zap.Stringer("attribute", attr),
	)
	return match.clone(), nil
}

// PlayCard commits one card of playerId to the current round. The last play
// of a round resolves it and either opens the next round or finishes the
// match, without any further command.
func (m *Machine) PlayCard(ctx context.Context, matchId, playerId, cardId string) (Match, error) {
	e, err := m.lookup(matchId)
	if err != nil {
		return Match{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	match := &e.match

	if match.Phase == Finished {
		return Match{}, ErrMatchFinished
	}
	player, ok := match.Players[playerId]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerId)
	}
	switch match.Phase {
	case AwaitingPlays:
	case ChoosingAttribute:
		return Match{}, fmt.Errorf("%w: round %d", ErrAttributeNotChosen, match.Round.Number)
	default:
		return Match{}, fmt.Errorf("%w: %s", ErrInvalidPhase, match.Phase)
	}
	round := match.Round
	if _, played := round.Plays[playerId]; played {
		return Match{}, fmt.Errorf("%w: %s in round %d", ErrAlreadyPlayed, playerId, round.Number)
	}
	if _, used := match.UsedCards[cardId]; used {
		return Match{}, fmt.Errorf("%w: %s", ErrCardAlreadyUsed, cardId)
	}
	hand, owned := removeCard(player.Hand, cardId)
	if !owned {
		return Match{}, fmt.Errorf("%w: %s does not hold %s", ErrCardNotOwned, playerId, cardId)
	}
	attrs, err := m.cards.GetAttributes(cardId)
	if err != nil {
		return Match{}, fmt.Errorf("failed to look up card %s: %w", cardId, err)
	}

	player.Hand = hand
	match.Players[playerId] = player
	match.UsedCards[cardId] = playerId
	play := Play{
		PlayerId:       playerId,
		CardId:         cardId,
		AttributeValue: attrs.Value(round.Attribute),
	}
	round.Plays[playerId] = play
	m.emit(ctx, match, EventCardPlayed, CardPlayedPayload{
		Round:          round.Number,
		PlayerId:       playerId,
		CardId:         cardId,
		AttributeValue: play.AttributeValue,
		Pending:        len(match.PlayerOrder) - len(round.Plays),
	})

	if len(round.Plays) == len(match.PlayerOrder) {
		m.resolve(ctx, match)
	}
	return match.clone(), nil
}

// resolve scores the complete current round and moves the match on.
func (m *Machine) resolve(ctx context.Context, match *Match) {
	match.Phase = Resolving
	round := match.Round
	winner, _ := ResolveWinner(match.PlayerOrder, round.Plays)
	round.Winner = winner
	match.Scores[winner]++
	match.History = append(match.History, round.clone())

	scores := make(map[string]int, len(match.Scores))
	for id, s := range match.Scores {
		scores[id] = s
	}
	m.emit(ctx, match, EventRoundResolved, RoundResolvedPayload{
		Round:        round.Number,
		Attribute:    round.Attribute,
		Winner:       winner,
		WinningValue: round.Plays[winner].AttributeValue,
		Plays:        playsInOrder(match.PlayerOrder, round.Plays),
		Scores:       scores,
	})
	logging.Info("round resolved",
		zap.String("match_id", match.Id),
		zap.Int("round", round.Number),
		zap.String("winner", winner),
	)

	if match.RoundNumber >= match.MaxRounds {
		match.Phase = Finished
		match.Round = nil
		ranking := Rank(match.PlayerOrder, match.Scores)
		m.emit(ctx, match, EventMatchFinished, MatchFinishedPayload{
			Rounds:  len(match.History),
			Ranking: ranking,
		})
		logging.Info("match finished",
			zap.String("match_id", match.Id),
			zap.String("leader", ranking[0].PlayerId),
			zap.Int("score", ranking[0].Score),
		)
		return
	}

	match.CurrentTurnIndex = (match.CurrentTurnIndex + 1) % len(match.PlayerOrder)
	match.RoundNumber++
	match.startRound()
	m.emitRoundStarted(ctx, match)
}

// GetState returns a snapshot of the match.
func (m *Machine) GetState(matchId string) (Match, error) {
	e, err := m.lookup(matchId)
	if err != nil {
		return Match{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.match.clone(), nil
}

// FinalRanking returns the standings of a finished match.
func (m *Machine) FinalRanking(matchId string) ([]Standing, error) {
	e, err := m.lookup(matchId)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Phase != Finished {
		return nil, fmt.Errorf("%w: phase %s", ErrMatchNotFinished, e.match.Phase)
	}
	return Rank(e.match.PlayerOrder, e.match.Scores), nil
}

// Remove forgets a match. It reports whether the match existed.
func (m *Machine) Remove(matchId string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[matchId]; !ok {
		return false
	}
	delete(m.matches, matchId)
	return true
}

// Matches lists the ids of all live matches.
func (m *Machine) Matches() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.matches))
	for id := range m.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Machine) lookup(matchId string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.matches[matchId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchId)
	}
	return e, nil
}

func (m *Machine) emitRoundStarted(ctx context.Context, match *Match) {
	m.emit(ctx, match, EventRoundStarted, RoundStartedPayload{
		Round:     match.RoundNumber,
		Chooser:   match.Round.Chooser,
		TurnIndex: match.CurrentTurnIndex,
	})
}

// emit records and announces a fact. Both collaborators are fire-and-forget.
func (m *Machine) emit(ctx context.Context, match *Match, kind EventKind, payload any) {
	if m.persistence != nil {
		if err := m.persistence.RecordEvent(ctx, match.Id, kind, payload); err != nil {
			logging.Error("failed to record event",
				zap.String("match_id", match.Id),
				zap.Stringer("event", kind),
				zap.Error(err),
			)
		}
	}
	if m.notifier != nil {
		err := m.notifier.Notify(ctx, match.Id, match.Phase, Event{Kind: kind, Payload: payload})
		if err != nil {
			logging.Error("failed to notify",
				zap.String("match_id", match.Id),
				zap.Stringer("phase", match.Phase),
				zap.Stringer("event", kind),
				zap.Error(err),
			)
		}
	}
}
