package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS match_events (
	seq        BIGSERIAL PRIMARY KEY,
	id         UUID NOT NULL UNIQUE,
	match_id   TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_match_events_match_id ON match_events(match_id, seq);
CREATE TABLE IF NOT EXISTS match_results (
	match_id TEXT PRIMARY KEY,
	rounds   INT NOT NULL,
	winner   TEXT NOT NULL,
	players  JSONB NOT NULL,
	ended_at TIMESTAMPTZ NOT NULL
);
`

var ErrMatchResultNotFound = errors.New("match result not found")

// Store persists match events and results in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the tables exist.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// RecordEvent implements match.PersistenceGateway.
func (s *Store) RecordEvent(ctx context.Context, matchId string, kind match.EventKind, payload any) error {
	if s == nil || s.pool == nil {
		return nil
	}
	event, err := dtos.MatchEventToEntity(matchId, kind, payload, time.Now())
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO match_events (id, match_id, kind, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		event.Id, event.MatchId, event.Kind, event.Payload, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert match event: %w", err)
	}
	return nil
}

// ListMatchEvents returns up to limit events of a match recorded after the
// event with sequence number afterSeq, oldest first, and the sequence number
// to continue from.
func (s *Store) ListMatchEvents(ctx context.Context, matchId string, afterSeq int64, limit int) ([]entities.MatchEvent, int64, error) {
	if s == nil || s.pool == nil {
		return nil, afterSeq, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT seq, id, match_id, kind, payload::text, created_at
		FROM match_events
		WHERE match_id = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3`,
		matchId, afterSeq, limit)
	if err != nil {
		return nil, afterSeq, fmt.Errorf("failed to query match events: %w", err)
	}
	defer rows.Close()

	var events []entities.MatchEvent
	last := afterSeq
	for rows.Next() {
		var event entities.MatchEvent
		if err := rows.Scan(&last, &event.Id, &event.MatchId, &event.Kind, &event.Payload, &event.Timestamp); err != nil {
			return nil, afterSeq, fmt.Errorf("failed to scan match event: %w", err)
		}
		event.SortKey = fmt.Sprintf("%020d", last)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, afterSeq, fmt.Errorf("failed to read match events: %w", err)
	}
	return events, last, nil
}

func (s *Store) PutMatchResult(ctx context.Context, result entities.MatchResult) error {
	if s == nil || s.pool == nil {
		return nil
	}
	players, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO match_results (match_id, rounds, winner, players, ended_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id) DO UPDATE SET
			rounds = EXCLUDED.rounds,
			winner = EXCLUDED.winner,
			players = EXCLUDED.players,
			ended_at = EXCLUDED.ended_at`,
		result.MatchId, result.Rounds, result.Winner, string(players), result.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match result: %w", err)
	}
	return nil
}

func (s *Store) GetMatchResult(ctx context.Context, matchId string) (entities.MatchResult, error) {
	if s == nil || s.pool == nil {
		return entities.MatchResult{}, ErrMatchResultNotFound
	}
	var (
		result  entities.MatchResult
		players string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT match_id, rounds, winner, players::text, ended_at FROM match_results WHERE match_id = $1`,
		matchId).Scan(&result.MatchId, &result.Rounds, &result.Winner, &players, &result.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.MatchResult{}, ErrMatchResultNotFound
	}
	if err != nil {
		return entities.MatchResult{}, fmt.Errorf("failed to get match result: %w", err)
	}
	if err := json.Unmarshal([]byte(players), &result.Players); err != nil {
		return entities.MatchResult{}, fmt.Errorf("failed to unmarshal players: %w", err)
	}
	return result, nil
}
