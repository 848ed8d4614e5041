package storage

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id                  TEXT PRIMARY KEY,
		creator_id          TEXT NOT NULL,
		guest_id            TEXT,
		category            TEXT,
		difficulty          TEXT,
		max_rounds          INT NOT NULL DEFAULT 5,
		time_per_round_secs INT NOT NULL DEFAULT 30,
		status              TEXT NOT NULL DEFAULT 'open'
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		hints      TEXT[] NOT NULL DEFAULT '{}',
		difficulty TEXT NOT NULL,
		category   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id                  TEXT PRIMARY KEY,
		room_id             TEXT NOT NULL REFERENCES rooms(id),
		max_rounds          INT NOT NULL,
		time_per_round_secs INT NOT NULL,
		status              TEXT NOT NULL,
		started_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		ended_at            TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS game_cards (
		game_id    TEXT NOT NULL REFERENCES games(id),
		card_id    TEXT NOT NULL REFERENCES cards(id),
		round      INT NOT NULL,
		guessed_by TEXT,
		PRIMARY KEY (game_id, round)
	)`,
	`CREATE TABLE IF NOT EXISTS game_results (
		game_id         TEXT NOT NULL REFERENCES games(id),
		player_id       TEXT NOT NULL,
		score           INT NOT NULL,
		position        INT NOT NULL,
		correct_guesses INT NOT NULL,
		total_rounds    INT NOT NULL,
		PRIMARY KEY (game_id, player_id)
	)`,
}

// Migrate creates the tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
