package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scythe504/guesswho-backend/internal"
)

// Store is the Postgres-backed implementation of the engine's collaborator
// interfaces: content selection, room lookup and game history.
type Store struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return &Store{db: pool}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

// =============================================================================
// ROOMS
// =============================================================================

func (s *Store) Room(ctx context.Context, roomId string) (*internal.RoomInfo, error) {
	var room internal.RoomInfo
	var timePerRoundSecs int
	err := s.db.QueryRow(ctx,
		`SELECT id, creator_id, COALESCE(guest_id, ''), COALESCE(category, ''),
		        COALESCE(difficulty, ''), max_rounds, time_per_round_secs, status
		 FROM rooms WHERE id = $1`, roomId).
		Scan(&room.Id, &room.CreatorId, &room.GuestId, &room.Category,
			&room.Difficulty, &room.MaxRounds, &timePerRoundSecs, &room.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: room %s", internal.ErrNotFound, roomId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load room %s: %w", roomId, err)
	}
	room.TimePerRound = time.Duration(timePerRoundSecs) * time.Second
	return &room, nil
}

func (s *Store) MarkFinished(ctx context.Context, roomId string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE rooms SET status = 'finished' WHERE id = $1`, roomId)
	if err != nil {
		return fmt.Errorf("failed to mark room %s finished: %w", roomId, err)
	}
	return nil
}

// =============================================================================
// CARDS
// =============================================================================

// RandomCard picks one card matching the room's filters, excluding cards
// already played this session. Empty filters match everything.
func (s *Store) RandomCard(ctx context.Context, category, difficulty string, exclude []string) (*internal.Card, error) {
	if exclude == nil {
		exclude = []string{}
	}
	var card internal.Card
	err := s.db.QueryRow(ctx,
		`SELECT id, name, hints, difficulty, COALESCE(category, '')
		 FROM cards
		 WHERE ($1 = '' OR category = $1)
		   AND ($2 = '' OR difficulty = $2)
		   AND NOT (id = ANY($3))
		 ORDER BY random()
		 LIMIT 1`, category, difficulty, exclude).
		Scan(&card.Id, &card.Name, &card.Hints, &card.Difficulty, &card.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrContentUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select card: %w", err)
	}
	return &card, nil
}

// =============================================================================
// GAME HISTORY
// =============================================================================

func (s *Store) CreateGame(ctx context.Context, gameId, roomId string, maxRounds int, timePerRound time.Duration) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO games (id, room_id, max_rounds, time_per_round_secs, status, started_at)
		 VALUES ($1, $2, $3, $4, 'playing', now())`,
		gameId, roomId, maxRounds, int(timePerRound.Seconds()))
	if err != nil {
		return fmt.Errorf("failed to create game %s: %w", gameId, err)
	}
	return nil
}

func (s *Store) AddGameCard(ctx context.Context, gameId, cardId string, round int) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO game_cards (game_id, card_id, round) VALUES ($1, $2, $3)
		 ON CONFLICT (game_id, round) DO NOTHING`,
		gameId, cardId, round)
	if err != nil {
		return fmt.Errorf("failed to record card for game %s round %d: %w", gameId, round, err)
	}
	return nil
}

func (s *Store) MarkCardGuessed(ctx context.Context, gameId, cardId, playerId string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE game_cards SET guessed_by = $3 WHERE game_id = $1 AND card_id = $2`,
		gameId, cardId, playerId)
	if err != nil {
		return fmt.Errorf("failed to mark card %s guessed: %w", cardId, err)
	}
	return nil
}

// FinishGame closes the game row and writes one result row per player in a
// single transaction.
func (s *Store) FinishGame(ctx context.Context, gameId, status string, results []internal.GameResult) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin finish tx for game %s: %w", gameId, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE games SET status = $2, ended_at = now() WHERE id = $1`, gameId, status)
	if err != nil {
		return fmt.Errorf("failed to close game %s: %w", gameId, err)
	}

	for _, result := range results {
		_, err := tx.Exec(ctx,
			`INSERT INTO game_results (game_id, player_id, score, position, correct_guesses, total_rounds)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			gameId, result.PlayerId, result.Score, result.Position,
			result.CorrectGuesses, result.TotalRounds)
		if err != nil {
			return fmt.Errorf("failed to insert result for player %s: %w", result.PlayerId, err)
		}
	}

	return tx.Commit(ctx)
}

// Results loads the persisted results for a finished game, ordered by rank.
func (s *Store) Results(ctx context.Context, gameId string) ([]internal.GameResult, error) {
	rows, err := s.db.Query(ctx,
		`SELECT player_id, score, position, correct_guesses, total_rounds
		 FROM game_results WHERE game_id = $1 ORDER BY position`, gameId)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for game %s: %w", gameId, err)
	}
	defer rows.Close()

	var results []internal.GameResult
	for rows.Next() {
		var r internal.GameResult
		if err := rows.Scan(&r.PlayerId, &r.Score, &r.Position, &r.CorrectGuesses, &r.TotalRounds); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
