package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scythe504/guesswho-backend/internal"
)

// setupStore spins up a throwaway Postgres and migrates the schema. Skipped
// when Docker is not available (short mode or container start failure).
func setupStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed storage test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("guesswho"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	store, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting store: %v", err)
	}
	t.Cleanup(store.Close)

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func seed(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.db.Exec(ctx,
		`INSERT INTO rooms (id, creator_id, guest_id, category, difficulty, max_rounds, time_per_round_secs, status)
		 VALUES ('room-1', 'alice', 'bob', 'cartoon', 'easy', 2, 30, 'open')`)
	if err != nil {
		t.Fatalf("seeding room: %v", err)
	}

	cards := []struct {
		id, name, difficulty, category string
	}{
		{"card-1", "Bugs Bunny", "easy", "cartoon"},
		{"card-2", "Daffy Duck", "easy", "cartoon"},
		{"card-3", "Gandalf", "hard", "movies"},
	}
	for _, c := range cards {
		_, err := store.db.Exec(ctx,
			`INSERT INTO cards (id, name, hints, difficulty, category) VALUES ($1, $2, $3, $4, $5)`,
			c.id, c.name, []string{"a hint", "another hint"}, c.difficulty, c.category)
		if err != nil {
			t.Fatalf("seeding card %s: %v", c.id, err)
		}
	}
}

func TestStorePostgres(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	t.Run("room lookup", func(t *testing.T) {
		room, err := store.Room(ctx, "room-1")
		if err != nil {
			t.Fatalf("room: %v", err)
		}
		if room.CreatorId != "alice" || room.GuestId != "bob" {
			t.Errorf("room players = %s/%s", room.CreatorId, room.GuestId)
		}
		if room.MaxRounds != 2 || room.TimePerRound != 30*time.Second {
			t.Errorf("room config = %d rounds, %v per round", room.MaxRounds, room.TimePerRound)
		}

		if _, err := store.Room(ctx, "missing"); !errors.Is(err, internal.ErrNotFound) {
			t.Errorf("missing room: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("random card honors filters and exclusions", func(t *testing.T) {
		card, err := store.RandomCard(ctx, "cartoon", "easy", nil)
		if err != nil {
			t.Fatalf("random card: %v", err)
		}
		if card.Category != "cartoon" || card.Difficulty != internal.DifficultyEasy {
			t.Errorf("card outside filters: %+v", card)
		}
		if len(card.Hints) != 2 {
			t.Errorf("hints = %v", card.Hints)
		}

		card, err = store.RandomCard(ctx, "cartoon", "easy", []string{"card-1"})
		if err != nil {
			t.Fatalf("random card with exclusion: %v", err)
		}
		if card.Id == "card-1" {
			t.Error("excluded card was returned")
		}

		_, err = store.RandomCard(ctx, "cartoon", "easy", []string{"card-1", "card-2"})
		if !errors.Is(err, internal.ErrContentUnavailable) {
			t.Errorf("exhausted pool: expected ErrContentUnavailable, got %v", err)
		}

		_, err = store.RandomCard(ctx, "sports", "", nil)
		if !errors.Is(err, internal.ErrContentUnavailable) {
			t.Errorf("unknown category: expected ErrContentUnavailable, got %v", err)
		}
	})

	t.Run("game lifecycle", func(t *testing.T) {
		const gameId = "game-1"
		if err := store.CreateGame(ctx, gameId, "room-1", 2, 30*time.Second); err != nil {
			t.Fatalf("create game: %v", err)
		}
		if err := store.AddGameCard(ctx, gameId, "card-1", 1); err != nil {
			t.Fatalf("add game card: %v", err)
		}
		// Re-recording the same round is a no-op, not an error.
		if err := store.AddGameCard(ctx, gameId, "card-1", 1); err != nil {
			t.Fatalf("duplicate game card: %v", err)
		}
		if err := store.MarkCardGuessed(ctx, gameId, "card-1", "alice"); err != nil {
			t.Fatalf("mark guessed: %v", err)
		}

		results := []internal.GameResult{
			{PlayerId: "alice", Score: 10, Position: 1, CorrectGuesses: 1, TotalRounds: 2},
			{PlayerId: "bob", Score: 0, Position: 2, CorrectGuesses: 0, TotalRounds: 2},
		}
		if err := store.FinishGame(ctx, gameId, "finished", results); err != nil {
			t.Fatalf("finish game: %v", err)
		}

		loaded, err := store.Results(ctx, gameId)
		if err != nil {
			t.Fatalf("results: %v", err)
		}
		if len(loaded) != 2 || loaded[0].PlayerId != "alice" || loaded[0].Score != 10 {
			t.Errorf("results = %+v", loaded)
		}

		var status string
		if err := store.db.QueryRow(ctx, `SELECT status FROM games WHERE id = $1`, gameId).Scan(&status); err != nil {
			t.Fatalf("reading game status: %v", err)
		}
		if status != "finished" {
			t.Errorf("game status = %s", status)
		}

		var guessedBy string
		if err := store.db.QueryRow(ctx,
			`SELECT guessed_by FROM game_cards WHERE game_id = $1 AND round = 1`, gameId).Scan(&guessedBy); err != nil {
			t.Fatalf("reading game card: %v", err)
		}
		if guessedBy != "alice" {
			t.Errorf("guessed_by = %s", guessedBy)
		}
	})

	t.Run("mark room finished", func(t *testing.T) {
		if err := store.MarkFinished(ctx, "room-1"); err != nil {
			t.Fatalf("mark finished: %v", err)
		}
		room, err := store.Room(ctx, "room-1")
		if err != nil {
			t.Fatalf("room: %v", err)
		}
		if room.Status != "finished" {
			t.Errorf("room status = %s", room.Status)
		}
	})
}
