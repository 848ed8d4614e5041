package game

import (
	"errors"
	"testing"
	"time"

	"github.com/scythe504/guesswho-backend/internal"
)

func TestSessionStoreCreate(t *testing.T) {
	store := NewSessionStore()

	session, err := store.Create("room-1", "alice", "bob", 4, 20*time.Second)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !session.Active || session.Round != 1 || session.CurrentGuesser != "alice" {
		t.Errorf("fresh session = active=%v round=%d guesser=%s", session.Active, session.Round, session.CurrentGuesser)
	}
	if session.Scores["alice"] != 0 || session.Scores["bob"] != 0 || len(session.Scores) != 2 {
		t.Errorf("scores = %v, want two zeroed entries", session.Scores)
	}

	got, ok := store.Get("room-1")
	if !ok || got != session {
		t.Fatal("Get should return the created session")
	}
}

func TestSessionStoreCreateConflict(t *testing.T) {
	store := NewSessionStore()

	if _, err := store.Create("room-1", "alice", "bob", 4, 20*time.Second); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := store.Create("room-1", "alice", "bob", 4, 20*time.Second)
	if !errors.Is(err, internal.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSessionStoreCreateValidation(t *testing.T) {
	store := NewSessionStore()

	cases := []struct {
		name    string
		creator string
		guest   string
	}{
		{"empty creator", "", "bob"},
		{"empty guest", "alice", ""},
		{"same player twice", "alice", "alice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Create("room-1", tc.creator, tc.guest, 4, 20*time.Second)
			if !errors.Is(err, internal.ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestSessionStoreCreateDefaults(t *testing.T) {
	store := NewSessionStore()

	session, err := store.Create("room-1", "alice", "bob", 0, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.MaxRounds != internal.DefaultMaxRounds {
		t.Errorf("maxRounds = %d, want default %d", session.MaxRounds, internal.DefaultMaxRounds)
	}
	if session.TimePerRound != internal.DefaultTimePerRound {
		t.Errorf("timePerRound = %v, want default %v", session.TimePerRound, internal.DefaultTimePerRound)
	}
}

func TestSessionStoreRemove(t *testing.T) {
	store := NewSessionStore()

	if _, err := store.Create("room-1", "alice", "bob", 4, 20*time.Second); err != nil {
		t.Fatalf("create: %v", err)
	}
	store.Remove("room-1")
	if _, ok := store.Get("room-1"); ok {
		t.Fatal("session should be gone after Remove")
	}
	if store.Count() != 0 {
		t.Errorf("count = %d, want 0", store.Count())
	}

	// Removing twice is fine.
	store.Remove("room-1")
}
