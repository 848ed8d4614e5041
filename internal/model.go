package internal

import (
	"context"
	"sync"
	"time"
)

const (
	PlayersPerRoom      = 2
	GuessAward          = 10
	DefaultMaxRounds    = 5
	DefaultTimePerRound = 30 * time.Second
	NextRoundDelay      = 3 * time.Second
)

type SessionPhase string

const (
	PhaseWaiting   SessionPhase = "waiting"
	PhasePlaying   SessionPhase = "playing"
	PhaseFinished  SessionPhase = "finished"
	PhaseAbandoned SessionPhase = "abandoned"
)

type CardDifficulty string

const (
	DifficultyEasy   CardDifficulty = "easy"
	DifficultyMedium CardDifficulty = "medium"
	DifficultyHard   CardDifficulty = "hard"
)

// Card is the content item in play for one round. Owned by the content
// collaborator; the engine only reads it.
type Card struct {
	Id         string         `json:"id"`
	Name       string         `json:"name"`
	Hints      []string       `json:"hints"`
	Difficulty CardDifficulty `json:"difficulty"`
	Category   string         `json:"category"`
}

// RoomInfo is the engine's read-only view of a room, fetched from the room
// collaborator. Creator and guest are fixed for the life of a game.
type RoomInfo struct {
	Id           string        `json:"id"`
	CreatorId    string        `json:"creator_id"`
	GuestId      string        `json:"guest_id"`
	Category     string        `json:"category"`
	Difficulty   string        `json:"difficulty"`
	MaxRounds    int           `json:"max_rounds"`
	TimePerRound time.Duration `json:"time_per_round"`
	Status       string        `json:"status"`
}

// GameTimer is the cancellable handle for the round scheduler. Gen ties the
// timer to the transition that armed it: a callback whose generation no
// longer matches the session is stale and must no-op.
type GameTimer struct {
	StartTime time.Time
	Duration  time.Duration
	Gen       uint64
	Context   context.Context
	Cancel    context.CancelFunc
}

// GameSession is the single source of truth for one room's game. All field
// access goes through Mu; the session store owns the session and its timer
// as one unit.
type GameSession struct {
	RoomId    string `json:"room_id"`
	GameId    string `json:"game_id"`
	CreatorId string `json:"creator_id"`
	GuestId   string `json:"guest_id"`

	Phase          SessionPhase   `json:"phase"`
	Round          int            `json:"round"`
	MaxRounds      int            `json:"max_rounds"`
	TimePerRound   time.Duration  `json:"time_per_round"`
	CurrentCard    *Card          `json:"current_card,omitempty"`
	RoundStartedAt time.Time      `json:"round_started_at"`
	Scores         map[string]int `json:"scores"`
	CorrectCounts  map[string]int `json:"correct_counts"`
	CurrentGuesser string         `json:"current_guesser"`
	Active         bool           `json:"active"`

	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`

	UsedCardIds []string `json:"-"`

	Timer    *GameTimer `json:"-"`
	TimerGen uint64     `json:"-"`

	Mu sync.Mutex `json:"-"`
}

// Opponent returns the other enrolled player. Empty string if playerId is
// not part of this session.
func (s *GameSession) Opponent(playerId string) string {
	switch playerId {
	case s.CreatorId:
		return s.GuestId
	case s.GuestId:
		return s.CreatorId
	}
	return ""
}

func (s *GameSession) IsPlayer(playerId string) bool {
	return playerId == s.CreatorId || playerId == s.GuestId
}

// TimeRemaining reports how much of the current round's budget is left.
// Callers must hold Mu.
func (s *GameSession) TimeRemaining() time.Duration {
	if s.CurrentCard == nil {
		return 0
	}
	return max(s.TimePerRound-time.Since(s.RoundStartedAt), 0)
}

// GameResult is one player's final line in a completed game.
type GameResult struct {
	PlayerId       string `json:"player_id"`
	Score          int    `json:"score"`
	Position       int    `json:"position"`
	CorrectGuesses int    `json:"correct_guesses"`
	TotalRounds    int    `json:"total_rounds"`
}
