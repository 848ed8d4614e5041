package game

import (
	"log"
	"sync"
	"time"

	"github.com/scythe504/guesswho-backend/internal"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore holds one mutable GameSession per active room. It is the only
// owner of sessions and their timer handles; every mutating transition looks
// its session up here and serializes on the session mutex.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*internal.GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*internal.GameSession),
	}
}

// Create registers a fresh session for roomId. Fails with ErrConflict if one
// already exists and ErrInvalidState unless both player ids are non-empty
// and distinct.
func (st *SessionStore) Create(roomId, creatorId, guestId string, maxRounds int, timePerRound time.Duration) (*internal.GameSession, error) {
	if roomId == "" || creatorId == "" || guestId == "" || creatorId == guestId {
		return nil, internal.ErrInvalidState
	}
	if maxRounds <= 0 {
		maxRounds = internal.DefaultMaxRounds
	}
	if timePerRound <= 0 {
		timePerRound = internal.DefaultTimePerRound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.sessions[roomId]; exists {
		return nil, internal.ErrConflict
	}

	session := &internal.GameSession{
		RoomId:         roomId,
		CreatorId:      creatorId,
		GuestId:        guestId,
		Phase:          internal.PhasePlaying,
		Round:          1,
		MaxRounds:      maxRounds,
		TimePerRound:   timePerRound,
		Scores:         map[string]int{creatorId: 0, guestId: 0},
		CorrectCounts:  map[string]int{creatorId: 0, guestId: 0},
		CurrentGuesser: creatorId,
		Active:         true,
		UsedCardIds:    make([]string, 0, maxRounds),
	}
	st.sessions[roomId] = session

	log.Printf("[SessionStore.Create] room=%s creator=%s guest=%s maxRounds=%d timePerRound=%v",
		roomId, creatorId, guestId, maxRounds, timePerRound)
	return session, nil
}

func (st *SessionStore) Get(roomId string) (*internal.GameSession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[roomId]
	return session, ok
}

// Remove evicts the session for roomId. The caller must already have
// cancelled its timer; eviction itself does not touch session state.
func (st *SessionStore) Remove(roomId string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[roomId]; ok {
		delete(st.sessions, roomId)
		log.Printf("[SessionStore.Remove] room=%s evicted", roomId)
	}
}

func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
