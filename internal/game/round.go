package game

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/scythe504/guesswho-backend/internal"
)

// =============================================================================
// ROUND SCHEDULER
// =============================================================================

// cancelTimerLocked stops the session's live timer, if any. Idempotent.
// Bumping the generation also neutralizes a callback that already left
// ctx.Done but has not re-acquired the session lock yet. Callers hold Mu.
func cancelTimerLocked(s *internal.GameSession) {
	s.TimerGen++
	if s.Timer != nil {
		if s.Timer.Cancel != nil {
			s.Timer.Cancel()
		}
		s.Timer = nil
	}
}

// armTimerLocked replaces the session timer with a fresh one. The previous
// timer is always cancelled first, so at most one timer is live per room.
// fire runs on natural expiry only, carrying the generation it was armed
// with. Callers hold Mu.
func (e *Engine) armTimerLocked(s *internal.GameSession, d time.Duration, fire func(*internal.GameSession, uint64)) {
	cancelTimerLocked(s)
	gen := s.TimerGen

	ctx, cancel := context.WithTimeout(context.Background(), d)
	s.Timer = &internal.GameTimer{
		StartTime: time.Now(),
		Duration:  d,
		Gen:       gen,
		Context:   ctx,
		Cancel:    cancel,
	}

	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fire(s, gen)
		}
	}()
}

// startRound selects content, arms the round timer and announces the round.
// If no content is available the room is notified and round state is left
// untouched; nothing is armed.
func (e *Engine) startRound(ctx context.Context, s *internal.GameSession) {
	s.Mu.Lock()
	if !s.Active || s.CurrentCard != nil {
		s.Mu.Unlock()
		return
	}
	roomId := s.RoomId
	category := s.Category
	difficulty := s.Difficulty
	exclude := append([]string(nil), s.UsedCardIds...)
	s.Mu.Unlock()

	card, err := e.cards.RandomCard(ctx, category, difficulty, exclude)
	if err != nil {
		if !errors.Is(err, internal.ErrContentUnavailable) {
			log.Printf("[startRound] room=%s card selection failed: %v", roomId, err)
		}
		e.dispatch.ToRoom(roomId, internal.Message[any]{
			Type: "error",
			Data: internal.ErrorData{Message: "No content available for this round"},
		})
		return
	}

	s.Mu.Lock()
	// Selection ran outside the lock; someone may have won a race here.
	if !s.Active || s.CurrentCard != nil {
		s.Mu.Unlock()
		return
	}
	s.CurrentCard = card
	s.RoundStartedAt = time.Now()
	s.UsedCardIds = append(s.UsedCardIds, card.Id)
	round := s.Round
	guesser := s.CurrentGuesser
	gameId := s.GameId
	limit := s.TimePerRound
	e.armTimerLocked(s, limit, e.fireRoundTimeout)
	s.Mu.Unlock()

	log.Printf("[startRound] room=%s round=%d guesser=%s card=%s limit=%v",
		roomId, round, guesser, card.Id, limit)

	e.dispatch.ToPlayer(guesser, internal.Message[any]{
		Type: "new_round",
		Data: internal.NewRoundData{
			Round:          round,
			Card:           cardViewFor(card, true),
			CurrentGuesser: guesser,
			TimeLimit:      limit.Milliseconds(),
		},
	})
	e.dispatch.ToRoomExcept(roomId, internal.Message[any]{
		Type: "new_round",
		Data: internal.NewRoundData{
			Round:          round,
			Card:           cardViewFor(card, false),
			CurrentGuesser: guesser,
			TimeLimit:      limit.Milliseconds(),
		},
	}, guesser)

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()
		if err := e.history.AddGameCard(pctx, gameId, card.Id, round); err != nil {
			log.Printf("[startRound] room=%s round=%d game card persist failed: %v", roomId, round, err)
		}
	}()
}

// fireRoundTimeout is the timeout transition. The generation check makes the
// loser of a guess/timeout race a no-op: a correct guess cancels the timer
// and bumps the generation before this can re-acquire the lock.
func (e *Engine) fireRoundTimeout(s *internal.GameSession, gen uint64) {
	s.Mu.Lock()
	if !s.Active || gen != s.TimerGen || s.CurrentCard == nil {
		s.Mu.Unlock()
		return
	}
	roomId := s.RoomId
	timedOutRound := s.Round
	answer := s.CurrentCard.Name
	finished := e.advanceRoundLocked(s)
	s.Mu.Unlock()

	log.Printf("[fireRoundTimeout] room=%s round=%d timed out, answer=%q", roomId, timedOutRound, answer)

	e.dispatch.ToRoom(roomId, internal.Message[any]{
		Type: "round_timeout",
		Data: internal.RoundTimeoutData{Round: timedOutRound, CorrectAnswer: answer},
	})

	if finished {
		if err := e.Finalize(s, internal.PhaseFinished, ""); err != nil {
			log.Printf("[fireRoundTimeout] room=%s finalize: %v", roomId, err)
		}
	}
}

// advanceRoundLocked moves the session to the next round boundary: timer
// cancelled, card cleared, round incremented, guesser swapped. When rounds
// remain, the next round is armed after the inter-round delay; otherwise the
// caller must finalize. Callers hold Mu.
func (e *Engine) advanceRoundLocked(s *internal.GameSession) (finished bool) {
	cancelTimerLocked(s)
	s.CurrentCard = nil
	s.Round++
	s.CurrentGuesser = s.Opponent(s.CurrentGuesser)

	if s.Round > s.MaxRounds {
		return true
	}
	e.armTimerLocked(s, e.nextRoundDelay, e.fireNextRound)
	return false
}

// fireNextRound starts the next round once the inter-round delay elapses.
func (e *Engine) fireNextRound(s *internal.GameSession, gen uint64) {
	s.Mu.Lock()
	stale := !s.Active || gen != s.TimerGen
	s.Mu.Unlock()
	if stale {
		return
	}
	e.startRound(context.Background(), s)
}
