package game

import (
	"context"
	"log"
	"maps"
	"math/rand"

	"github.com/scythe504/guesswho-backend/internal"
	"github.com/scythe504/guesswho-backend/internal/utils"
)

// =============================================================================
// TURN & GUESS RESOLVER
// =============================================================================

// Guess applies one guess attempt against the room's session. Only the
// current guesser may guess, and only while a card is in play. An incorrect
// guess changes nothing: no turn change, no score change, and the round
// timer keeps running toward its original deadline.
func (e *Engine) Guess(ctx context.Context, playerId, roomId, text string) error {
	session, ok := e.store.Get(roomId)
	if !ok {
		return internal.ErrSessionNotFound
	}

	session.Mu.Lock()
	if !session.Active {
		session.Mu.Unlock()
		return internal.ErrSessionNotFound
	}
	if !session.IsPlayer(playerId) {
		session.Mu.Unlock()
		return internal.ErrUnauthorized
	}
	if playerId != session.CurrentGuesser {
		session.Mu.Unlock()
		return internal.ErrNotYourTurn
	}
	if session.CurrentCard == nil {
		session.Mu.Unlock()
		return internal.ErrNoActiveRound
	}

	card := session.CurrentCard

	if !utils.SameAnswer(text, card.Name) {
		session.Mu.Unlock()

		log.Printf("[Guess] room=%s player=%s incorrect: %q", roomId, playerId, text)
		e.dispatch.ToRoom(roomId, internal.Message[any]{
			Type: "incorrect_guess",
			Data: internal.IncorrectGuessData{Guesser: playerId, Guess: text},
		})
		return nil
	}

	// Correct guess: this transition owns the round from here. Cancelling
	// the timer inside advanceRoundLocked bumps the generation, so a racing
	// timeout becomes a no-op.
	session.Scores[playerId] += internal.GuessAward
	session.CorrectCounts[playerId]++
	scores := maps.Clone(session.Scores)
	gameId := session.GameId
	guessedRound := session.Round
	finished := e.advanceRoundLocked(session)
	session.Mu.Unlock()

	log.Printf("[Guess] room=%s player=%s CORRECT round=%d card=%s score=%d",
		roomId, playerId, guessedRound, card.Id, scores[playerId])

	e.dispatch.ToRoom(roomId, internal.Message[any]{
		Type: "correct_guess",
		Data: internal.CorrectGuessData{Guesser: playerId, Card: card, Scores: scores},
	})

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()
		if err := e.history.MarkCardGuessed(pctx, gameId, card.Id, playerId); err != nil {
			log.Printf("[Guess] room=%s card=%s mark guessed failed: %v", roomId, card.Id, err)
		}
	}()

	if finished {
		if err := e.Finalize(session, internal.PhaseFinished, ""); err != nil {
			log.Printf("[Guess] room=%s finalize: %v", roomId, err)
		}
	}
	return nil
}

// =============================================================================
// HINT DISPENSER
// =============================================================================

// Hint hands the current guesser one pseudo-random hint for the card in
// play. It consumes nothing: no guess attempt, no timing change.
func (e *Engine) Hint(ctx context.Context, playerId, roomId string) error {
	session, ok := e.store.Get(roomId)
	if !ok {
		return internal.ErrSessionNotFound
	}

	session.Mu.Lock()
	if !session.Active {
		session.Mu.Unlock()
		return internal.ErrSessionNotFound
	}
	if playerId != session.CurrentGuesser {
		session.Mu.Unlock()
		return internal.ErrNotYourTurn
	}
	if session.CurrentCard == nil {
		session.Mu.Unlock()
		return internal.ErrNoActiveRound
	}
	hints := session.CurrentCard.Hints
	session.Mu.Unlock()

	if len(hints) == 0 {
		return internal.ErrContentUnavailable
	}
	hint := hints[rand.Intn(len(hints))]

	log.Printf("[Hint] room=%s player=%s served hint", roomId, playerId)

	e.dispatch.ToPlayer(playerId, internal.Message[any]{
		Type: "hint_received",
		Data: internal.HintReceivedData{Hint: hint},
	})
	return nil
}
