package game

import (
	"context"
	"log"
	"maps"
	"slices"

	"github.com/scythe504/guesswho-backend/internal"
)

// =============================================================================
// SCORE & COMPLETION LEDGER
// =============================================================================

// Finalize runs the terminal transition exactly once per session: timer
// stopped, ranking computed, results persisted, room marked finished, final
// scores broadcast, session evicted. Both the timeout path and the guess
// path call this; the Active flag decides the race under the session lock,
// and the loser gets ErrAlreadyFinalized.
func (e *Engine) Finalize(s *internal.GameSession, phase internal.SessionPhase, reason string) error {
	s.Mu.Lock()
	if !s.Active {
		s.Mu.Unlock()
		return internal.ErrAlreadyFinalized
	}
	s.Active = false
	s.Phase = phase
	cancelTimerLocked(s)

	results := rankResultsLocked(s)
	scores := maps.Clone(s.Scores)
	winner := results[0].PlayerId
	roomId := s.RoomId
	gameId := s.GameId
	s.Mu.Unlock()

	e.store.Remove(roomId)

	log.Printf("[Finalize] room=%s game=%s phase=%s winner=%s scores=%v",
		roomId, gameId, phase, winner, scores)

	e.dispatch.ToRoom(roomId, internal.Message[any]{
		Type: "game_ended",
		Data: internal.GameEndedData{
			FinalScores: scores,
			Results:     results,
			Winner:      winner,
			Reason:      reason,
		},
	})

	status := "finished"
	if phase == internal.PhaseAbandoned {
		status = "abandoned"
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()
		if err := e.history.FinishGame(pctx, gameId, status, results); err != nil {
			log.Printf("[Finalize] room=%s game=%s persisting results failed: %v", roomId, gameId, err)
		}
		if err := e.rooms.MarkFinished(pctx, roomId); err != nil {
			log.Printf("[Finalize] room=%s marking room finished failed: %v", roomId, err)
		}
	}()
	return nil
}

// rankResultsLocked orders the two players by descending score. Ties break
// on enrollment order, creator first, so rankings are deterministic.
// Callers hold Mu.
func rankResultsLocked(s *internal.GameSession) []internal.GameResult {
	results := []internal.GameResult{
		{
			PlayerId:       s.CreatorId,
			Score:          s.Scores[s.CreatorId],
			CorrectGuesses: s.CorrectCounts[s.CreatorId],
			TotalRounds:    s.MaxRounds,
		},
		{
			PlayerId:       s.GuestId,
			Score:          s.Scores[s.GuestId],
			CorrectGuesses: s.CorrectCounts[s.GuestId],
			TotalRounds:    s.MaxRounds,
		},
	}
	slices.SortStableFunc(results, func(a, b internal.GameResult) int {
		return b.Score - a.Score
	})
	for idx := range results {
		results[idx].Position = idx + 1
	}
	return results
}
