package game

import (
	"context"
	"fmt"
	"log"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/scythe504/guesswho-backend/internal"
)

// =============================================================================
// GAME ENGINE
// =============================================================================

// CardPicker selects content for a round. Implementations must honor the
// category/difficulty filters and never return a card whose id is in exclude.
// Returns internal.ErrContentUnavailable when nothing matches.
type CardPicker interface {
	RandomCard(ctx context.Context, category, difficulty string, exclude []string) (*internal.Card, error)
}

// RoomService is the engine's view of the external room collaborator.
type RoomService interface {
	Room(ctx context.Context, roomId string) (*internal.RoomInfo, error)
	MarkFinished(ctx context.Context, roomId string) error
}

// GameWriter persists game history. All calls are fire-and-forget relative
// to in-memory state: a failure is logged and never rolls a transition back.
type GameWriter interface {
	CreateGame(ctx context.Context, gameId, roomId string, maxRounds int, timePerRound time.Duration) error
	AddGameCard(ctx context.Context, gameId, cardId string, round int) error
	MarkCardGuessed(ctx context.Context, gameId, cardId, playerId string) error
	FinishGame(ctx context.Context, gameId, status string, results []internal.GameResult) error
}

// Engine wires the session store, round scheduler, guess resolver and ledger
// together behind the command surface the gateway calls into.
type Engine struct {
	store    *SessionStore
	registry *Registry
	cards    CardPicker
	rooms    RoomService
	history  GameWriter
	dispatch Dispatcher

	nextRoundDelay time.Duration
	persistTimeout time.Duration
}

func NewEngine(store *SessionStore, registry *Registry, cards CardPicker, rooms RoomService, history GameWriter, dispatch Dispatcher) *Engine {
	return &Engine{
		store:          store,
		registry:       registry,
		cards:          cards,
		rooms:          rooms,
		history:        history,
		dispatch:       dispatch,
		nextRoundDelay: internal.NextRoundDelay,
		persistTimeout: 10 * time.Second,
	}
}

// JoinRoom places an authenticated player into a room after a membership
// check. A player already occupying another room leaves it first. Late
// joiners with a game in flight get a game_state replay.
func (e *Engine) JoinRoom(ctx context.Context, client *internal.Client, roomId string) error {
	room, err := e.rooms.Room(ctx, roomId)
	if err != nil {
		return err
	}
	if client.Id != room.CreatorId && client.Id != room.GuestId {
		return fmt.Errorf("%w: not a member of room %s", internal.ErrUnauthorized, roomId)
	}

	if previous, ok := e.registry.CurrentRoom(client.Id); ok && previous != roomId {
		e.LeaveRoom(client.Id)
	}
	e.registry.EnterRoom(client.Id, roomId)

	log.Printf("[JoinRoom] room=%s player=%s (%s) joined", roomId, client.Id, client.Username)

	e.dispatch.ToRoomExcept(roomId, internal.Message[any]{
		Type: "user_joined",
		Data: internal.UserJoinedData{RoomId: roomId, PlayerId: client.Id, Username: client.Username},
	}, client.Id)

	e.dispatch.ToPlayer(client.Id, internal.Message[any]{
		Type: "joined_room",
		Data: internal.JoinedRoomData{
			RoomId:      roomId,
			PlayerId:    client.Id,
			PlayerCount: len(e.registry.RoomClients(roomId)),
		},
	})

	if session, ok := e.store.Get(roomId); ok {
		session.Mu.Lock()
		state := stateForLocked(session, client.Id)
		session.Mu.Unlock()
		e.dispatch.ToPlayer(client.Id, internal.Message[any]{Type: "game_state", Data: state})
	}
	return nil
}

// LeaveRoom removes the player from their current room and runs the leave
// transition. Safe to call for a player not in any room.
func (e *Engine) LeaveRoom(playerId string) {
	roomId, ok := e.registry.LeaveRoom(playerId)
	if !ok {
		return
	}
	e.leaveTransition(playerId, roomId)
}

// HandleDisconnect runs the leave transition after the registry has already
// dropped the connection. Notification delivery is best effort; cleanup of
// session state never blocks on it.
func (e *Engine) HandleDisconnect(playerId, roomId string) {
	e.leaveTransition(playerId, roomId)
}

func (e *Engine) leaveTransition(playerId, roomId string) {
	log.Printf("[leaveTransition] room=%s player=%s left", roomId, playerId)

	e.dispatch.ToRoomExcept(roomId, internal.Message[any]{
		Type: "user_left",
		Data: internal.UserLeftData{RoomId: roomId, PlayerId: playerId},
	}, playerId)

	session, ok := e.store.Get(roomId)
	if !ok {
		return
	}

	// Only the creator leaving abandons the game. A guest disconnect pauses
	// no clocks; the round timer keeps running so they can reconnect and
	// still act before timeout.
	session.Mu.Lock()
	creatorLeft := session.Active && playerId == session.CreatorId
	session.Mu.Unlock()

	if creatorLeft {
		if err := e.Finalize(session, internal.PhaseAbandoned, "creator left the room"); err != nil {
			log.Printf("[leaveTransition] room=%s finalize after creator left: %v", roomId, err)
		}
	}
}

// StartGame creates the session for a room and kicks off round 1. Only the
// room creator may start, and the room must hold exactly two distinct
// enrolled players.
func (e *Engine) StartGame(ctx context.Context, playerId, roomId string) error {
	room, err := e.rooms.Room(ctx, roomId)
	if err != nil {
		return err
	}
	if room.Status == "finished" {
		return fmt.Errorf("%w: room %s is finished", internal.ErrInvalidState, roomId)
	}
	if playerId != room.CreatorId {
		return fmt.Errorf("%w: only the room creator can start the game", internal.ErrInvalidState)
	}
	if room.GuestId == "" || room.GuestId == room.CreatorId {
		return fmt.Errorf("%w: room needs two players to start", internal.ErrInvalidState)
	}

	session, err := e.store.Create(roomId, room.CreatorId, room.GuestId, room.MaxRounds, room.TimePerRound)
	if err != nil {
		return err
	}

	session.Mu.Lock()
	session.GameId = uuid.NewString()
	session.Category = room.Category
	session.Difficulty = room.Difficulty
	gameId := session.GameId
	maxRounds := session.MaxRounds
	timePerRound := session.TimePerRound
	state := stateForLocked(session, "")
	session.Mu.Unlock()

	log.Printf("[StartGame] room=%s game=%s creator=%s guest=%s", roomId, gameId, room.CreatorId, room.GuestId)

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()
		if err := e.history.CreateGame(pctx, gameId, roomId, maxRounds, timePerRound); err != nil {
			log.Printf("[StartGame] room=%s game=%s persist failed: %v", roomId, gameId, err)
		}
	}()

	e.dispatch.ToRoom(roomId, internal.Message[any]{
		Type: "game_started",
		Data: internal.GameStartedData{GameId: gameId, GameState: state},
	})

	e.startRound(ctx, session)
	return nil
}

// stateForLocked builds a game_state snapshot as seen by viewerId: the card
// name is hidden when the viewer is the current guesser. Callers hold Mu.
func stateForLocked(s *internal.GameSession, viewerId string) internal.GameStateData {
	state := internal.GameStateData{
		RoomId:         s.RoomId,
		Phase:          s.Phase,
		Round:          s.Round,
		MaxRounds:      s.MaxRounds,
		CurrentGuesser: s.CurrentGuesser,
		Scores:         maps.Clone(s.Scores),
		TimeRemaining:  s.TimeRemaining().Milliseconds(),
	}
	if s.CurrentCard != nil {
		state.Card = cardViewFor(s.CurrentCard, viewerId == s.CurrentGuesser)
	}
	return state
}

// cardViewFor projects a card for one recipient, hiding the canonical name
// from the guesser.
func cardViewFor(card *internal.Card, hideName bool) *internal.CardView {
	view := &internal.CardView{
		Id:         card.Id,
		Difficulty: card.Difficulty,
		Category:   card.Category,
		HintCount:  len(card.Hints),
	}
	if !hideName {
		view.Name = card.Name
	}
	return view
}
