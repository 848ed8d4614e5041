package game

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/scythe504/guesswho-backend/internal"
	"github.com/scythe504/guesswho-backend/internal/auth"
)

// =============================================================================
// WEBSOCKET GATEWAY
// =============================================================================

// Gateway terminates the bidirectional channel: it authenticates the
// handshake, upgrades the connection and routes inbound commands into the
// engine.
type Gateway struct {
	engine   *Engine
	registry *Registry
	verifier auth.Verifier
	upgrader websocket.Upgrader
}

func NewGateway(engine *Engine, registry *Registry, verifier auth.Verifier) *Gateway {
	return &Gateway{
		engine:   engine,
		registry: registry,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// bearerToken pulls the credential from the Authorization header, falling
// back to a token query param for browser websocket clients that cannot set
// headers.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return token
	}
	return r.URL.Query().Get("token")
}

// HandleWebSocket authenticates, upgrades and hands the connection to the
// read loop. Authentication failure drops the connection before any room
// state is touched.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity, err := g.verifier.Verify(bearerToken(r))
	if err != nil {
		log.Printf("[HandleWebSocket] authentication failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HandleWebSocket] upgrade failed: %v", err)
		return
	}

	client := &internal.Client{
		Id:       identity.UserId,
		Username: identity.Username,
		Conn:     conn,
		JoinedAt: time.Now(),
	}
	g.registry.Register(client)

	go g.readLoop(client)
}

// readLoop processes inbound commands for one connection until it closes.
// Validation errors are recovered locally and surfaced to this connection
// only; they never touch shared session state.
func (g *Gateway) readLoop(client *internal.Client) {
	defer func() {
		client.Conn.Close()
		if roomId, occupied := g.registry.Unregister(client); occupied {
			g.engine.HandleDisconnect(client.Id, roomId)
		}
	}()

	log.Printf("[readLoop] player=%s (%s) message loop started", client.Id, client.Username)

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			log.Printf("[readLoop] player=%s read error: %v", client.Id, err)
			return
		}

		var baseMsg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &baseMsg); err != nil {
			log.Printf("[readLoop] player=%s malformed message: %v", client.Id, err)
			g.sendError(client, errors.New("malformed message"))
			continue
		}

		ctx := context.Background()

		switch baseMsg.Type {
		case "join_room":
			var data internal.JoinRoomData
			if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
				g.sendError(client, errors.New("malformed join_room payload"))
				continue
			}
			if err := g.engine.JoinRoom(ctx, client, data.RoomId); err != nil {
				g.sendError(client, err)
			}

		case "leave_room":
			g.engine.LeaveRoom(client.Id)

		case "start_game":
			var data internal.StartGameData
			if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
				g.sendError(client, errors.New("malformed start_game payload"))
				continue
			}
			if err := g.engine.StartGame(ctx, client.Id, data.RoomId); err != nil {
				g.sendError(client, err)
			}

		case "make_guess":
			var data internal.GuessData
			if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
				g.sendError(client, errors.New("malformed make_guess payload"))
				continue
			}
			if err := g.engine.Guess(ctx, client.Id, data.RoomId, data.Guess); err != nil {
				g.sendError(client, err)
			}

		case "request_hint":
			var data internal.HintRequestData
			if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
				g.sendError(client, errors.New("malformed request_hint payload"))
				continue
			}
			if err := g.engine.Hint(ctx, client.Id, data.RoomId); err != nil {
				g.sendError(client, err)
			}

		default:
			log.Printf("[readLoop] player=%s unknown message type %q", client.Id, baseMsg.Type)
		}
	}
}

// sendError surfaces a non-fatal validation error to the offending
// connection only.
func (g *Gateway) sendError(client *internal.Client, err error) {
	msg := internal.Message[any]{
		Type: "error",
		Data: internal.ErrorData{Message: ErrorMessage(err)},
	}
	if writeErr := client.SafeWriteJSON(msg); writeErr != nil {
		log.Printf("[sendError] player=%s delivery failed: %v", client.Id, writeErr)
	}
}

// ErrorMessage maps engine errors to the user-facing texts the client shows.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, internal.ErrNotYourTurn):
		return "Not your turn to guess"
	case errors.Is(err, internal.ErrNoActiveRound):
		return "No round is currently active"
	case errors.Is(err, internal.ErrSessionNotFound):
		return "No active game for this room"
	case errors.Is(err, internal.ErrConflict):
		return "A game is already running in this room"
	case errors.Is(err, internal.ErrContentUnavailable):
		return "No content available"
	case errors.Is(err, internal.ErrNotFound):
		return "Room not found"
	case errors.Is(err, internal.ErrUnauthorized):
		return "Not allowed"
	case errors.Is(err, internal.ErrInvalidState):
		return "That action is not allowed right now"
	default:
		return "Something went wrong"
	}
}
