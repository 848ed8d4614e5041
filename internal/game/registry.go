package game

import (
	"log"
	"sync"

	"github.com/scythe504/guesswho-backend/internal"
)

// =============================================================================
// CONNECTION REGISTRY
// =============================================================================

// Registry maps authenticated identities to live connections and tracks
// which room each identity currently occupies. A reconnect replaces the
// previous connection for the same identity.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*internal.Client
	rooms   map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*internal.Client),
		rooms:   make(map[string]string),
	}
}

// Register stores the identity-to-connection mapping for outbound targeting.
// If the identity already had a connection, the old one is closed.
func (r *Registry) Register(client *internal.Client) {
	r.mu.Lock()
	previous := r.clients[client.Id]
	r.clients[client.Id] = client
	r.mu.Unlock()

	if previous != nil && previous.Conn != nil && previous != client {
		log.Printf("[Registry.Register] player=%s replacing stale connection", client.Id)
		previous.Conn.Close()
	}
	log.Printf("[Registry.Register] player=%s (%s) connected", client.Id, client.Username)
}

// Unregister removes the identity mapping and returns the room the player
// occupied, if any, so the caller can trigger a leave transition. A newer
// connection for the same identity is left untouched.
func (r *Registry) Unregister(client *internal.Client) (roomId string, occupied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.clients[client.Id]
	if !ok || current != client {
		return "", false
	}
	delete(r.clients, client.Id)
	roomId, occupied = r.rooms[client.Id]
	delete(r.rooms, client.Id)

	log.Printf("[Registry.Unregister] player=%s disconnected (room=%q)", client.Id, roomId)
	return roomId, occupied
}

func (r *Registry) Client(playerId string) (*internal.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[playerId]
	return client, ok
}

// CurrentRoom reports which room the player currently occupies.
func (r *Registry) CurrentRoom(playerId string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomId, ok := r.rooms[playerId]
	return roomId, ok
}

func (r *Registry) EnterRoom(playerId, roomId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[playerId] = roomId
}

func (r *Registry) LeaveRoom(playerId string) (roomId string, occupied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomId, occupied = r.rooms[playerId]
	delete(r.rooms, playerId)
	return roomId, occupied
}

// RoomClients snapshots the connected occupants of a room. Fan-out iterates
// the snapshot without holding the registry lock.
func (r *Registry) RoomClients(roomId string) []*internal.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*internal.Client, 0, internal.PlayersPerRoom)
	for playerId, occupied := range r.rooms {
		if occupied != roomId {
			continue
		}
		if client, ok := r.clients[playerId]; ok {
			clients = append(clients, client)
		}
	}
	return clients
}
