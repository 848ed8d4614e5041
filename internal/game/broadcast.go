package game

import (
	"log"

	"github.com/scythe504/guesswho-backend/internal"
)

// =============================================================================
// BROADCAST DISPATCHER
// =============================================================================

// Dispatcher delivers notification intents produced by transitions. Keeping
// delivery behind an interface lets tests assert intents without a live
// transport.
type Dispatcher interface {
	ToRoom(roomId string, msg internal.Message[any])
	ToRoomExcept(roomId string, msg internal.Message[any], exceptId string)
	ToPlayer(playerId string, msg internal.Message[any])
}

// RoomDispatcher fans messages out over the registry's websocket
// connections. Delivery failures are logged and never block the caller;
// in-memory state is authoritative regardless of who heard about it.
type RoomDispatcher struct {
	registry *Registry
}

func NewRoomDispatcher(registry *Registry) *RoomDispatcher {
	return &RoomDispatcher{registry: registry}
}

func (d *RoomDispatcher) ToRoom(roomId string, msg internal.Message[any]) {
	for _, client := range d.registry.RoomClients(roomId) {
		if err := client.SafeWriteJSON(msg); err != nil {
			log.Printf("[Dispatcher.ToRoom] room=%s player=%s type=%s failed: %v",
				roomId, client.Id, msg.Type, err)
		}
	}
}

func (d *RoomDispatcher) ToRoomExcept(roomId string, msg internal.Message[any], exceptId string) {
	for _, client := range d.registry.RoomClients(roomId) {
		if client.Id == exceptId {
			continue
		}
		if err := client.SafeWriteJSON(msg); err != nil {
			log.Printf("[Dispatcher.ToRoomExcept] room=%s player=%s type=%s failed: %v",
				roomId, client.Id, msg.Type, err)
		}
	}
}

func (d *RoomDispatcher) ToPlayer(playerId string, msg internal.Message[any]) {
	client, ok := d.registry.Client(playerId)
	if !ok {
		log.Printf("[Dispatcher.ToPlayer] player=%s not connected, dropping type=%s", playerId, msg.Type)
		return
	}
	if err := client.SafeWriteJSON(msg); err != nil {
		log.Printf("[Dispatcher.ToPlayer] player=%s type=%s failed: %v", playerId, msg.Type, err)
	}
}
