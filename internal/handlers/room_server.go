// internal/handlers/room_server.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cardroom/hearts/internal/game"
)

// RoomServer bundles the room registry for the websocket and HTTP handlers.
type RoomServer struct {
	Store *game.RoomStore
}

// NewRoomServer builds a server with an empty registry.
func NewRoomServer() *RoomServer {
	return &RoomServer{Store: game.NewRoomStore()}
}

// HealthHandler answers liveness probes.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ListRoomsHandler returns a read-only snapshot of every live room.
func ListRoomsHandler(srv *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rooms": srv.Store.Summaries(),
		})
	}
}
