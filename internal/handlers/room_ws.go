// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cardroom/hearts/internal/deck"
	"github.com/cardroom/hearts/internal/game"
)

// ClientMessage is the inbound wire shape for room websocket messages.
type ClientMessage struct {
	Type string `json:"type"`

	// Seat and Card accompany "play".
	Seat int        `json:"seat"`
	Card *deck.Card `json:"card,omitempty"`

	// Rules accompanies "rules" (pre-start configuration patch).
	Rules map[string]interface{} `json:"rules,omitempty"`

	// Msg accompanies "chat".
	Msg string `json:"msg,omitempty"`
}

// RoomWSHandler upgrades the HTTP connection to WebSocket for a room, joins
// the caller under the display name given in the query, registers the room's
// broadcast adapters, and runs the read loop until the socket drops.
func RoomWSHandler(logger *logrus.Logger, srv *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/ws/")
		if i := strings.Index(code, "/"); i >= 0 {
			code = code[:i]
		}
		if strings.TrimSpace(code) == "" {
			http.Error(w, "missing room code in path (/ws/{code})", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			http.Error(w, "missing name query parameter", http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"hearts"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for room %s: %v", code, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "hearts" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the hearts subprotocol")
			return
		}

		// Session identity is ephemeral; the display name is the reconnection key.
		identity := uuid.New()
		room := srv.Store.GetOrCreate(code)

		room.Mu.Lock()
		if room.BroadcastFn == nil {
			room.BroadcastFn = createBroadcastFunc(room, logger)
		}
		if room.BroadcastToSeatFn == nil {
			room.BroadcastToSeatFn = createBroadcastToSeatFunc(room, logger)
		}
		room.Mu.Unlock()

		if err := room.Join(identity, name, c); err != nil {
			reason := game.ReasonOf(err)
			logger.Infof("Join refused for %q in room %s: %s", name, room.Code, reason)
			sendWsMessage(c, game.RoomEvent{Type: game.EventRejected, Reason: reason})
			c.Close(websocket.StatusPolicyViolation, string(reason))
			return
		}
		logger.Infof("%q joined room %s from %s", name, room.Code, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readRoomMessages(ctx, c, room, identity, logger)

		logger.Infof("%q read loop exited for room %s", name, room.Code)
		room.HandleDisconnect(identity)
	}
}

// createBroadcastFunc returns a function suitable for Room.BroadcastFn. It is
// invoked with the room lock held: it snapshots the connected sockets, then
// hands the writes to a goroutine so game logic never blocks on a socket.
func createBroadcastFunc(room *game.Room, logger *logrus.Logger) func(ev game.RoomEvent) {
	return func(ev game.RoomEvent) {
		conns := room.ConnsUnsafe()
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal %s event for room %s: %v", ev.Type, room.Code, err)
			return
		}
		go func() {
			for _, conn := range conns {
				writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := conn.Write(writeCtx, websocket.MessageText, data)
				cancel()
				if err != nil {
					logger.Warnf("Failed to write %s event in room %s: %v", ev.Type, room.Code, err)
				}
			}
		}()
	}
}

// createBroadcastToSeatFunc returns a function suitable for
// Room.BroadcastToSeatFn. Same locking contract as createBroadcastFunc.
func createBroadcastToSeatFunc(room *game.Room, logger *logrus.Logger) func(seatIndex int, ev game.RoomEvent) {
	return func(seatIndex int, ev game.RoomEvent) {
		conn := room.ConnUnsafe(seatIndex)
		if conn == nil {
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal private %s event for room %s: %v", ev.Type, room.Code, err)
			return
		}
		go func() {
			writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
				logger.Warnf("Failed to write private %s event in room %s: %v", ev.Type, room.Code, err)
			}
		}()
	}
}

// readRoomMessages continuously reads client messages, translates them into
// room method calls and reports rejections privately. Exits on socket error
// or context cancellation; the caller handles disconnect cleanup.
func readRoomMessages(ctx context.Context, c *websocket.Conn, room *game.Room, identity uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally in room %s.", room.Code)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled in room %s.", room.Code)
			} else {
				logger.Warnf("Read error in room %s: %v (status: %d)", room.Code, err, status)
			}
			return
		}

		if msgType != websocket.MessageText {
			logger.Warnf("Ignoring non-text message type %d in room %s.", msgType, room.Code)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON in room %s: %v", room.Code, err)
			sendWsError(c, "Invalid JSON format.")
			continue
		}

		logger.Debugf("Received %q in room %s.", msg.Type, room.Code)

		switch msg.Type {
		case "start":
			if err := room.Start(); err != nil {
				rejectTo(c, err)
			}
		case "play":
			if msg.Card == nil {
				sendWsError(c, "play requires a card.")
				continue
			}
			// A connection may only act for its own seat.
			if room.SeatIndexOf(identity) != msg.Seat {
				rejectTo(c, &game.Violation{Reason: game.ReasonNotYourTurn})
				continue
			}
			if err := room.PlayCard(msg.Seat, *msg.Card); err != nil {
				rejectTo(c, err)
			}
		case "rules":
			if err := room.UpdateRules(msg.Rules); err != nil {
				if reason := game.ReasonOf(err); reason != "" {
					rejectTo(c, err)
				} else {
					sendWsError(c, err.Error())
				}
			}
		case "chat":
			room.Chat(identity, msg.Msg)
		case "ping":
			sendWsMessage(c, map[string]string{"type": "pong"})
		default:
			sendWsError(c, fmt.Sprintf("Unknown message type: %s", msg.Type))
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// rejectTo reports a refused operation privately to the acting connection.
func rejectTo(c *websocket.Conn, err error) {
	reason := game.ReasonOf(err)
	if reason == "" {
		sendWsError(c, err.Error())
		return
	}
	sendWsMessage(c, game.RoomEvent{Type: game.EventRejected, Reason: reason})
}

// sendWsMessage marshals a message and writes it with a timeout.
func sendWsMessage(c *websocket.Conn, message interface{}) {
	if c == nil {
		log.Println("Error: attempted to send WebSocket message on nil connection.")
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(writeCtx, websocket.MessageText, data); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			log.Printf("Error writing WebSocket message: %v (status: %d)", err, status)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(c *websocket.Conn, errorMsg string) {
	sendWsMessage(c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
