// internal/game/events.go
package game

import "github.com/cardroom/hearts/internal/deck"

// RoomEventType enumerates every outbound event a room can emit.
type RoomEventType string

const (
	EventRosterChanged RoomEventType = "roster_changed"
	EventRoundStarted  RoomEventType = "round_started" // private, one per seat
	EventBoardUpdated  RoomEventType = "board_updated"
	EventHandUpdated   RoomEventType = "hand_updated" // private, acting seat
	EventTrickResolved RoomEventType = "trick_resolved"
	EventTrickFinished RoomEventType = "trick_finished"
	EventBoardCleared  RoomEventType = "board_cleared"
	EventGameOver      RoomEventType = "game_over"
	EventRejected      RoomEventType = "rejected" // private, acting connection
	EventChat          RoomEventType = "chat"
)

// SeatInfo describes one seat in roster payloads.
type SeatInfo struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

// SeatScore pairs a display name with a score for scoreboard payloads.
type SeatScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RoomEvent is the single wire shape for all outbound events. Every field
// except Type is optional so each event carries only its own payload.
type RoomEvent struct {
	Type RoomEventType `json:"type"`

	Seats []SeatInfo   `json:"seats,omitempty"`
	Hand  []deck.Card  `json:"hand,omitempty"`
	Board []PlayedCard `json:"board,omitempty"`

	// TurnIndex is a pointer so board payloads can carry the NoTurn sentinel
	// (-1) while other events omit the field entirely.
	TurnIndex *int `json:"turnIndex,omitempty"`

	Scores []SeatScore `json:"scores,omitempty"`
	Winner *int        `json:"winner,omitempty"`
	Points *int        `json:"points,omitempty"`

	Reason RejectReason `json:"reason,omitempty"`

	// Chat relay fields. The room forwards these verbatim; chat has no
	// game-state coupling beyond reusing the room's broadcast path.
	From string `json:"from,omitempty"`
	Msg  string `json:"msg,omitempty"`
	Ts   int64  `json:"ts,omitempty"`
}

func intPtr(v int) *int {
	return &v
}
