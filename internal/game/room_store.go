// internal/game/room_store.go
package game

import (
	"sort"
	"strings"
	"sync"

	"github.com/cardroom/hearts/internal/metrics"
)

// RoomStore maps normalized room codes to live rooms. Rooms are created on
// first join and remove themselves through OnEmpty once the last connection
// drops.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room

	// Defaults seeds the rules of every room the store creates.
	Defaults RoomRules
}

// NewRoomStore returns an in-memory registry with canonical default rules.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms:    make(map[string]*Room),
		Defaults: DefaultRules(),
	}
}

// NormalizeCode collapses a room code to its canonical form so "fam" and
// "FAM" address the same room.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetOrCreate returns the room for code, creating it on first sight.
func (s *RoomStore) GetOrCreate(code string) *Room {
	code = NormalizeCode(code)
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[code]; ok {
		return room
	}
	room := NewRoom(code)
	room.Rules = s.Defaults
	room.OnEmpty = func(c string) { s.Delete(c) }
	s.rooms[code] = room
	metrics.ActiveRooms.Inc()
	return room
}

// Get retrieves a room if it exists.
func (s *RoomStore) Get(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[NormalizeCode(code)]
	return room, ok
}

// Delete removes a room from the registry.
func (s *RoomStore) Delete(code string) {
	code = NormalizeCode(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		delete(s.rooms, code)
		metrics.ActiveRooms.Dec()
	}
}

// Len reports how many rooms are live.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Summary is a read-only snapshot of one room for the listing endpoint.
type Summary struct {
	Code   string     `json:"code"`
	Status RoomStatus `json:"status"`
	Seats  int        `json:"seats"`
}

// Summaries snapshots every live room, sorted by code.
func (s *RoomStore) Summaries() []Summary {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	out := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		r.Mu.Lock()
		out = append(out, Summary{Code: r.Code, Status: r.Status, Seats: len(r.Seats)})
		r.Mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
