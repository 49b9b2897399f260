// internal/game/room.go
package game

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/cardroom/hearts/internal/cache"
	"github.com/cardroom/hearts/internal/deck"
	"github.com/cardroom/hearts/internal/metrics"
)

// RoomStatus is the lifecycle state of a room. No transition leaves FINISHED;
// a new game requires a new room.
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "WAITING"
	StatusPlaying  RoomStatus = "PLAYING"
	StatusFinished RoomStatus = "FINISHED"
)

// NoTurn is the TurnIndex sentinel used while a resolved trick sits on the
// board. No play is accepted during that window.
const NoTurn = -1

const (
	maxSeats       = 4
	tricksPerRound = 13
	// moonPoints is every hard point in a round: 13 hearts + the queen.
	moonPoints = 26
)

// Seat is one player position. The seats slice order is fixed at join time
// and defines the turn rotation; seats are detached on disconnect, never
// spliced, so the rotation survives mid-round departures.
type Seat struct {
	ID        uuid.UUID       `json:"-"`
	Name      string          `json:"name"`
	Hand      []deck.Card     `json:"-"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	Score       int `json:"score"`
	RoundPoints int `json:"-"`

	// hardPoints counts only hearts and the queen of spades this round, so
	// a moon shot is detected independently of the omnibus jack bonus.
	hardPoints int
}

// PlayedCard pairs a card on the board with the seat that played it.
type PlayedCard struct {
	SeatIndex int       `json:"seatIndex"`
	Card      deck.Card `json:"card"`
}

// Room owns the entire state of one Hearts game. Every mutating operation is
// serialized under Mu; the room behaves as a single-writer state machine and
// never performs I/O itself. Events leave through the injected broadcast
// functions and delivery is the gateway's concern.
type Room struct {
	Code  string
	Seats []*Seat

	Status       RoomStatus
	Board        []PlayedCard
	TurnIndex    int
	HeartsBroken bool
	TrickCount   int

	Rules RoomRules

	Mu sync.Mutex

	// BroadcastFn sends an event to every connected seat; BroadcastToSeatFn
	// to a single seat. Both are invoked with the room lock held and must not
	// block. Nil means the event is dropped.
	BroadcastFn       func(ev RoomEvent)
	BroadcastToSeatFn func(seatIndex int, ev RoomEvent)

	// OnEmpty is invoked (outside the lock) once no seat is connected,
	// typically wired by the store to remove the room.
	OnEmpty func(code string)

	rng        *rand.Rand
	trickTimer *time.Timer

	// roundSeq increments on every deal so a stale trick timer from an
	// earlier round recognizes itself and bails out.
	roundSeq    int
	resolving   bool
	actionIndex int
}

// NewRoom builds an empty room in WAITING with a time-seeded random source.
func NewRoom(code string) *Room {
	return &Room{
		Code:      code,
		Status:    StatusWaiting,
		TurnIndex: NoTurn,
		Rules:     DefaultRules(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Join seats a new display name, or rebinds an existing seat's identity on a
// name match (reconnection) without touching its hand or scores. A rebind is
// refused with NameTaken only when a different identity still holds a live
// connection on a WAITING table; once the game runs, the latest join always
// wins so a half-dead socket cannot lock a player out.
func (r *Room) Join(id uuid.UUID, name string, conn *websocket.Conn) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	for i, s := range r.Seats {
		if s.Name != name {
			continue
		}
		if r.Status == StatusWaiting && s.Connected && s.ID != id {
			return reject(ReasonNameTaken)
		}
		s.ID = id
		s.Conn = conn
		s.Connected = true
		log.Printf("Room %s: %q reconnected.", r.Code, name)
		r.logAction(id, "player_rejoin", map[string]interface{}{"name": name})
		r.emitRoster()
		if r.Status == StatusPlaying {
			r.resyncSeat(i)
		}
		return nil
	}

	if len(r.Seats) >= maxSeats || r.Status != StatusWaiting {
		return reject(ReasonRoomFull)
	}

	r.Seats = append(r.Seats, &Seat{ID: id, Name: name, Conn: conn, Connected: true})
	log.Printf("Room %s: %q joined (seat %d).", r.Code, name, len(r.Seats)-1)
	r.logAction(id, "player_join", map[string]interface{}{"name": name})
	r.emitRoster()
	return nil
}

// Start deals the first round. Callable only in WAITING with a full table.
func (r *Room) Start() error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Status == StatusFinished {
		return reject(ReasonGameFinished)
	}
	if r.Status != StatusWaiting || len(r.Seats) != maxSeats {
		return reject(ReasonRoomNotReady)
	}

	r.Status = StatusPlaying
	log.Printf("Room %s: game started.", r.Code)
	metrics.GamesStarted.Inc()
	r.deal()
	return nil
}

// UpdateRules applies a partial rules patch. Allowed only before the first
// deal so scoring cannot change under a game in flight.
func (r *Room) UpdateRules(patch map[string]interface{}) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Status != StatusWaiting {
		return reject(ReasonRoomNotReady)
	}
	return r.Rules.Update(patch)
}

// PlayCard validates and applies one play for the seat at seatIndex. A
// rejected play returns its Violation and leaves the room untouched; the
// gateway delivers the reason privately.
func (r *Room) PlayCard(seatIndex int, card deck.Card) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Status == StatusFinished {
		return reject(ReasonGameFinished)
	}
	if r.Status != StatusPlaying {
		return reject(ReasonRoomNotReady)
	}
	// TurnIndex is NoTurn while a trick is resolving, so this also rejects
	// every play during the presentation delay.
	if seatIndex < 0 || seatIndex >= len(r.Seats) || seatIndex != r.TurnIndex {
		metrics.RejectedPlays.Inc()
		return reject(ReasonNotYourTurn)
	}

	seat := r.Seats[seatIndex]

	var leadSuit deck.Suit
	if len(r.Board) > 0 {
		leadSuit = r.Board[0].Card.Suit
	}

	if err := ValidatePlay(seat.Hand, card, leadSuit, r.HeartsBroken, r.TrickCount == 0); err != nil {
		metrics.RejectedPlays.Inc()
		return err
	}

	seat.Hand = removeCard(seat.Hand, card)
	r.Board = append(r.Board, PlayedCard{SeatIndex: seatIndex, Card: card})
	if card.Suit == deck.Hearts {
		r.HeartsBroken = true
	}
	r.logAction(seat.ID, "play_card", map[string]interface{}{"card": card.String()})

	var res TrickResult
	full := len(r.Board) == maxSeats
	if full {
		res = ResolveTrick(r.Board, r.Rules)
		winner := r.Seats[res.WinnerSeat]
		winner.RoundPoints += res.Points
		winner.hardPoints += res.HardPoints
		r.TurnIndex = NoTurn
		r.resolving = true
	} else {
		r.TurnIndex = (r.TurnIndex + 1) % maxSeats
	}

	r.emit(RoomEvent{Type: EventBoardUpdated, Board: r.Board, TurnIndex: intPtr(r.TurnIndex)})
	r.emitToSeat(seatIndex, RoomEvent{Type: EventHandUpdated, Hand: seat.Hand})

	if full {
		metrics.TricksResolved.Inc()
		r.logAction(r.Seats[res.WinnerSeat].ID, "trick_resolved", map[string]interface{}{
			"winner": res.WinnerSeat,
			"points": res.Points,
		})
		r.emit(RoomEvent{
			Type:   EventTrickResolved,
			Board:  r.Board,
			Scores: r.runningScores(),
			Winner: intPtr(res.WinnerSeat),
			Points: intPtr(res.Points),
		})
		r.scheduleTrickClear(res.WinnerSeat)
	}
	return nil
}

// scheduleTrickClear arms the deferred continuation that clears a resolved
// trick after the presentation delay. Assumes lock is held. The callback
// re-enters the state machine under the lock and ignores itself if the round
// has moved on (teardown, re-deal) since it was armed.
func (r *Room) scheduleTrickClear(winnerSeat int) {
	seq := r.roundSeq
	r.trickTimer = time.AfterFunc(r.Rules.TrickDelay, func() {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		if r.roundSeq != seq || !r.resolving || r.Status != StatusPlaying {
			log.Printf("Room %s: stale trick timer fired. Ignoring.", r.Code)
			return
		}
		r.finishTrick(winnerSeat)
	})
}

// finishTrick clears a resolved trick and either continues the round or runs
// settlement after the thirteenth. Assumes lock is held.
func (r *Room) finishTrick(winnerSeat int) {
	r.Board = nil
	r.resolving = false
	r.TurnIndex = winnerSeat
	r.TrickCount++

	if r.TrickCount == tricksPerRound {
		r.settleRound()
		return
	}

	r.emit(RoomEvent{Type: EventTrickFinished, Scores: r.runningScores()})
	r.emit(RoomEvent{Type: EventBoardCleared, Board: []PlayedCard{}, TurnIndex: intPtr(r.TurnIndex)})
}

// settleRound folds round points into totals, applying the shoot-the-moon
// inversion, then finishes the game or deals the next round. Assumes lock is
// held.
func (r *Room) settleRound() {
	shooter := -1
	for i, s := range r.Seats {
		if s.hardPoints == moonPoints {
			shooter = i
			break
		}
	}

	for i, s := range r.Seats {
		if shooter >= 0 {
			// The omnibus jack adjustment stays with whoever captured it;
			// only the 26 hard points are inverted.
			s.Score += s.RoundPoints - s.hardPoints
			if i != shooter {
				s.Score += moonPoints
			}
		} else {
			s.Score += s.RoundPoints
		}
	}
	r.logAction(uuid.Nil, "round_settled", map[string]interface{}{"shooter": shooter})
	if shooter >= 0 {
		log.Printf("Room %s: %q shot the moon.", r.Code, r.Seats[shooter].Name)
	}

	for _, s := range r.Seats {
		if s.Score >= r.Rules.TargetScore {
			r.Status = StatusFinished
			r.TurnIndex = NoTurn
			log.Printf("Room %s: game over.", r.Code)
			metrics.GamesFinished.Inc()
			r.logAction(uuid.Nil, "game_over", nil)
			r.emit(RoomEvent{Type: EventGameOver, Scores: r.finalScores()})
			return
		}
	}

	r.deal()
}

// deal shuffles a fresh deck, hands out thirteen cards per seat round-robin
// from seat 0, resets per-round state and points the turn at the holder of
// the two of clubs. Emits the per-seat round_started events and a room-wide
// board_cleared. Assumes lock is held.
func (r *Room) deal() {
	cards := deck.New()
	deck.Shuffle(r.rng, cards)

	for i, s := range r.Seats {
		hand := make([]deck.Card, 0, tricksPerRound)
		for pos := i; pos < len(cards); pos += maxSeats {
			hand = append(hand, cards[pos])
		}
		deck.SortHand(hand)
		s.Hand = hand
		s.RoundPoints = 0
		s.hardPoints = 0
	}

	r.Board = nil
	r.HeartsBroken = false
	r.TrickCount = 0
	r.resolving = false
	r.roundSeq++

	for i, s := range r.Seats {
		if containsCard(s.Hand, deck.TwoOfClubs) {
			r.TurnIndex = i
			break
		}
	}

	metrics.RoundsDealt.Inc()
	r.logAction(uuid.Nil, "round_start", map[string]interface{}{"leader": r.TurnIndex})

	totals := r.totalScores()
	for i, s := range r.Seats {
		r.emitToSeat(i, RoomEvent{
			Type:      EventRoundStarted,
			Hand:      s.Hand,
			TurnIndex: intPtr(r.TurnIndex),
			Scores:    totals,
		})
	}
	r.emit(RoomEvent{Type: EventBoardCleared, Board: []PlayedCard{}, TurnIndex: intPtr(r.TurnIndex)})
}

// Chat relays a message to the whole room. Stateless: no game-state coupling
// beyond reusing the room's broadcast path.
func (r *Room) Chat(id uuid.UUID, msg string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	for _, s := range r.Seats {
		if s.ID == id {
			r.emit(RoomEvent{Type: EventChat, From: s.Name, Msg: msg, Ts: time.Now().Unix()})
			return
		}
	}
}

// HandleDisconnect detaches the identity from its seat but keeps the seat,
// its hand and its scores, so the four-seat rotation survives and the same
// display name can reclaim it. Once no seat is connected the room reports
// itself empty via OnEmpty.
func (r *Room) HandleDisconnect(id uuid.UUID) {
	r.Mu.Lock()

	found := false
	for _, s := range r.Seats {
		if s.ID == id && s.Connected {
			s.Connected = false
			s.Conn = nil
			found = true
			log.Printf("Room %s: %q disconnected.", r.Code, s.Name)
			r.logAction(id, "player_disconnect", nil)
			break
		}
	}
	if !found {
		r.Mu.Unlock()
		return
	}

	r.emitRoster()

	empty := true
	for _, s := range r.Seats {
		if s.Connected {
			empty = false
			break
		}
	}
	if empty && r.trickTimer != nil {
		r.trickTimer.Stop()
	}
	onEmpty := r.OnEmpty
	r.Mu.Unlock()

	if empty && onEmpty != nil {
		log.Printf("Room %s is empty. Tearing down.", r.Code)
		onEmpty(r.Code)
	}
}

// SeatIndexOf returns the seat currently bound to id, or -1.
func (r *Room) SeatIndexOf(id uuid.UUID) int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	for i, s := range r.Seats {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// ConnsUnsafe returns the connections of every connected seat. Assumes lock
// is held; used by the gateway's broadcast adapters.
func (r *Room) ConnsUnsafe() []*websocket.Conn {
	conns := make([]*websocket.Conn, 0, len(r.Seats))
	for _, s := range r.Seats {
		if s.Connected && s.Conn != nil {
			conns = append(conns, s.Conn)
		}
	}
	return conns
}

// ConnUnsafe returns seatIndex's connection, or nil. Assumes lock is held.
func (r *Room) ConnUnsafe(seatIndex int) *websocket.Conn {
	if seatIndex < 0 || seatIndex >= len(r.Seats) {
		return nil
	}
	s := r.Seats[seatIndex]
	if !s.Connected {
		return nil
	}
	return s.Conn
}

// resyncSeat replays the private round snapshot to a reconnected seat so the
// client can redraw mid-round. Assumes lock is held.
func (r *Room) resyncSeat(seatIndex int) {
	r.emitToSeat(seatIndex, RoomEvent{
		Type:      EventRoundStarted,
		Hand:      r.Seats[seatIndex].Hand,
		TurnIndex: intPtr(r.TurnIndex),
		Scores:    r.runningScores(),
	})
	r.emitToSeat(seatIndex, RoomEvent{
		Type:      EventBoardUpdated,
		Board:     r.Board,
		TurnIndex: intPtr(r.TurnIndex),
	})
}

// emit broadcasts to every connected seat. Assumes lock is held.
func (r *Room) emit(ev RoomEvent) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// emitToSeat sends an event to a single seat. Assumes lock is held.
func (r *Room) emitToSeat(seatIndex int, ev RoomEvent) {
	if r.BroadcastToSeatFn != nil {
		r.BroadcastToSeatFn(seatIndex, ev)
	}
}

func (r *Room) emitRoster() {
	seats := make([]SeatInfo, len(r.Seats))
	for i, s := range r.Seats {
		seats[i] = SeatInfo{Name: s.Name, Score: s.Score, Connected: s.Connected}
	}
	r.emit(RoomEvent{Type: EventRosterChanged, Seats: seats})
}

// totalScores reports committed totals only, used at round start.
func (r *Room) totalScores() []SeatScore {
	out := make([]SeatScore, len(r.Seats))
	for i, s := range r.Seats {
		out[i] = SeatScore{Name: s.Name, Score: s.Score}
	}
	return out
}

// runningScores folds uncommitted round points in, which is what clients
// show between tricks.
func (r *Room) runningScores() []SeatScore {
	out := make([]SeatScore, len(r.Seats))
	for i, s := range r.Seats {
		out[i] = SeatScore{Name: s.Name, Score: s.Score + s.RoundPoints}
	}
	return out
}

// finalScores returns totals sorted ascending; the lowest total wins Hearts.
func (r *Room) finalScores() []SeatScore {
	out := r.totalScores()
	sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// logAction pushes an action record onto the historian queue if Redis is
// connected. Fire-and-forget; never blocks game logic. Assumes lock is held.
func (r *Room) logAction(actor uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	rec := cache.RoomActionRecord{
		RoomCode:    r.Code,
		ActionIndex: r.actionIndex,
		ActorID:     actor,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil && err != cache.ErrNotConnected {
			log.Printf("Room %s: failed to publish action record: %v", r.Code, err)
		}
	}()
}
