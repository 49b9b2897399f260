// internal/game/rules.go
package game

import (
	"fmt"
	"time"

	"github.com/cardroom/hearts/internal/deck"
)

// ValidatePlay applies the Hearts legality rules in order and returns nil for
// a legal card or a *Violation naming the first rule broken. leadSuit is ""
// when the seat is leading the trick. The function is pure: it never mutates
// the hand and the same inputs always yield the same verdict.
func ValidatePlay(hand []deck.Card, card deck.Card, leadSuit deck.Suit, heartsBroken, firstTrick bool) error {
	if !containsCard(hand, card) {
		return reject(ReasonNotInHand)
	}

	leading := leadSuit == ""

	// The very first card of a round must be the two of clubs.
	if firstTrick && leading {
		if card != deck.TwoOfClubs {
			return reject(ReasonMustLeadTwoOfClubs)
		}
		return nil
	}

	if !leading && card.Suit != leadSuit && hasSuit(hand, leadSuit) {
		return reject(ReasonMustFollowSuit)
	}

	if leading && card.Suit == deck.Hearts && !heartsBroken && !allHearts(hand) {
		return reject(ReasonHeartsNotBroken)
	}

	// No dumping points while discarding off-suit on the opening trick,
	// unless the hand holds nothing but point cards.
	if firstTrick && card.IsPoint() && !leading && card.Suit != leadSuit && !allPoints(hand) {
		return reject(ReasonNoPointsOnFirstTrick)
	}

	return nil
}

// TrickResult reports the outcome of one completed trick. Points is the net
// score credited to the winner; HardPoints counts only hearts and the queen
// of spades so shoot-the-moon detection ignores the omnibus jack bonus.
type TrickResult struct {
	WinnerSeat int
	Points     int
	HardPoints int
}

// ResolveTrick determines the winner (highest value of the lead suit; ties
// are impossible within one trick) and the points carried by the four cards.
func ResolveTrick(board []PlayedCard, rules RoomRules) TrickResult {
	lead := board[0].Card.Suit
	res := TrickResult{WinnerSeat: board[0].SeatIndex}
	high := -1
	for _, pc := range board {
		if pc.Card.Suit == lead && pc.Card.Value > high {
			high = pc.Card.Value
			res.WinnerSeat = pc.SeatIndex
		}
		pts := pc.Card.Points()
		res.Points += pts
		res.HardPoints += pts
		if rules.OmnibusJack && pc.Card.Suit == deck.Diamonds && pc.Card.Value == deck.Jack {
			res.Points -= 10
		}
	}
	return res
}

// RoomRules carries the configurable knobs for a room. Defaults implement the
// canonical scoring: hearts one each, queen of spades thirteen, no jack rule.
type RoomRules struct {
	// OmnibusJack makes the jack of diamonds worth -10 to its captor.
	OmnibusJack bool `json:"omnibusJack"`
	// TargetScore ends the game once any total reaches it at a round boundary.
	TargetScore int `json:"targetScore"`
	// TrickDelay is the presentation pause before a resolved trick clears.
	TrickDelay time.Duration `json:"-"`
}

// DefaultRules returns the canonical configuration.
func DefaultRules() RoomRules {
	return RoomRules{
		OmnibusJack: false,
		TargetScore: 100,
		TrickDelay:  2 * time.Second,
	}
}

// Update applies a partial rules payload, as decoded from JSON. Unknown keys
// are ignored; a key with a bad type or value is an error and leaves the
// receiver unchanged.
func (r *RoomRules) Update(patch map[string]interface{}) error {
	next := *r

	if val, ok := patch["omnibusJack"]; ok && val != nil {
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("invalid type for omnibusJack")
		}
		next.OmnibusJack = b
	}
	if val, ok := patch["targetScore"]; ok && val != nil {
		// JSON numbers decode as float64.
		f, ok := val.(float64)
		if !ok {
			return fmt.Errorf("invalid type for targetScore")
		}
		if int(f) < 1 {
			return fmt.Errorf("targetScore must be positive")
		}
		next.TargetScore = int(f)
	}
	if val, ok := patch["trickDelayMs"]; ok && val != nil {
		f, ok := val.(float64)
		if !ok {
			return fmt.Errorf("invalid type for trickDelayMs")
		}
		if f < 0 {
			return fmt.Errorf("trickDelayMs must be non-negative")
		}
		next.TrickDelay = time.Duration(f) * time.Millisecond
	}

	*r = next
	return nil
}

func containsCard(hand []deck.Card, card deck.Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

func hasSuit(hand []deck.Card, suit deck.Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func allHearts(hand []deck.Card) bool {
	for _, c := range hand {
		if c.Suit != deck.Hearts {
			return false
		}
	}
	return true
}

func allPoints(hand []deck.Card) bool {
	for _, c := range hand {
		if !c.IsPoint() {
			return false
		}
	}
	return true
}

func removeCard(hand []deck.Card, card deck.Card) []deck.Card {
	out := make([]deck.Card, 0, len(hand))
	for _, c := range hand {
		if c != card {
			out = append(out, c)
		}
	}
	return out
}
