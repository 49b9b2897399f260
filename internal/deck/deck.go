// internal/deck/deck.go
package deck

import (
	"fmt"
	"math/rand"
	"sort"
)

// Suit identifies one of the four French suits by its single-letter code.
type Suit string

const (
	Clubs    Suit = "C"
	Diamonds Suit = "D"
	Hearts   Suit = "H"
	Spades   Suit = "S"
)

// Suits lists every suit in canonical order (clubs low, spades high).
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Face card values. Number cards use their own value; 11=J, 12=Q, 13=K, 14=A.
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// Card is an immutable value type. Two cards are equal iff suit and value match.
type Card struct {
	Suit  Suit `json:"suit"`
	Value int  `json:"value"`
}

// TwoOfClubs opens every round.
var TwoOfClubs = Card{Suit: Clubs, Value: 2}

// QueenOfSpades carries thirteen penalty points.
var QueenOfSpades = Card{Suit: Spades, Value: Queen}

var valueNames = map[int]string{Jack: "J", Queen: "Q", King: "K", Ace: "A"}

func (c Card) String() string {
	name, ok := valueNames[c.Value]
	if !ok {
		name = fmt.Sprintf("%d", c.Value)
	}
	return name + string(c.Suit)
}

// Points returns the scoring value of the card inside a trick: one per heart,
// thirteen for the queen of spades, nothing for anything else.
func (c Card) Points() int {
	if c.Suit == Hearts {
		return 1
	}
	if c == QueenOfSpades {
		return 13
	}
	return 0
}

// IsPoint reports whether the card carries penalty points.
func (c Card) IsPoint() bool {
	return c.Points() > 0
}

// New builds the full 52-card deck in canonical order.
func New() []Card {
	cards := make([]Card, 0, 52)
	for _, s := range Suits {
		for v := 2; v <= Ace; v++ {
			cards = append(cards, Card{Suit: s, Value: v})
		}
	}
	return cards
}

// Shuffle permutes cards in place with a Fisher-Yates walk from the last index
// down. Given a uniform source, every permutation is equally likely.
func Shuffle(r *rand.Rand, cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

var suitOrder = map[Suit]int{Clubs: 0, Diamonds: 1, Hearts: 2, Spades: 3}

// SortHand orders a hand suit-major (C, D, H, S) then value ascending, so a
// client renders stable groups after every deal.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return suitOrder[hand[i].Suit] < suitOrder[hand[j].Suit]
		}
		return hand[i].Value < hand[j].Value
	})
}
