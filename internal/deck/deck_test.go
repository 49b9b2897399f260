// internal/deck/deck_test.go
package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	cards := New()
	require.Len(t, cards, 52)

	seen := make(map[Card]bool, 52)
	for _, c := range cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}

	for _, s := range Suits {
		count := 0
		for _, c := range cards {
			if c.Suit == s {
				count++
			}
		}
		assert.Equal(t, 13, count, "suit %s", s)
	}
}

func TestShuffleIsAPermutation(t *testing.T) {
	cards := New()
	Shuffle(rand.New(rand.NewSource(7)), cards)

	require.Len(t, cards, 52)
	seen := make(map[Card]bool, 52)
	for _, c := range cards {
		assert.False(t, seen[c], "duplicate card %s after shuffle", c)
		seen[c] = true
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := New()
	b := New()
	Shuffle(rand.New(rand.NewSource(42)), a)
	Shuffle(rand.New(rand.NewSource(42)), b)
	assert.Equal(t, a, b)

	c := New()
	Shuffle(rand.New(rand.NewSource(43)), c)
	assert.NotEqual(t, a, c)
}

func TestSortHandOrdersSuitThenValue(t *testing.T) {
	hand := []Card{
		{Suit: Spades, Value: 2},
		{Suit: Hearts, Value: Ace},
		{Suit: Clubs, Value: King},
		{Suit: Clubs, Value: 3},
		{Suit: Diamonds, Value: 7},
	}
	SortHand(hand)

	assert.Equal(t, []Card{
		{Suit: Clubs, Value: 3},
		{Suit: Clubs, Value: King},
		{Suit: Diamonds, Value: 7},
		{Suit: Hearts, Value: Ace},
		{Suit: Spades, Value: 2},
	}, hand)
}

func TestPoints(t *testing.T) {
	assert.Equal(t, 1, Card{Suit: Hearts, Value: 2}.Points())
	assert.Equal(t, 1, Card{Suit: Hearts, Value: Ace}.Points())
	assert.Equal(t, 13, QueenOfSpades.Points())
	assert.Equal(t, 0, Card{Suit: Spades, Value: King}.Points())
	assert.Equal(t, 0, Card{Suit: Diamonds, Value: Jack}.Points())

	assert.True(t, QueenOfSpades.IsPoint())
	assert.False(t, TwoOfClubs.IsPoint())
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "2C", TwoOfClubs.String())
	assert.Equal(t, "QS", QueenOfSpades.String())
	assert.Equal(t, "10H", Card{Suit: Hearts, Value: 10}.String())
	assert.Equal(t, "AD", Card{Suit: Diamonds, Value: Ace}.String())
}
