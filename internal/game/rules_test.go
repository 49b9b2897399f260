// internal/game/rules_test.go
package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/hearts/internal/deck"
)

func card(s deck.Suit, v int) deck.Card {
	return deck.Card{Suit: s, Value: v}
}

func TestValidatePlayNotInHand(t *testing.T) {
	hand := []deck.Card{card(deck.Clubs, 5), card(deck.Spades, 9)}
	err := ValidatePlay(hand, card(deck.Hearts, 3), "", false, false)
	assert.Equal(t, ReasonNotInHand, ReasonOf(err))
}

func TestValidatePlayFirstTrickLead(t *testing.T) {
	hand := []deck.Card{deck.TwoOfClubs, card(deck.Clubs, 9), card(deck.Spades, 4)}

	err := ValidatePlay(hand, card(deck.Clubs, 9), "", false, true)
	assert.Equal(t, ReasonMustLeadTwoOfClubs, ReasonOf(err))

	assert.NoError(t, ValidatePlay(hand, deck.TwoOfClubs, "", false, true))
}

func TestValidatePlayMustFollowSuit(t *testing.T) {
	hand := []deck.Card{card(deck.Hearts, 3), card(deck.Spades, 9)}

	err := ValidatePlay(hand, card(deck.Hearts, 3), deck.Spades, true, false)
	assert.Equal(t, ReasonMustFollowSuit, ReasonOf(err))

	assert.NoError(t, ValidatePlay(hand, card(deck.Spades, 9), deck.Spades, true, false))
}

func TestValidatePlayVoidInLeadSuitMayDiscard(t *testing.T) {
	hand := []deck.Card{card(deck.Hearts, 3), card(deck.Diamonds, 9)}
	assert.NoError(t, ValidatePlay(hand, card(deck.Hearts, 3), deck.Spades, false, false))
}

func TestValidatePlayHeartsNotBroken(t *testing.T) {
	hand := []deck.Card{card(deck.Hearts, 3), card(deck.Spades, 9)}

	err := ValidatePlay(hand, card(deck.Hearts, 3), "", false, false)
	assert.Equal(t, ReasonHeartsNotBroken, ReasonOf(err))

	assert.NoError(t, ValidatePlay(hand, card(deck.Hearts, 3), "", true, false))
}

func TestValidatePlayAllHeartsMayLeadUnbroken(t *testing.T) {
	hand := []deck.Card{card(deck.Hearts, 3), card(deck.Hearts, 9)}
	assert.NoError(t, ValidatePlay(hand, card(deck.Hearts, 3), "", false, false))
}

func TestValidatePlayNoPointsOnFirstTrick(t *testing.T) {
	hand := []deck.Card{card(deck.Hearts, 5), deck.QueenOfSpades, card(deck.Diamonds, 8)}

	err := ValidatePlay(hand, card(deck.Hearts, 5), deck.Clubs, false, true)
	assert.Equal(t, ReasonNoPointsOnFirstTrick, ReasonOf(err))

	err = ValidatePlay(hand, deck.QueenOfSpades, deck.Clubs, false, true)
	assert.Equal(t, ReasonNoPointsOnFirstTrick, ReasonOf(err))

	assert.NoError(t, ValidatePlay(hand, card(deck.Diamonds, 8), deck.Clubs, false, true))
}

func TestValidatePlayAllPointsMayDiscardOnFirstTrick(t *testing.T) {
	hand := []deck.Card{card(deck.Hearts, 5), deck.QueenOfSpades}
	assert.NoError(t, ValidatePlay(hand, card(deck.Hearts, 5), deck.Clubs, false, true))
}

func TestValidatePlayIsPure(t *testing.T) {
	hand := []deck.Card{card(deck.Clubs, 5), card(deck.Spades, 9)}
	before := append([]deck.Card(nil), hand...)

	_ = ValidatePlay(hand, card(deck.Clubs, 5), "", false, false)
	_ = ValidatePlay(hand, card(deck.Hearts, 2), "", false, false)

	assert.Equal(t, before, hand)
}

func TestResolveTrickHighestOfLeadSuitWins(t *testing.T) {
	board := []PlayedCard{
		{SeatIndex: 0, Card: card(deck.Hearts, 5)},
		{SeatIndex: 1, Card: card(deck.Hearts, deck.Queen)},
		{SeatIndex: 2, Card: card(deck.Diamonds, 3)},
		{SeatIndex: 3, Card: card(deck.Hearts, 2)},
	}
	res := ResolveTrick(board, DefaultRules())
	assert.Equal(t, 1, res.WinnerSeat)
	assert.Equal(t, 3, res.Points)
	assert.Equal(t, 3, res.HardPoints)
}

func TestResolveTrickOffSuitHighCardCannotWin(t *testing.T) {
	board := []PlayedCard{
		{SeatIndex: 2, Card: card(deck.Clubs, 4)},
		{SeatIndex: 3, Card: card(deck.Spades, deck.Ace)},
		{SeatIndex: 0, Card: card(deck.Clubs, 6)},
		{SeatIndex: 1, Card: deck.QueenOfSpades},
	}
	res := ResolveTrick(board, DefaultRules())
	assert.Equal(t, 0, res.WinnerSeat)
	assert.Equal(t, 13, res.Points)
	assert.Equal(t, 13, res.HardPoints)
}

func TestResolveTrickOmnibusJack(t *testing.T) {
	board := []PlayedCard{
		{SeatIndex: 0, Card: card(deck.Diamonds, deck.Jack)},
		{SeatIndex: 1, Card: card(deck.Diamonds, 5)},
		{SeatIndex: 2, Card: card(deck.Hearts, 3)},
		{SeatIndex: 3, Card: card(deck.Diamonds, 2)},
	}

	rules := DefaultRules()
	rules.OmnibusJack = true
	res := ResolveTrick(board, rules)
	assert.Equal(t, 0, res.WinnerSeat)
	assert.Equal(t, -9, res.Points)
	assert.Equal(t, 1, res.HardPoints, "jack bonus must not count as a hard point")

	res = ResolveTrick(board, DefaultRules())
	assert.Equal(t, 1, res.Points, "jack is worthless without the omnibus rule")
}

func TestRulesUpdate(t *testing.T) {
	r := DefaultRules()
	err := r.Update(map[string]interface{}{
		"omnibusJack":  true,
		"targetScore":  float64(50),
		"trickDelayMs": float64(250),
	})
	require.NoError(t, err)
	assert.True(t, r.OmnibusJack)
	assert.Equal(t, 50, r.TargetScore)
	assert.Equal(t, 250*time.Millisecond, r.TrickDelay)
}

func TestRulesUpdateIgnoresUnknownKeys(t *testing.T) {
	r := DefaultRules()
	require.NoError(t, r.Update(map[string]interface{}{"passingDirection": "left"}))
	assert.Equal(t, DefaultRules(), r)
}

func TestRulesUpdateRejectsBadValues(t *testing.T) {
	r := DefaultRules()

	assert.Error(t, r.Update(map[string]interface{}{"targetScore": "one hundred"}))
	assert.Error(t, r.Update(map[string]interface{}{"targetScore": float64(0)}))
	assert.Error(t, r.Update(map[string]interface{}{"omnibusJack": "yes"}))
	assert.Error(t, r.Update(map[string]interface{}{"trickDelayMs": float64(-5)}))

	// A failed patch leaves the rules untouched, even when other keys in the
	// same patch are valid.
	assert.Error(t, r.Update(map[string]interface{}{
		"omnibusJack": true,
		"targetScore": float64(-1),
	}))
	assert.Equal(t, DefaultRules(), r)
}
