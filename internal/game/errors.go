// internal/game/errors.go
package game

import "errors"

// RejectReason identifies why a join, start, or play was refused. Reasons are
// reported privately to the acting connection and never mutate room state.
type RejectReason string

const (
	ReasonRoomFull             RejectReason = "room_full"
	ReasonNameTaken            RejectReason = "name_taken"
	ReasonRoomNotReady         RejectReason = "room_not_ready"
	ReasonNotYourTurn          RejectReason = "not_your_turn"
	ReasonNotInHand            RejectReason = "not_in_hand"
	ReasonMustLeadTwoOfClubs   RejectReason = "must_lead_two_of_clubs"
	ReasonMustFollowSuit       RejectReason = "must_follow_suit"
	ReasonHeartsNotBroken      RejectReason = "hearts_not_broken"
	ReasonNoPointsOnFirstTrick RejectReason = "no_points_on_first_trick"
	ReasonGameFinished         RejectReason = "game_finished"
)

// Violation is the error type for every rejected room operation. All
// violations are recoverable and user-facing; none is fatal to the room.
type Violation struct {
	Reason RejectReason
}

func (v *Violation) Error() string {
	return string(v.Reason)
}

func reject(r RejectReason) *Violation {
	return &Violation{Reason: r}
}

// ReasonOf extracts the reject reason from an error, or "" if the error is
// not a Violation.
func ReasonOf(err error) RejectReason {
	var v *Violation
	if errors.As(err, &v) {
		return v.Reason
	}
	return ""
}
