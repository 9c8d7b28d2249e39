// Package votes implements the review vote state machine shared by the
// authoritative server path and the optimistic client path. A review's vote
// view for one user is either neutral, upvoted or downvoted; transitions
// carry a delta applied to the review's running vote total. Keeping both
// paths on the same transition table guarantees the optimistic update and
// the server's stored total agree.
package votes

import "fmt"

// Action is a user's requested target state for their vote on a review.
type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionRemove Action = "remove"
)

// View is the caller-visible vote state of one review for one user.
// Invariant: Upvoted and Downvoted are never both true.
type View struct {
	Upvoted    bool `json:"is_upvoted" bson:"-"`
	Downvoted  bool `json:"is_downvoted" bson:"-"`
	TotalVotes int  `json:"total_votes" bson:"vote_count"`
}

// Result is the outcome of applying an action: the next view and the delta
// that was folded into TotalVotes.
type Result struct {
	Next  View
	Delta int
}

// ErrAlreadyVoted is returned when the requested direction matches the
// current vote. The caller is expected to translate a click on the active
// control into ActionRemove first (see Toggle), so reaching this state
// means the caller skipped that translation.
var ErrAlreadyVoted = fmt.Errorf("vote already applied in this direction")

// Toggle translates a click on an up/down control into the action to
// request: clicking the already-active control removes the vote, clicking
// the inactive one casts or switches it.
func Toggle(v View, direction Action) Action {
	if (direction == ActionUp && v.Upvoted) || (direction == ActionDown && v.Downvoted) {
		return ActionRemove
	}
	return direction
}

// Apply computes the transition for one action.
//
//	current    action   next       delta
//	none       up       upvoted     +1
//	none       down     downvoted   -1
//	upvoted    down     downvoted   -2
//	downvoted  up       upvoted     +2
//	upvoted    remove   none        -1
//	downvoted  remove   none        +1
//	none       remove   none         0
//
// Same-direction repeats return ErrAlreadyVoted and leave the view
// unchanged.
func Apply(current View, action Action) (Result, error) {
	next := View{TotalVotes: current.TotalVotes}
	var delta int

	switch action {
	case ActionUp:
		if current.Upvoted {
			return Result{Next: current}, ErrAlreadyVoted
		}
		delta = 1
		if current.Downvoted {
			delta = 2
		}
		next.Upvoted = true

	case ActionDown:
		if current.Downvoted {
			return Result{Next: current}, ErrAlreadyVoted
		}
		delta = -1
		if current.Upvoted {
			delta = -2
		}
		next.Downvoted = true

	case ActionRemove:
		switch {
		case current.Upvoted:
			delta = -1
		case current.Downvoted:
			delta = 1
		default:
			delta = 0
		}

	default:
		return Result{Next: current}, fmt.Errorf("unknown vote action: %q", action)
	}

	next.TotalVotes += delta
	return Result{Next: next, Delta: delta}, nil
}
