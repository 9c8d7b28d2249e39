package contracts

import "time"

// Topics shared by the reviews service and the trust worker.
const (
	TopicReviewEvents    = "review-events"
	TopicReviewEventsDLQ = "review-events-dlq"
)

// Event types carried in the event-type header and the payload.
const (
	EventReviewCreated = "review.created"
	EventReviewUpdated = "review.updated"
	EventReviewDeleted = "review.deleted"
	EventVoteApplied   = "vote.applied"
	EventVoteRemoved   = "vote.removed"
)

// ReviewEvent is the payload published for every review and vote mutation.
// AuthorID is the review author, the user whose trust score absorbs
// TrustDelta. ActorID is the user who performed the action.
type ReviewEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	ReviewID   string    `json:"review_id"`
	CourtID    string    `json:"court_id"`
	AuthorID   string    `json:"author_id"`
	ActorID    string    `json:"actor_id"`
	TrustDelta int       `json:"trust_delta"`
	OccurredAt time.Time `json:"occurred_at"`
}
