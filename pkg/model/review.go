package model

import (
	"time"

	"courtfinder/pkg/votes"
)

// Review is a user's rating of a court. One review per (court, user).
// The votes.View fields are populated per requesting user and never stored.
type Review struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CourtID   string    `json:"court_id" bson:"court_id" validate:"required"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required"`
	UserName  string    `json:"user_name,omitempty" bson:"user_name" validate:"omitempty,max=100"`
	Rating    int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment,omitempty" bson:"comment" validate:"omitempty,max=2000"`
	Edited    bool      `json:"edited,omitempty" bson:"edited"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at"`

	// AuthorTrust is read from the Users collection at query time.
	AuthorTrust int `json:"author_trust" bson:"-"`

	votes.View `bson:",inline"`
}

type ReviewUpdate struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func (u *ReviewUpdate) IsEmpty() bool {
	return u.Rating == nil && u.Comment == nil
}

// RatingSummary is the aggregate shown on a court card.
type RatingSummary struct {
	CourtID     string  `json:"court_id" bson:"_id"`
	Average     float64 `json:"average" bson:"average"`
	ReviewCount int64   `json:"review_count" bson:"review_count"`
}

// ReviewPage splits the requesting user's own review from everyone else's.
type ReviewPage struct {
	UserReview   *Review   `json:"user_review,omitempty"`
	OtherReviews []*Review `json:"other_reviews"`
	TotalCount   int64     `json:"total_count"`
	Page         int       `json:"page"`
	PerPage      int       `json:"per_page"`
}
