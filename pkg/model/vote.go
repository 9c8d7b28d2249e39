package model

import (
	"time"

	"courtfinder/pkg/votes"
)

// Vote records one user's standing vote on one review. The unique index on
// (user_id, review_id) makes duplicates impossible at the storage layer.
type Vote struct {
	ID        string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ReviewID  string       `json:"review_id" bson:"review_id" validate:"required,mongodb"`
	UserID    string       `json:"user_id" bson:"user_id" validate:"required"`
	Direction votes.Action `json:"direction" bson:"direction" validate:"required,oneof=up down"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}
