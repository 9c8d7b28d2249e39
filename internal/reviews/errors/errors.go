package errors

import "errors"

var (
	ErrNotFound = errors.New("review not found")

	ErrInvalidID = errors.New("invalid review ID format")

	// ErrDuplicateReview maps the unique (court_id, user_id) index violation.
	ErrDuplicateReview = errors.New("user already reviewed this court")

	// ErrDuplicateVote maps the unique (user_id, review_id) index violation.
	ErrDuplicateVote = errors.New("vote already exists for this review")

	ErrVoteNotFound = errors.New("vote not found")
)
