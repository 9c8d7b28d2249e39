package service

import (
	"context"
	"errors"
	"sync"

	reviewserrors "courtfinder/internal/reviews/errors"
	"courtfinder/internal/reviews/repository"
	"courtfinder/pkg/config"
	"courtfinder/pkg/contracts"
	apperrors "courtfinder/pkg/errors"
	"courtfinder/pkg/model"
	"courtfinder/pkg/votes"
)

type VoteService interface {
	Cast(ctx context.Context, reviewID, userID string, direction votes.Action) (*votes.View, error)
	Remove(ctx context.Context, reviewID, userID string) (*votes.View, error)
}

// reviewLocks serializes vote mutations per review so concurrent votes on
// the same review never interleave between read and write.
type reviewLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newReviewLocks() *reviewLocks {
	return &reviewLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *reviewLocks) lock(reviewID string) func() {
	l.mu.Lock()
	m, ok := l.locks[reviewID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[reviewID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type voteService struct {
	reviewRepo repository.ReviewRepository
	voteRepo   repository.VoteRepository
	publisher  EventPublisher
	locks      *reviewLocks
	cfg        *config.Config
}

func NewVoteService(
	reviewRepo repository.ReviewRepository,
	voteRepo repository.VoteRepository,
	publisher EventPublisher,
	cfg *config.Config,
) VoteService {
	return &voteService{
		reviewRepo: reviewRepo,
		voteRepo:   voteRepo,
		publisher:  publisher,
		locks:      newReviewLocks(),
		cfg:        cfg,
	}
}

// Cast applies an up or down vote. Switching direction replaces the stored
// vote and moves the total by two; repeating the standing direction is a
// conflict.
func (s *voteService) Cast(ctx context.Context, reviewID, userID string, direction votes.Action) (*votes.View, error) {
	if direction != votes.ActionUp && direction != votes.ActionDown {
		return nil, apperrors.InvalidInput("Vote direction must be up or down")
	}

	return s.mutate(ctx, reviewID, userID, direction)
}

// Remove withdraws the caller's standing vote. Removing a vote that does
// not exist is a not-found, never a silent no-op.
func (s *voteService) Remove(ctx context.Context, reviewID, userID string) (*votes.View, error) {
	return s.mutate(ctx, reviewID, userID, votes.ActionRemove)
}

func (s *voteService) mutate(ctx context.Context, reviewID, userID string, action votes.Action) (*votes.View, error) {
	if reviewID == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	unlock := s.locks.lock(reviewID)
	defer unlock()

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Review", reviewID)
		}
		if errors.Is(err, reviewserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid review ID format")
		}
		return nil, apperrors.Internal("Failed to load review", err)
	}

	if review.UserID == userID && action != votes.ActionRemove {
		return nil, apperrors.Forbidden("Voting on your own review is not allowed")
	}

	existing, err := s.voteRepo.FindByUserAndReview(ctx, userID, reviewID)
	if err != nil && !errors.Is(err, reviewserrors.ErrVoteNotFound) {
		return nil, apperrors.Internal("Failed to load vote", err)
	}

	current := votes.View{TotalVotes: review.TotalVotes}
	if existing != nil {
		current.Upvoted = existing.Direction == votes.ActionUp
		current.Downvoted = existing.Direction == votes.ActionDown
	}

	if action == votes.ActionRemove && existing == nil {
		return nil, apperrors.NotFound("Vote")
	}

	result, err := votes.Apply(current, action)
	if err != nil {
		if errors.Is(err, votes.ErrAlreadyVoted) {
			return nil, apperrors.Conflict("Vote already applied in this direction")
		}
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.persist(ctx, reviewID, userID, action, existing); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.IncVoteCount(ctx, reviewID, result.Delta); err != nil {
		s.cfg.Log.Error("Failed to update vote count",
			"review_id", reviewID,
			"delta", result.Delta,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update vote count", err)
	}

	s.cfg.Log.Info("Vote applied",
		"review_id", reviewID,
		"user_id", userID,
		"action", string(action),
		"delta", result.Delta,
	)

	eventType := contracts.EventVoteApplied
	if action == votes.ActionRemove {
		eventType = contracts.EventVoteRemoved
	}
	publishReviewEvent(ctx, s.publisher, s.cfg.Log, contracts.ReviewEvent{
		Type:       eventType,
		ReviewID:   reviewID,
		CourtID:    review.CourtID,
		AuthorID:   review.UserID,
		ActorID:    userID,
		TrustDelta: result.Delta,
	})

	return &result.Next, nil
}

func (s *voteService) persist(ctx context.Context, reviewID, userID string, action votes.Action, existing *model.Vote) error {
	switch action {
	case votes.ActionRemove:
		if err := s.voteRepo.Delete(ctx, userID, reviewID); err != nil {
			if errors.Is(err, reviewserrors.ErrVoteNotFound) {
				return apperrors.NotFound("Vote")
			}
			return apperrors.Internal("Failed to remove vote", err)
		}
		return nil

	default:
		vote := &model.Vote{
			ReviewID:  reviewID,
			UserID:    userID,
			Direction: action,
		}
		if existing != nil {
			if err := s.voteRepo.Replace(ctx, vote); err != nil {
				return apperrors.Internal("Failed to switch vote", err)
			}
			return nil
		}
		if err := s.voteRepo.Insert(ctx, vote); err != nil {
			if errors.Is(err, reviewserrors.ErrDuplicateVote) {
				return apperrors.Conflict("Vote already applied in this direction")
			}
			return apperrors.Internal("Failed to record vote", err)
		}
		return nil
	}
}
