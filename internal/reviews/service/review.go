package service

import (
	"context"
	"errors"

	reviewserrors "courtfinder/internal/reviews/errors"
	"courtfinder/internal/reviews/repository"
	"courtfinder/internal/reviews/validator"
	"courtfinder/pkg/config"
	"courtfinder/pkg/contracts"
	apperrors "courtfinder/pkg/errors"
	"courtfinder/pkg/model"
	"courtfinder/pkg/sanitizer"
	"courtfinder/pkg/votes"
)

type ReviewService interface {
	Rating(ctx context.Context, courtID string) (*model.RatingSummary, error)
	List(ctx context.Context, courtID, userID string, page, perPage int, sort repository.ReviewSort) (*model.ReviewPage, error)
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, id, userID string, updates *model.ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, courtID, userID string) error
}

type reviewService struct {
	repo      repository.ReviewRepository
	voteRepo  repository.VoteRepository
	userRepo  repository.UserRepository
	publisher EventPublisher
	validator *validator.ReviewValidator
	cfg       *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	voteRepo repository.VoteRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
	validator *validator.ReviewValidator,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:      repo,
		voteRepo:  voteRepo,
		userRepo:  userRepo,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *reviewService) Rating(ctx context.Context, courtID string) (*model.RatingSummary, error) {
	if courtID == "" {
		return nil, apperrors.InvalidInput("Court ID cannot be empty")
	}

	summary, err := s.repo.RatingByCourt(ctx, courtID)
	if err != nil {
		s.cfg.Log.Error("Failed to aggregate court rating",
			"court_id", courtID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load court rating", err)
	}

	return summary, nil
}

func validSort(sort repository.ReviewSort) repository.ReviewSort {
	switch sort {
	case repository.SortNewest, repository.SortHighest, repository.SortLowest:
		return sort
	default:
		return repository.SortNewest
	}
}

// List returns one page of a court's reviews with the caller's own review
// split out. Pagination and counting cover the other reviews only.
func (s *reviewService) List(ctx context.Context, courtID, userID string, page, perPage int, sort repository.ReviewSort) (*model.ReviewPage, error) {
	if courtID == "" {
		return nil, apperrors.InvalidInput("Court ID cannot be empty")
	}

	page = config.NormalizePage(page)
	perPage = config.NormalizePerPage(perPage, s.cfg.ReviewsPerPage, s.cfg.MaxReviewsPerPage)
	sort = validSort(sort)

	var userReview *model.Review
	if userID != "" {
		own, err := s.repo.FindByCourtAndUser(ctx, courtID, userID)
		if err != nil && !errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to load reviews", err)
		}
		userReview = own
	}

	others, err := s.repo.FindPageByCourt(ctx, courtID, userID, sort, page, perPage)
	if err != nil {
		return nil, apperrors.Internal("Failed to load reviews", err)
	}

	count, err := s.repo.CountByCourt(ctx, courtID, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to count reviews", err)
	}

	all := others
	if userReview != nil {
		all = append([]*model.Review{userReview}, others...)
	}
	if err := s.decorate(ctx, all, userID); err != nil {
		s.cfg.Log.Warn("Failed to decorate reviews",
			"court_id", courtID,
			"error", err,
		)
	}

	return &model.ReviewPage{
		UserReview:   userReview,
		OtherReviews: others,
		TotalCount:   count,
		Page:         page,
		PerPage:      perPage,
	}, nil
}

// decorate fills the per-caller vote flags and the author trust scores.
// Failures here degrade the page rather than fail it.
func (s *reviewService) decorate(ctx context.Context, reviews []*model.Review, userID string) error {
	if len(reviews) == 0 {
		return nil
	}

	reviewIDs := make([]string, 0, len(reviews))
	authorIDs := make([]string, 0, len(reviews))
	for _, review := range reviews {
		reviewIDs = append(reviewIDs, review.ID)
		authorIDs = append(authorIDs, review.UserID)
	}

	users, err := s.userRepo.FindByUserIDs(ctx, authorIDs)
	if err != nil {
		return err
	}
	for _, review := range reviews {
		if user, ok := users[review.UserID]; ok {
			review.AuthorTrust = user.Trust
			if review.UserName == "" {
				review.UserName = user.Name
			}
		}
	}

	if userID == "" {
		return nil
	}

	standing, err := s.voteRepo.FindByUserAndReviews(ctx, userID, reviewIDs)
	if err != nil {
		return err
	}
	for _, review := range reviews {
		if vote, ok := standing[review.ID]; ok {
			review.Upvoted = vote.Direction == votes.ActionUp
			review.Downvoted = vote.Direction == votes.ActionDown
		}
	}

	return nil
}

func (s *reviewService) Create(ctx context.Context, review *model.Review) error {
	s.sanitize(review)

	if err := s.validator.ValidateReview(review); err != nil {
		s.cfg.Log.Warn("Review validation failed",
			"court_id", review.CourtID,
			"error", err,
		)
		return apperrors.Validation("Review validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.userRepo.EnsureUser(ctx, review.UserID, review.UserName); err != nil {
		s.cfg.Log.Warn("Failed to upsert review author",
			"user_id", review.UserID,
			"error", err,
		)
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrDuplicateReview) {
			return apperrors.Conflict("User already reviewed this court")
		}
		s.cfg.Log.Error("Failed to create review", "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	s.cfg.Log.Info("Review created successfully",
		"id", review.ID,
		"court_id", review.CourtID,
		"user_id", review.UserID,
	)

	publishReviewEvent(ctx, s.publisher, s.cfg.Log, contracts.ReviewEvent{
		Type:     contracts.EventReviewCreated,
		ReviewID: review.ID,
		CourtID:  review.CourtID,
		AuthorID: review.UserID,
		ActorID:  review.UserID,
	})

	return nil
}

func (s *reviewService) Update(ctx context.Context, id, userID string, updates *model.ReviewUpdate) (*model.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}
	if updates == nil || updates.IsEmpty() {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	if updates.Comment != nil {
		clean := sanitizer.TrimAndNormalize(*updates.Comment)
		updates.Comment = &clean
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Review update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	if existing.UserID != userID {
		return nil, apperrors.Forbidden("Only the author can edit a review")
	}

	review, err := s.repo.ApplyUpdate(ctx, id, updates)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	s.cfg.Log.Info("Review updated successfully",
		"id", id,
		"user_id", userID,
	)

	publishReviewEvent(ctx, s.publisher, s.cfg.Log, contracts.ReviewEvent{
		Type:     contracts.EventReviewUpdated,
		ReviewID: review.ID,
		CourtID:  review.CourtID,
		AuthorID: review.UserID,
		ActorID:  userID,
	})

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, courtID, userID string) error {
	if courtID == "" {
		return apperrors.InvalidInput("Court ID cannot be empty")
	}

	review, err := s.repo.FindByCourtAndUser(ctx, courtID, userID)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return apperrors.NotFound("Review")
		}
		return apperrors.Internal("Failed to load review", err)
	}

	if err := s.repo.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return apperrors.NotFound("Review")
		}
		s.cfg.Log.Error("Failed to delete review", "id", review.ID, "error", err)
		return apperrors.Internal("Failed to delete review", err)
	}

	s.cfg.Log.Info("Review deleted successfully",
		"id", review.ID,
		"court_id", courtID,
		"user_id", userID,
	)

	publishReviewEvent(ctx, s.publisher, s.cfg.Log, contracts.ReviewEvent{
		Type:     contracts.EventReviewDeleted,
		ReviewID: review.ID,
		CourtID:  courtID,
		AuthorID: review.UserID,
		ActorID:  userID,
	})

	return nil
}

func (s *reviewService) mapLookupError(err error, id string) error {
	if errors.Is(err, reviewserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Review", id)
	}
	if errors.Is(err, reviewserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid review ID format")
	}
	s.cfg.Log.Error("Failed to load review", "id", id, "error", err)
	return apperrors.Internal("Failed to load review", err)
}

func (s *reviewService) sanitize(review *model.Review) {
	review.UserName = sanitizer.NormalizeName(review.UserName)
	review.Comment = sanitizer.TrimAndNormalize(review.Comment)
}
