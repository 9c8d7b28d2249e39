package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	reviewserrors "courtfinder/internal/reviews/errors"
	"courtfinder/internal/reviews/repository"
	"courtfinder/internal/reviews/validator"
	"courtfinder/pkg/config"
	"courtfinder/pkg/contracts"
	apperrors "courtfinder/pkg/errors"
	"courtfinder/pkg/kafka"
	"courtfinder/pkg/logger"
	"courtfinder/pkg/model"
	"courtfinder/pkg/votes"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockReviewRepository struct {
	createFunc             func(ctx context.Context, review *model.Review) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Review, error)
	findByCourtAndUserFunc func(ctx context.Context, courtID, userID string) (*model.Review, error)
	findPageByCourtFunc    func(ctx context.Context, courtID, excludeUserID string, sort repository.ReviewSort, page, perPage int) ([]*model.Review, error)
	countByCourtFunc       func(ctx context.Context, courtID, excludeUserID string) (int64, error)
	applyUpdateFunc        func(ctx context.Context, id string, updates *model.ReviewUpdate) (*model.Review, error)
	deleteFunc             func(ctx context.Context, id string) error
	incVoteCountFunc       func(ctx context.Context, id string, delta int) error
	ratingByCourtFunc      func(ctx context.Context, courtID string) (*model.RatingSummary, error)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	review.ID = "65b000000000000000000001"
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindByCourtAndUser(ctx context.Context, courtID, userID string) (*model.Review, error) {
	if m.findByCourtAndUserFunc != nil {
		return m.findByCourtAndUserFunc(ctx, courtID, userID)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindPageByCourt(ctx context.Context, courtID, excludeUserID string, sort repository.ReviewSort, page, perPage int) ([]*model.Review, error) {
	if m.findPageByCourtFunc != nil {
		return m.findPageByCourtFunc(ctx, courtID, excludeUserID, sort, page, perPage)
	}
	return []*model.Review{}, nil
}

func (m *mockReviewRepository) CountByCourt(ctx context.Context, courtID, excludeUserID string) (int64, error) {
	if m.countByCourtFunc != nil {
		return m.countByCourtFunc(ctx, courtID, excludeUserID)
	}
	return 0, nil
}

func (m *mockReviewRepository) ApplyUpdate(ctx context.Context, id string, updates *model.ReviewUpdate) (*model.Review, error) {
	if m.applyUpdateFunc != nil {
		return m.applyUpdateFunc(ctx, id, updates)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReviewRepository) IncVoteCount(ctx context.Context, id string, delta int) error {
	if m.incVoteCountFunc != nil {
		return m.incVoteCountFunc(ctx, id, delta)
	}
	return nil
}

func (m *mockReviewRepository) RatingByCourt(ctx context.Context, courtID string) (*model.RatingSummary, error) {
	if m.ratingByCourtFunc != nil {
		return m.ratingByCourtFunc(ctx, courtID)
	}
	return &model.RatingSummary{CourtID: courtID}, nil
}

type mockVoteRepository struct {
	findByUserAndReviewFunc  func(ctx context.Context, userID, reviewID string) (*model.Vote, error)
	findByUserAndReviewsFunc func(ctx context.Context, userID string, reviewIDs []string) (map[string]*model.Vote, error)
	insertFunc               func(ctx context.Context, vote *model.Vote) error
	replaceFunc              func(ctx context.Context, vote *model.Vote) error
	deleteFunc               func(ctx context.Context, userID, reviewID string) error
}

func (m *mockVoteRepository) FindByUserAndReview(ctx context.Context, userID, reviewID string) (*model.Vote, error) {
	if m.findByUserAndReviewFunc != nil {
		return m.findByUserAndReviewFunc(ctx, userID, reviewID)
	}
	return nil, reviewserrors.ErrVoteNotFound
}

func (m *mockVoteRepository) FindByUserAndReviews(ctx context.Context, userID string, reviewIDs []string) (map[string]*model.Vote, error) {
	if m.findByUserAndReviewsFunc != nil {
		return m.findByUserAndReviewsFunc(ctx, userID, reviewIDs)
	}
	return map[string]*model.Vote{}, nil
}

func (m *mockVoteRepository) Insert(ctx context.Context, vote *model.Vote) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, vote)
	}
	return nil
}

func (m *mockVoteRepository) Replace(ctx context.Context, vote *model.Vote) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, vote)
	}
	return nil
}

func (m *mockVoteRepository) Delete(ctx context.Context, userID, reviewID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, reviewID)
	}
	return nil
}

type mockUserRepository struct {
	findByUserIDsFunc func(ctx context.Context, userIDs []string) (map[string]*model.User, error)
	ensureUserFunc    func(ctx context.Context, userID, name string) error
}

func (m *mockUserRepository) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*model.User, error) {
	if m.findByUserIDsFunc != nil {
		return m.findByUserIDsFunc(ctx, userIDs)
	}
	return map[string]*model.User{}, nil
}

func (m *mockUserRepository) EnsureUser(ctx context.Context, userID, name string) error {
	if m.ensureUserFunc != nil {
		return m.ensureUserFunc(ctx, userID, name)
	}
	return nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, msg)
	return nil
}

func (m *mockPublisher) events(t *testing.T) []contracts.ReviewEvent {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make([]contracts.ReviewEvent, 0, len(m.published))
	for _, msg := range m.published {
		var event contracts.ReviewEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			t.Fatalf("failed to decode published event: %v", err)
		}
		events = append(events, event)
	}
	return events
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:               log,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		ReviewsPerPage:    10,
		MaxReviewsPerPage: 50,
	}
}

func newTestReviewService(repo *mockReviewRepository, voteRepo *mockVoteRepository, userRepo *mockUserRepository, publisher *mockPublisher) ReviewService {
	cfg := testConfig()
	return NewReviewService(repo, voteRepo, userRepo, publisher, validator.NewReviewValidator(cfg.Log), cfg)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Errorf("expected code %s, got %s", code, appErr.Code)
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreateReview_Success(t *testing.T) {
	publisher := &mockPublisher{}
	service := newTestReviewService(&mockReviewRepository{}, &mockVoteRepository{}, &mockUserRepository{}, publisher)

	review := &model.Review{
		CourtID: "node:1",
		UserID:  "user-1",
		Rating:  4,
		Comment: "Good rims,  fresh  nets",
	}

	if err := service.Create(context.Background(), review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.Comment != "Good rims, fresh nets" {
		t.Errorf("expected normalized comment, got %q", review.Comment)
	}

	events := publisher.events(t)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != contracts.EventReviewCreated {
		t.Errorf("expected event type %s, got %s", contracts.EventReviewCreated, events[0].Type)
	}
	if events[0].AuthorID != "user-1" {
		t.Errorf("expected author user-1, got %s", events[0].AuthorID)
	}
}

func TestCreateReview_InvalidRating(t *testing.T) {
	service := newTestReviewService(&mockReviewRepository{}, &mockVoteRepository{}, &mockUserRepository{}, &mockPublisher{})

	tests := []struct {
		name   string
		rating int
	}{
		{"zero rating", 0},
		{"rating too high", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Create(context.Background(), &model.Review{
				CourtID: "node:1",
				UserID:  "user-1",
				Rating:  tt.rating,
			})
			if err == nil {
				t.Fatal("expected validation error")
			}
			assertAppErrorCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestCreateReview_DuplicateConflict(t *testing.T) {
	repo := &mockReviewRepository{
		createFunc: func(ctx context.Context, review *model.Review) error {
			return reviewserrors.ErrDuplicateReview
		},
	}
	publisher := &mockPublisher{}
	service := newTestReviewService(repo, &mockVoteRepository{}, &mockUserRepository{}, publisher)

	err := service.Create(context.Background(), &model.Review{
		CourtID: "node:1",
		UserID:  "user-1",
		Rating:  5,
	})
	if err == nil {
		t.Fatal("expected conflict for duplicate review")
	}
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	if len(publisher.events(t)) != 0 {
		t.Error("no event should be published for a failed create")
	}
}

// ────────────────────────────────────────────────
// List
// ────────────────────────────────────────────────

func TestListReviews_SplitsOwnReview(t *testing.T) {
	own := &model.Review{ID: "65b000000000000000000001", CourtID: "node:1", UserID: "me", Rating: 5}
	others := []*model.Review{
		{ID: "65b000000000000000000002", CourtID: "node:1", UserID: "user-2", Rating: 3},
		{ID: "65b000000000000000000003", CourtID: "node:1", UserID: "user-3", Rating: 4},
	}

	repo := &mockReviewRepository{
		findByCourtAndUserFunc: func(ctx context.Context, courtID, userID string) (*model.Review, error) {
			return own, nil
		},
		findPageByCourtFunc: func(ctx context.Context, courtID, excludeUserID string, sort repository.ReviewSort, page, perPage int) ([]*model.Review, error) {
			if excludeUserID != "me" {
				t.Errorf("expected own review excluded, got exclude %q", excludeUserID)
			}
			return others, nil
		},
		countByCourtFunc: func(ctx context.Context, courtID, excludeUserID string) (int64, error) {
			return 2, nil
		},
	}
	voteRepo := &mockVoteRepository{
		findByUserAndReviewsFunc: func(ctx context.Context, userID string, reviewIDs []string) (map[string]*model.Vote, error) {
			return map[string]*model.Vote{
				"65b000000000000000000002": {ReviewID: "65b000000000000000000002", UserID: "me", Direction: votes.ActionUp},
			}, nil
		},
	}
	userRepo := &mockUserRepository{
		findByUserIDsFunc: func(ctx context.Context, userIDs []string) (map[string]*model.User, error) {
			return map[string]*model.User{
				"user-2": {UserID: "user-2", Name: "Deuce", Trust: 12},
			}, nil
		},
	}

	service := newTestReviewService(repo, voteRepo, userRepo, &mockPublisher{})

	page, err := service.List(context.Background(), "node:1", "me", 1, 10, repository.SortNewest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.UserReview == nil || page.UserReview.ID != own.ID {
		t.Fatal("expected the caller's review split out")
	}
	if len(page.OtherReviews) != 2 {
		t.Fatalf("expected 2 other reviews, got %d", len(page.OtherReviews))
	}
	if page.TotalCount != 2 {
		t.Errorf("expected total count 2, got %d", page.TotalCount)
	}

	decorated := page.OtherReviews[0]
	if !decorated.Upvoted || decorated.Downvoted {
		t.Error("expected the caller's upvote flag on review 2")
	}
	if decorated.AuthorTrust != 12 {
		t.Errorf("expected author trust 12, got %d", decorated.AuthorTrust)
	}
	if decorated.UserName != "Deuce" {
		t.Errorf("expected author name filled in, got %q", decorated.UserName)
	}
}

func TestListReviews_AnonymousCaller(t *testing.T) {
	repo := &mockReviewRepository{
		findByCourtAndUserFunc: func(ctx context.Context, courtID, userID string) (*model.Review, error) {
			t.Error("own review lookup should be skipped for anonymous callers")
			return nil, reviewserrors.ErrNotFound
		},
	}

	service := newTestReviewService(repo, &mockVoteRepository{}, &mockUserRepository{}, &mockPublisher{})

	page, err := service.List(context.Background(), "node:1", "", 1, 10, repository.SortNewest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.UserReview != nil {
		t.Error("anonymous page should have no user_review")
	}
}

func TestListReviews_NormalizesPagination(t *testing.T) {
	var gotPage, gotPerPage int
	var gotSort repository.ReviewSort
	repo := &mockReviewRepository{
		findPageByCourtFunc: func(ctx context.Context, courtID, excludeUserID string, sort repository.ReviewSort, page, perPage int) ([]*model.Review, error) {
			gotPage, gotPerPage, gotSort = page, perPage, sort
			return []*model.Review{}, nil
		},
	}

	service := newTestReviewService(repo, &mockVoteRepository{}, &mockUserRepository{}, &mockPublisher{})

	if _, err := service.List(context.Background(), "node:1", "", -3, 900, "sideways"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPage != 1 {
		t.Errorf("expected page 1, got %d", gotPage)
	}
	if gotPerPage != 50 {
		t.Errorf("expected per_page capped at 50, got %d", gotPerPage)
	}
	if gotSort != repository.SortNewest {
		t.Errorf("expected unknown sort to fall back to newest, got %s", gotSort)
	}
}

// ────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────

func TestUpdateReview_NotOwner(t *testing.T) {
	repo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return &model.Review{ID: id, CourtID: "node:1", UserID: "author", Rating: 4}, nil
		},
	}
	publisher := &mockPublisher{}
	service := newTestReviewService(repo, &mockVoteRepository{}, &mockUserRepository{}, publisher)

	rating := 2
	_, err := service.Update(context.Background(), "65b000000000000000000001", "intruder", &model.ReviewUpdate{Rating: &rating})
	if err == nil {
		t.Fatal("expected forbidden for non-author update")
	}
	assertAppErrorCode(t, err, apperrors.CodeForbidden)

	if len(publisher.events(t)) != 0 {
		t.Error("no event should be published for a rejected update")
	}
}

func TestUpdateReview_NotFound(t *testing.T) {
	service := newTestReviewService(&mockReviewRepository{}, &mockVoteRepository{}, &mockUserRepository{}, &mockPublisher{})

	rating := 3
	_, err := service.Update(context.Background(), "65b000000000000000000001", "me", &model.ReviewUpdate{Rating: &rating})
	if err == nil {
		t.Fatal("expected not found")
	}
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestUpdateReview_Success(t *testing.T) {
	repo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return &model.Review{ID: id, CourtID: "node:1", UserID: "me", Rating: 4}, nil
		},
		applyUpdateFunc: func(ctx context.Context, id string, updates *model.ReviewUpdate) (*model.Review, error) {
			return &model.Review{ID: id, CourtID: "node:1", UserID: "me", Rating: *updates.Rating, Edited: true}, nil
		},
	}
	publisher := &mockPublisher{}
	service := newTestReviewService(repo, &mockVoteRepository{}, &mockUserRepository{}, publisher)

	rating := 2
	review, err := service.Update(context.Background(), "65b000000000000000000001", "me", &model.ReviewUpdate{Rating: &rating})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !review.Edited {
		t.Error("expected the review marked edited")
	}

	events := publisher.events(t)
	if len(events) != 1 || events[0].Type != contracts.EventReviewUpdated {
		t.Fatalf("expected one review.updated event, got %+v", events)
	}
}

// ────────────────────────────────────────────────
// Delete
// ────────────────────────────────────────────────

func TestDeleteReview_Missing(t *testing.T) {
	service := newTestReviewService(&mockReviewRepository{}, &mockVoteRepository{}, &mockUserRepository{}, &mockPublisher{})

	err := service.Delete(context.Background(), "node:1", "me")
	if err == nil {
		t.Fatal("expected not found")
	}
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteReview_Success(t *testing.T) {
	repo := &mockReviewRepository{
		findByCourtAndUserFunc: func(ctx context.Context, courtID, userID string) (*model.Review, error) {
			return &model.Review{ID: "65b000000000000000000001", CourtID: courtID, UserID: userID}, nil
		},
	}
	publisher := &mockPublisher{}
	service := newTestReviewService(repo, &mockVoteRepository{}, &mockUserRepository{}, publisher)

	if err := service.Delete(context.Background(), "node:1", "me"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := publisher.events(t)
	if len(events) != 1 || events[0].Type != contracts.EventReviewDeleted {
		t.Fatalf("expected one review.deleted event, got %+v", events)
	}
}

// ────────────────────────────────────────────────
// Rating
// ────────────────────────────────────────────────

func TestRating_EmptyCourtID(t *testing.T) {
	service := newTestReviewService(&mockReviewRepository{}, &mockVoteRepository{}, &mockUserRepository{}, &mockPublisher{})

	_, err := service.Rating(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty court ID")
	}
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestRating_Summary(t *testing.T) {
	repo := &mockReviewRepository{
		ratingByCourtFunc: func(ctx context.Context, courtID string) (*model.RatingSummary, error) {
			return &model.RatingSummary{CourtID: courtID, Average: 4.25, ReviewCount: 8}, nil
		},
	}
	service := newTestReviewService(repo, &mockVoteRepository{}, &mockUserRepository{}, &mockPublisher{})

	summary, err := service.Rating(context.Background(), "node:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Average != 4.25 || summary.ReviewCount != 8 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
