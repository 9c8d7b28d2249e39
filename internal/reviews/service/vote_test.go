package service

import (
	"context"
	"sync"
	"testing"

	reviewserrors "courtfinder/internal/reviews/errors"
	"courtfinder/pkg/contracts"
	apperrors "courtfinder/pkg/errors"
	"courtfinder/pkg/model"
	"courtfinder/pkg/votes"
)

const (
	testReviewID = "65b000000000000000000001"
	testAuthorID = "author"
)

func reviewFixture(total int) *model.Review {
	review := &model.Review{
		ID:      testReviewID,
		CourtID: "node:1",
		UserID:  testAuthorID,
		Rating:  4,
	}
	review.TotalVotes = total
	return review
}

func newTestVoteService(reviewRepo *mockReviewRepository, voteRepo *mockVoteRepository, publisher *mockPublisher) VoteService {
	return NewVoteService(reviewRepo, voteRepo, publisher, testConfig())
}

func TestCast_NewUpvote(t *testing.T) {
	var inserted *model.Vote
	var gotDelta int

	reviewRepo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return reviewFixture(3), nil
		},
		incVoteCountFunc: func(ctx context.Context, id string, delta int) error {
			gotDelta = delta
			return nil
		},
	}
	voteRepo := &mockVoteRepository{
		insertFunc: func(ctx context.Context, vote *model.Vote) error {
			inserted = vote
			return nil
		},
	}
	publisher := &mockPublisher{}

	service := newTestVoteService(reviewRepo, voteRepo, publisher)

	view, err := service.Cast(context.Background(), testReviewID, "voter", votes.ActionUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !view.Upvoted || view.Downvoted {
		t.Errorf("expected upvoted view, got %+v", view)
	}
	if view.TotalVotes != 4 {
		t.Errorf("expected total 4, got %d", view.TotalVotes)
	}
	if gotDelta != 1 {
		t.Errorf("expected delta +1, got %d", gotDelta)
	}
	if inserted == nil || inserted.Direction != votes.ActionUp {
		t.Errorf("expected an up vote inserted, got %+v", inserted)
	}

	events := publisher.events(t)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != contracts.EventVoteApplied {
		t.Errorf("expected %s, got %s", contracts.EventVoteApplied, events[0].Type)
	}
	if events[0].TrustDelta != 1 {
		t.Errorf("expected trust delta 1, got %d", events[0].TrustDelta)
	}
	if events[0].AuthorID != testAuthorID || events[0].ActorID != "voter" {
		t.Errorf("expected author/actor split, got %+v", events[0])
	}
}

func TestCast_SwitchDirection(t *testing.T) {
	var replaced *model.Vote
	var gotDelta int

	reviewRepo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return reviewFixture(5), nil
		},
		incVoteCountFunc: func(ctx context.Context, id string, delta int) error {
			gotDelta = delta
			return nil
		},
	}
	voteRepo := &mockVoteRepository{
		findByUserAndReviewFunc: func(ctx context.Context, userID, reviewID string) (*model.Vote, error) {
			return &model.Vote{ReviewID: reviewID, UserID: userID, Direction: votes.ActionUp}, nil
		},
		replaceFunc: func(ctx context.Context, vote *model.Vote) error {
			replaced = vote
			return nil
		},
		insertFunc: func(ctx context.Context, vote *model.Vote) error {
			t.Error("switching direction must replace, not insert")
			return nil
		},
	}

	service := newTestVoteService(reviewRepo, voteRepo, &mockPublisher{})

	view, err := service.Cast(context.Background(), testReviewID, "voter", votes.ActionDown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotDelta != -2 {
		t.Errorf("expected delta -2 for a direction switch, got %d", gotDelta)
	}
	if view.TotalVotes != 3 {
		t.Errorf("expected total 3, got %d", view.TotalVotes)
	}
	if !view.Downvoted || view.Upvoted {
		t.Errorf("expected downvoted view, got %+v", view)
	}
	if replaced == nil || replaced.Direction != votes.ActionDown {
		t.Errorf("expected the stored vote replaced with down, got %+v", replaced)
	}
}

func TestCast_SameDirectionConflict(t *testing.T) {
	reviewRepo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return reviewFixture(1), nil
		},
	}
	voteRepo := &mockVoteRepository{
		findByUserAndReviewFunc: func(ctx context.Context, userID, reviewID string) (*model.Vote, error) {
			return &model.Vote{ReviewID: reviewID, UserID: userID, Direction: votes.ActionUp}, nil
		},
	}
	publisher := &mockPublisher{}

	service := newTestVoteService(reviewRepo, voteRepo, publisher)

	_, err := service.Cast(context.Background(), testReviewID, "voter", votes.ActionUp)
	if err == nil {
		t.Fatal("expected conflict for a repeated same-direction vote")
	}
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	if len(publisher.events(t)) != 0 {
		t.Error("no event should be published for a rejected vote")
	}
}

func TestCast_OwnReviewForbidden(t *testing.T) {
	reviewRepo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return reviewFixture(0), nil
		},
	}

	service := newTestVoteService(reviewRepo, &mockVoteRepository{}, &mockPublisher{})

	_, err := service.Cast(context.Background(), testReviewID, testAuthorID, votes.ActionUp)
	if err == nil {
		t.Fatal("expected forbidden for self-vote")
	}
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestCast_ReviewNotFound(t *testing.T) {
	service := newTestVoteService(&mockReviewRepository{}, &mockVoteRepository{}, &mockPublisher{})

	_, err := service.Cast(context.Background(), testReviewID, "voter", votes.ActionUp)
	if err == nil {
		t.Fatal("expected not found for missing review")
	}
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCast_InvalidDirection(t *testing.T) {
	service := newTestVoteService(&mockReviewRepository{}, &mockVoteRepository{}, &mockPublisher{})

	_, err := service.Cast(context.Background(), testReviewID, "voter", votes.ActionRemove)
	if err == nil {
		t.Fatal("expected invalid input for a remove through Cast")
	}
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestRemove_NoStandingVote(t *testing.T) {
	reviewRepo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return reviewFixture(2), nil
		},
	}

	service := newTestVoteService(reviewRepo, &mockVoteRepository{}, &mockPublisher{})

	_, err := service.Remove(context.Background(), testReviewID, "voter")
	if err == nil {
		t.Fatal("expected not found when no vote exists")
	}
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestRemove_Existing(t *testing.T) {
	var gotDelta int
	var deleted bool

	reviewRepo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return reviewFixture(2), nil
		},
		incVoteCountFunc: func(ctx context.Context, id string, delta int) error {
			gotDelta = delta
			return nil
		},
	}
	voteRepo := &mockVoteRepository{
		findByUserAndReviewFunc: func(ctx context.Context, userID, reviewID string) (*model.Vote, error) {
			return &model.Vote{ReviewID: reviewID, UserID: userID, Direction: votes.ActionUp}, nil
		},
		deleteFunc: func(ctx context.Context, userID, reviewID string) error {
			deleted = true
			return nil
		},
	}
	publisher := &mockPublisher{}

	service := newTestVoteService(reviewRepo, voteRepo, publisher)

	view, err := service.Remove(context.Background(), testReviewID, "voter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !deleted {
		t.Error("expected the stored vote deleted")
	}
	if gotDelta != -1 {
		t.Errorf("expected delta -1 for removing an upvote, got %d", gotDelta)
	}
	if view.Upvoted || view.Downvoted {
		t.Errorf("expected neutral view after removal, got %+v", view)
	}
	if view.TotalVotes != 1 {
		t.Errorf("expected total 1, got %d", view.TotalVotes)
	}

	events := publisher.events(t)
	if len(events) != 1 || events[0].Type != contracts.EventVoteRemoved {
		t.Fatalf("expected one vote.removed event, got %+v", events)
	}
}

// Concurrent votes on the same review must be serialized by the lock map:
// the read-modify-write sections never overlap.
func TestVoteMutations_SerializedPerReview(t *testing.T) {
	var mu sync.Mutex
	inSection := false
	overlapped := false
	total := 0
	standing := map[string]*model.Vote{}

	enter := func() {
		mu.Lock()
		if inSection {
			overlapped = true
		}
		inSection = true
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		inSection = false
		mu.Unlock()
	}

	reviewRepo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			enter()
			mu.Lock()
			current := total
			mu.Unlock()
			return reviewFixture(current), nil
		},
		incVoteCountFunc: func(ctx context.Context, id string, delta int) error {
			mu.Lock()
			total += delta
			mu.Unlock()
			leave()
			return nil
		},
	}
	voteRepo := &mockVoteRepository{
		findByUserAndReviewFunc: func(ctx context.Context, userID, reviewID string) (*model.Vote, error) {
			mu.Lock()
			vote, ok := standing[userID]
			mu.Unlock()
			if !ok {
				return nil, reviewserrors.ErrVoteNotFound
			}
			return vote, nil
		},
		insertFunc: func(ctx context.Context, vote *model.Vote) error {
			mu.Lock()
			standing[vote.UserID] = vote
			mu.Unlock()
			return nil
		},
	}

	service := newTestVoteService(reviewRepo, voteRepo, &mockPublisher{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		user := string(rune('a' + i))
		go func() {
			defer wg.Done()
			if _, err := service.Cast(context.Background(), testReviewID, user, votes.ActionUp); err != nil {
				t.Errorf("user %s: unexpected error: %v", user, err)
			}
		}()
	}
	wg.Wait()

	if overlapped {
		t.Error("vote mutations on the same review overlapped")
	}
	if total != 8 {
		t.Errorf("expected 8 upvotes folded into the total, got %d", total)
	}
}
