package client

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"courtfinder/pkg/votes"
)

func TestDispatchAppliesOptimisticState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/vote/rev1/upvote" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-User-ID") != "user1" {
			t.Errorf("missing user header")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewVoteClient(server.URL)
	view := votes.View{TotalVotes: 3}

	if err := c.Dispatch("rev1", "user1", votes.ActionUp, &view); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	want := votes.View{Upvoted: true, TotalVotes: 4}
	if view != want {
		t.Errorf("view = %+v, want %+v", view, want)
	}
}

func TestDispatchRollsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"already voted"}`))
	}))
	defer server.Close()

	c := NewVoteClient(server.URL)
	original := votes.View{Upvoted: true, TotalVotes: 5}
	view := original

	err := c.Dispatch("rev1", "user1", votes.ActionDown, &view)
	if err == nil {
		t.Fatal("expected error for rejected vote")
	}
	if view != original {
		t.Errorf("view not rolled back: %+v, want %+v", view, original)
	}
}

func TestDispatchRollsBackOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	c := NewVoteClient(server.URL)
	original := votes.View{TotalVotes: 2}
	view := original

	if err := c.Dispatch("rev1", "user1", votes.ActionUp, &view); err == nil {
		t.Fatal("expected transport error")
	}
	if view != original {
		t.Errorf("view not rolled back: %+v, want %+v", view, original)
	}
}

func TestDispatchPressingActiveControlRemoves(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewVoteClient(server.URL)
	view := votes.View{Upvoted: true, TotalVotes: 4}

	if err := c.Dispatch("rev1", "user1", votes.ActionUp, &view); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if gotMethod != http.MethodDelete || gotPath != "/api/vote/rev1" {
		t.Errorf("request = %s %s, want DELETE /api/vote/rev1", gotMethod, gotPath)
	}
	want := votes.View{TotalVotes: 3}
	if view != want {
		t.Errorf("view = %+v, want %+v", view, want)
	}
}

func TestDispatchRejectsConcurrentVoteForSameReview(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewVoteClient(server.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	firstStarted := make(chan struct{})
	go func() {
		defer wg.Done()
		view := votes.View{}
		close(firstStarted)
		_ = c.Dispatch("rev1", "user1", votes.ActionUp, &view)
	}()

	<-firstStarted
	// Spin until the first dispatch owns the in-flight slot.
	for c.begin("rev1") {
		c.end("rev1")
	}

	view := votes.View{}
	if err := c.Dispatch("rev1", "user2", votes.ActionUp, &view); err != ErrVoteInFlight {
		t.Errorf("err = %v, want ErrVoteInFlight", err)
	}

	close(release)
	wg.Wait()

	// A different review is unaffected by rev1's guard.
	otherView := votes.View{}
	if err := c.Dispatch("rev2", "user2", votes.ActionUp, &otherView); err != nil {
		t.Errorf("independent review blocked: %v", err)
	}
}
