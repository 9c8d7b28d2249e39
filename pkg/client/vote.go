package client

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"courtfinder/pkg/votes"
)

// ErrVoteInFlight is returned when a vote for the same review is still
// awaiting its server response.
var ErrVoteInFlight = errors.New("vote request already in flight for this review")

// VoteClient dispatches votes optimistically. The caller's view is mutated
// to the predicted state before the request goes out and restored from a
// snapshot if the server rejects it. At most one request per review may be
// in flight at a time.
type VoteClient struct {
	httpClient *HttpClient

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewVoteClient(baseURL string) *VoteClient {
	return &VoteClient{
		httpClient: NewHttpClient(baseURL),
		inflight:   make(map[string]struct{}),
	}
}

func (c *VoteClient) begin(reviewID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[reviewID]; busy {
		return false
	}
	c.inflight[reviewID] = struct{}{}
	return true
}

func (c *VoteClient) end(reviewID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, reviewID)
}

// Dispatch applies the pressed control to the view and synchronizes with the
// server. direction is the control the user pressed (up or down); pressing
// the active control removes the vote. On any failure the view is restored
// to its pre-dispatch state and the error is returned.
func (c *VoteClient) Dispatch(reviewID, userID string, direction votes.Action, view *votes.View) error {
	if !c.begin(reviewID) {
		return ErrVoteInFlight
	}
	defer c.end(reviewID)

	snapshot := *view

	action := votes.Toggle(snapshot, direction)
	result, err := votes.Apply(snapshot, action)
	if err != nil {
		return err
	}

	*view = result.Next

	resp, err := c.send(reviewID, userID, action)
	if err != nil {
		*view = snapshot
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		*view = snapshot
		return fmt.Errorf("vote rejected: %s", GetErrorMessage(resp))
	}

	return nil
}

func (c *VoteClient) send(reviewID, userID string, action votes.Action) (*Response, error) {
	path := "/api/vote/" + url.PathEscape(reviewID)

	switch action {
	case votes.ActionUp:
		return c.httpClient.POST(path+"/upvote", nil, userHeaders(userID))
	case votes.ActionDown:
		return c.httpClient.POST(path+"/downvote", nil, userHeaders(userID))
	case votes.ActionRemove:
		return c.httpClient.DELETE(path, userHeaders(userID))
	default:
		return nil, fmt.Errorf("unknown vote action: %s", action)
	}
}
