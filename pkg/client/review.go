package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"courtfinder/pkg/model"
)

type ReviewClient struct {
	httpClient *HttpClient
}

func NewReviewClient(baseURL string) *ReviewClient {
	return &ReviewClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ReviewClient) Rating(courtID string) (*Response, error) {
	q := url.Values{}
	q.Set("court_id", courtID)
	return c.httpClient.GET("/api/review/rating?"+q.Encode(), nil)
}

func (c *ReviewClient) List(courtID, userID string, page, perPage int, sort string) (*Response, error) {
	q := url.Values{}
	q.Set("court_id", courtID)
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	if sort != "" {
		q.Set("sort", sort)
	}
	return c.httpClient.GET("/api/review?"+q.Encode(), userHeaders(userID))
}

func (c *ReviewClient) Create(userID string, review *model.Review) (*Response, error) {
	return c.httpClient.POST("/api/review", review, userHeaders(userID))
}

func (c *ReviewClient) Update(reviewID, userID string, update *model.ReviewUpdate) (*Response, error) {
	path := "/api/review/" + url.PathEscape(reviewID)
	return c.httpClient.PATCH(path, update, userHeaders(userID))
}

func (c *ReviewClient) Delete(courtID, userID string) (*Response, error) {
	q := url.Values{}
	q.Set("court_id", courtID)
	return c.httpClient.DELETE("/api/review?"+q.Encode(), userHeaders(userID))
}

func (c *ReviewClient) DecodeReviewPage(resp *Response) (*model.ReviewPage, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode review page wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var page model.ReviewPage
	if err := json.Unmarshal(wrapper.Data, &page); err != nil {
		return nil, fmt.Errorf("could not decode review page json:\n%+v\n%s", resp.ToString(), err)
	}

	return &page, nil
}

func (c *ReviewClient) DecodeRating(resp *Response) (*model.RatingSummary, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode rating wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var summary model.RatingSummary
	if err := json.Unmarshal(wrapper.Data, &summary); err != nil {
		return nil, fmt.Errorf("could not decode rating json:\n%+v\n%s", resp.ToString(), err)
	}

	return &summary, nil
}
