package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"courtfinder/pkg/model"
)

type CourtClient struct {
	httpClient *HttpClient
}

func NewCourtClient(baseURL string) *CourtClient {
	return &CourtClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *CourtClient) Get(courtID string) (*Response, error) {
	q := url.Values{}
	q.Set("court_id", courtID)
	return c.httpClient.GET("/api/courts?"+q.Encode(), nil)
}

func (c *CourtClient) Around(lat, lon float64, radiusKm int) (*Response, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("radius_km", fmt.Sprintf("%d", radiusKm))
	return c.httpClient.GET("/api/courts/around?"+q.Encode(), nil)
}

func (c *CourtClient) Nearby(lat, lon float64) (*Response, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	return c.httpClient.GET("/api/courts/nearby?"+q.Encode(), nil)
}

func (c *CourtClient) Update(courtID, userID string, update *model.CourtUpdate) (*Response, error) {
	path := "/api/courts/" + url.PathEscape(courtID)
	return c.httpClient.PATCH(path, update, userHeaders(userID))
}

func (c *CourtClient) DecodeCourt(resp *Response) (*model.Court, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode court wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var court model.Court
	if err := json.Unmarshal(wrapper.Data, &court); err != nil {
		return nil, fmt.Errorf("could not decode court json:\n%+v\n%s", resp.ToString(), err)
	}

	return &court, nil
}

func (c *CourtClient) DecodeCourts(resp *Response) ([]*model.Court, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode court list wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var courts []*model.Court
	if err := json.Unmarshal(wrapper.Data, &courts); err != nil {
		return nil, fmt.Errorf("could not decode court list:\n%+v\n%s", resp.ToString(), err)
	}

	return courts, nil
}
