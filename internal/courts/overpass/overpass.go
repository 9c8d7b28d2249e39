// Package overpass fetches basketball courts from an Overpass API mirror.
package overpass

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	courterrors "courtfinder/internal/courts/errors"
	"courtfinder/pkg/logger"
	"courtfinder/pkg/model"

	"encoding/json"
)

type Client interface {
	FetchCourts(ctx context.Context, lat, lon float64, radiusKm int) ([]*model.Court, error)
	FetchCourt(ctx context.Context, courtID string) (*model.Court, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) Client {
	return &client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

// FetchCourts queries basketball pitches around a point. Ways are resolved
// to their center coordinate.
func (c *client) FetchCourts(ctx context.Context, lat, lon float64, radiusKm int) ([]*model.Court, error) {
	radiusM := radiusKm * 1000
	// Pitches cover the common case; community centres and schools tagged
	// for basketball catch indoor and shared courts.
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node["leisure"="pitch"]["sport"="basketball"](around:%[1]d,%[2]f,%[3]f);
  way["leisure"="pitch"]["sport"="basketball"](around:%[1]d,%[2]f,%[3]f);
  node["amenity"="community_centre"]["sport"="basketball"](around:%[1]d,%[2]f,%[3]f);
  way["amenity"="community_centre"]["sport"="basketball"](around:%[1]d,%[2]f,%[3]f);
  node["amenity"="school"]["sport"="basketball"](around:%[1]d,%[2]f,%[3]f);
  way["amenity"="school"]["sport"="basketball"](around:%[1]d,%[2]f,%[3]f);
);
out center;`, radiusM, lat, lon)

	elements, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	courts := make([]*model.Court, 0, len(elements))
	now := time.Now().UTC()

	for _, el := range elements {
		court := c.toCourt(el, now)
		if court != nil {
			courts = append(courts, court)
		}
	}

	c.log.Info("Fetched courts from Overpass",
		"lat", lat,
		"lon", lon,
		"radius_km", radiusKm,
		"count", len(courts),
	)

	return courts, nil
}

// FetchCourt resolves a single element by its "type:id" key. A missing
// element returns ErrNotFound rather than ErrUpstream so callers can tell a
// dead court apart from a dead mirror.
func (c *client) FetchCourt(ctx context.Context, courtID string) (*model.Court, error) {
	elemType, elemID, ok := strings.Cut(courtID, ":")
	if !ok {
		return nil, fmt.Errorf("%w: malformed court id %q", courterrors.ErrNotFound, courtID)
	}
	if elemType != "node" && elemType != "way" {
		return nil, fmt.Errorf("%w: unknown element type %q", courterrors.ErrNotFound, elemType)
	}
	if _, err := strconv.ParseInt(elemID, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: malformed court id %q", courterrors.ErrNotFound, courtID)
	}

	query := fmt.Sprintf("[out:json][timeout:25];\n%s(%s);\nout center;", elemType, elemID)

	elements, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, el := range elements {
		if court := c.toCourt(el, time.Now().UTC()); court != nil {
			return court, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", courterrors.ErrNotFound, courtID)
}

func (c *client) query(ctx context.Context, query string) ([]element, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", courterrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("Overpass query failed",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, fmt.Errorf("%w: status %d", courterrors.ErrUpstream, resp.StatusCode)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	return parsed.Elements, nil
}

func (c *client) toCourt(el element, fetchedAt time.Time) *model.Court {
	lat, lon := el.Lat, el.Lon
	if el.Center != nil {
		lat, lon = el.Center.Lat, el.Center.Lon
	}
	if lat == 0 && lon == 0 {
		return nil
	}

	court := &model.Court{
		// OSM ids are only unique per element type, so the type is part of
		// the key. Colon keeps the id URL-path safe.
		CourtID:   fmt.Sprintf("%s:%d", el.Type, el.ID),
		Lat:       lat,
		Lon:       lon,
		FetchedAt: fetchedAt,
	}

	if el.Tags != nil {
		court.Name = el.Tags["name"]
		court.Surface = el.Tags["surface"]
		court.OpeningHours = el.Tags["opening_hours"]
		court.Website = el.Tags["website"]
		court.Phone = el.Tags["phone"]
		court.Amenity = el.Tags["amenity"]
		court.Leisure = el.Tags["leisure"]
		court.Address = buildAddress(el.Tags)

		if hoops, err := strconv.Atoi(el.Tags["hoops"]); err == nil {
			court.Hoops = hoops
		}
	}

	return court
}

func buildAddress(tags map[string]string) string {
	parts := make([]string, 0, 3)
	if street := tags["addr:street"]; street != "" {
		if num := tags["addr:housenumber"]; num != "" {
			parts = append(parts, street+" "+num)
		} else {
			parts = append(parts, street)
		}
	}
	if city := tags["addr:city"]; city != "" {
		parts = append(parts, city)
	}
	if postcode := tags["addr:postcode"]; postcode != "" {
		parts = append(parts, postcode)
	}
	return strings.Join(parts, ", ")
}
