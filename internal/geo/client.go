package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	// Nominatim's usage policy requires an identifying agent.
	userAgent = "ai-job-hunter/1.0"

	lookupTimeout = 15 * time.Second
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Client resolves place names to coordinates via the Nominatim search API.
// Lookups are best effort: one query, no retry, no caching across calls.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	logger     *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: lookupTimeout},
		BaseURL:    defaultBaseURL,
		logger:     logger,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve geocodes a free-form place name. An unresolvable place is an
// error; callers treat it the same as out-of-range.
func (c *Client) Resolve(ctx context.Context, place string) (*Coordinates, error) {
	query := url.Values{}
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/search?%s", c.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode %q: unexpected status %s", place, resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocode response for %q: %w", place, err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("place %q not found", place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude for %q: %w", place, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude for %q: %w", place, err)
	}

	coords := &Coordinates{Lat: lat, Lon: lon}
	c.logger.Debug("geocoded place",
		zap.String("place", place),
		zap.Float64("lat", coords.Lat),
		zap.Float64("lon", coords.Lon),
	)

	return coords, nil
}
