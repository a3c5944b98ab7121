// Package opencage implements domain.Geocoder using the OpenCage Geocoding API.
package opencage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
)

// Client queries the OpenCage geocoding service.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenCage geocoding client. The API key is injected
// configuration, never a source literal.
func NewClient(key, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a free-text address query, constrained to Brazil, to the
// first result's coordinates. No results yields domain.ErrNoResult.
func (c *Client) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	params := url.Values{
		"q":           {query},
		"countrycode": {"br"},
		"key":         {c.key},
		"limit":       {"1"},
	}

	res, err := c.doRequest(ctx, params, "forward")
	if err != nil {
		return domain.Coordinates{}, err
	}
	if len(res.Results) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("forward", "empty").Inc()
		return domain.Coordinates{}, fmt.Errorf("%w for %q", domain.ErrNoResult, query)
	}

	c.metrics.GeocodeRequests.WithLabelValues("forward", "success").Inc()
	g := res.Results[0].Geometry
	return domain.Coordinates{Lat: g.Lat, Lon: g.Lng}, nil
}

// ReverseGeocode recovers city and state for a coordinate pair, with
// Portuguese component names.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Place, error) {
	params := url.Values{
		"q":        {fmt.Sprintf("%f+%f", lat, lon)},
		"key":      {c.key},
		"language": {"pt"},
		"limit":    {"1"},
	}

	res, err := c.doRequest(ctx, params, "reverse")
	if err != nil {
		return domain.Place{}, err
	}
	if len(res.Results) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "empty").Inc()
		return domain.Place{}, fmt.Errorf("%w for %f,%f", domain.ErrNoResult, lat, lon)
	}

	c.metrics.GeocodeRequests.WithLabelValues("reverse", "success").Inc()
	comp := res.Results[0].Components
	return domain.Place{
		City:  comp.locality(),
		State: comp.StateCode,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values, method string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("%s geocode request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("opencage API error: status %d: %s", resp.StatusCode, body)
	}

	var ocResp response
	if err := json.NewDecoder(resp.Body).Decode(&ocResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &ocResp, nil
}

// OpenCage API response types.

type response struct {
	Results []result `json:"results"`
}

type result struct {
	Geometry   geometry   `json:"geometry"`
	Components components `json:"components"`
}

type geometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type components struct {
	City      string `json:"city"`
	Town      string `json:"town"`
	Village   string `json:"village"`
	StateCode string `json:"state_code"`
}

// locality picks the most specific populated-place component present.
func (c components) locality() string {
	switch {
	case c.City != "":
		return c.City
	case c.Town != "":
		return c.Town
	default:
		return c.Village
	}
}
