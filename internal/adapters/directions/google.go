// Package directions wraps the Google Directions API as the external route
// optimizer. Its waypoint cap decides whether a sequencing request takes the
// external path or the local heuristic.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asiergaray/detour/internal/core/domain"
)

const (
	defaultDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

	// DefaultMaxWaypoints matches the Directions API limit of 25 total
	// locations minus origin and destination.
	DefaultMaxWaypoints = 23
)

// GoogleClient implements ports.RouteOptimizer against the Directions API.
// With no API key it stays constructible: Available reports false and only
// PreparedRequest is useful.
type GoogleClient struct {
	baseURL      string
	apiKey       string
	maxWaypoints int
	httpClient   *http.Client
}

// NewGoogleClient creates a client. maxWaypoints <= 0 uses the API default.
func NewGoogleClient(apiKey string, maxWaypoints int) *GoogleClient {
	if maxWaypoints <= 0 {
		maxWaypoints = DefaultMaxWaypoints
	}
	return &GoogleClient{
		baseURL:      defaultDirectionsURL,
		apiKey:       apiKey,
		maxWaypoints: maxWaypoints,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Available reports whether an API key is configured.
func (c *GoogleClient) Available() bool {
	return c.apiKey != ""
}

// MaxWaypoints is the largest intermediate stop count the provider accepts.
func (c *GoogleClient) MaxWaypoints() int {
	return c.maxWaypoints
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		WaypointOrder []int `json:"waypoint_order"`
	} `json:"routes"`
}

// Optimize asks the API to reorder the waypoints and returns the visiting
// order as indices into waypoints.
func (c *GoogleClient) Optimize(ctx context.Context, origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) ([]int, error) {
	if !c.Available() {
		return nil, fmt.Errorf("directions: no API key configured")
	}
	if len(waypoints) > c.maxWaypoints {
		return nil, fmt.Errorf("directions: %d waypoints exceed the limit of %d", len(waypoints), c.maxWaypoints)
	}

	params := c.requestParams(origin, destination, waypoints)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions: HTTP %d", resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("directions: decode: %w", err)
	}
	if body.Status != "OK" || len(body.Routes) == 0 {
		return nil, fmt.Errorf("directions: status %s", body.Status)
	}

	order := body.Routes[0].WaypointOrder
	if len(order) != len(waypoints) {
		return nil, fmt.Errorf("directions: waypoint_order has %d entries for %d waypoints", len(order), len(waypoints))
	}
	return order, nil
}

// PreparedRequest describes the call Optimize would make, with the key
// withheld. Stored as the placeholder payload when no key is configured.
func (c *GoogleClient) PreparedRequest(origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) *domain.PreparedRequest {
	params := c.requestParams(origin, destination, waypoints)
	params.Del("key")

	flat := make(map[string]string, len(params))
	for k := range params {
		flat[k] = params.Get(k)
	}
	return &domain.PreparedRequest{
		URL:    c.baseURL,
		Params: flat,
		Note:   "set the provider API key to execute this request",
	}
}

func (c *GoogleClient) requestParams(origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) url.Values {
	coords := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", w.Lat, w.Lon))
	}

	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lon))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lon))
	params.Set("waypoints", "optimize:true|"+strings.Join(coords, "|"))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	return params
}
