package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
)

const defaultGoogleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Google resolves addresses through the Google Geocoding API.
type Google struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGoogle creates a Google resolver. Returns nil when no API key is
// configured; callers must then leave the resolver out of the chain.
func NewGoogle(apiKey string) *Google {
	if apiKey == "" {
		return nil
	}
	return &Google{
		baseURL:    defaultGoogleGeocodeURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address. ZERO_RESULTS maps to ErrNoMatch so the chain
// can fall through to Nominatim.
func (g *Google) Geocode(ctx context.Context, query string) (domain.GeoPoint, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("google geocode: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("google geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, fmt.Errorf("google geocode: HTTP %d", resp.StatusCode)
	}

	var body googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("google geocode: decode: %w", err)
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}
	if body.Status != "OK" {
		return domain.GeoPoint{}, fmt.Errorf("google geocode: status %s", body.Status)
	}

	loc := body.Results[0].Geometry.Location
	p := domain.GeoPoint{Lat: loc.Lat, Lon: loc.Lng}
	if !p.Valid() {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}
	return p, nil
}
