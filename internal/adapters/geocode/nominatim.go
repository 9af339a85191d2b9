package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim resolves addresses through the OSM Nominatim search API. The
// public instance allows at most one request per second, so calls are
// throttled through a ticker.
type Nominatim struct {
	baseURL    string
	httpClient *http.Client
	limiter    *time.Ticker
}

// NewNominatim creates a Nominatim resolver against the public instance.
func NewNominatim() *Nominatim {
	return &Nominatim{
		baseURL:    defaultNominatimURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    time.NewTicker(1 * time.Second),
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address. An empty result list maps to ErrNoMatch.
func (n *Nominatim) Geocode(ctx context.Context, query string) (domain.GeoPoint, error) {
	if n.limiter != nil {
		select {
		case <-n.limiter.C:
		case <-ctx.Done():
			return domain.GeoPoint{}, ctx.Err()
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("nominatim: %w", err)
	}
	req.Header.Set("User-Agent", "detour/1.0")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, fmt.Errorf("nominatim: HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("nominatim: decode: %w", err)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("nominatim: invalid latitude %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("nominatim: invalid longitude %q", results[0].Lon)
	}

	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}
	return p, nil
}
