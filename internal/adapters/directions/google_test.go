package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asiergaray/detour/internal/core/domain"
)

var (
	origin      = domain.GeoPoint{Lat: 43.26, Lon: -2.95}
	destination = domain.GeoPoint{Lat: 43.31, Lon: -1.97}
	waypoints   = []domain.GeoPoint{
		{Lat: 43.27, Lon: -2.80},
		{Lat: 43.29, Lon: -2.50},
		{Lat: 43.30, Lon: -2.20},
	}
)

func TestGoogleClient_Defaults(t *testing.T) {
	c := NewGoogleClient("", 0)
	if c.Available() {
		t.Error("client without a key must not report available")
	}
	if c.MaxWaypoints() != DefaultMaxWaypoints {
		t.Errorf("expected default cap %d, got %d", DefaultMaxWaypoints, c.MaxWaypoints())
	}

	if NewGoogleClient("k", 10).MaxWaypoints() != 10 {
		t.Error("explicit cap was not honored")
	}
}

func TestGoogleClient_Optimize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wp := r.URL.Query().Get("waypoints")
		if !strings.HasPrefix(wp, "optimize:true|") {
			t.Errorf("waypoints must request optimization, got %q", wp)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("missing api key")
		}
		w.Write([]byte(`{"status":"OK","routes":[{"waypoint_order":[2,0,1]}]}`))
	}))
	defer srv.Close()

	c := NewGoogleClient("test-key", 23)
	c.baseURL = srv.URL

	order, err := c.Optimize(context.Background(), origin, destination, waypoints)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 0, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected order %v, got %v", want, order)
			break
		}
	}
}

func TestGoogleClient_Optimize_RejectsOverCap(t *testing.T) {
	c := NewGoogleClient("test-key", 2)
	if _, err := c.Optimize(context.Background(), origin, destination, waypoints); err == nil {
		t.Error("expected an error for waypoints over the cap")
	}
}

func TestGoogleClient_Optimize_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","routes":[]}`))
	}))
	defer srv.Close()

	c := NewGoogleClient("test-key", 23)
	c.baseURL = srv.URL

	if _, err := c.Optimize(context.Background(), origin, destination, waypoints); err == nil {
		t.Error("expected an error for a denied request")
	}
}

func TestGoogleClient_Optimize_TruncatedOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","routes":[{"waypoint_order":[0]}]}`))
	}))
	defer srv.Close()

	c := NewGoogleClient("test-key", 23)
	c.baseURL = srv.URL

	if _, err := c.Optimize(context.Background(), origin, destination, waypoints); err == nil {
		t.Error("expected an error when waypoint_order does not cover all waypoints")
	}
}

func TestGoogleClient_PreparedRequest_WithholdsKey(t *testing.T) {
	c := NewGoogleClient("secret", 23)

	prep := c.PreparedRequest(origin, destination, waypoints)
	if prep.URL == "" {
		t.Fatal("prepared request must carry the endpoint URL")
	}
	if _, leaked := prep.Params["key"]; leaked {
		t.Error("prepared request must not leak the API key")
	}
	if !strings.HasPrefix(prep.Params["waypoints"], "optimize:true|") {
		t.Errorf("prepared waypoints malformed: %q", prep.Params["waypoints"])
	}
}
