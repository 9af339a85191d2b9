package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects relayed to WebSocket clients.
const (
	SubjectRouteSequenced = "detour.routes.sequenced"
	SubjectCacheCleared   = "detour.cache.cleared"
	SubjectBroadcast      = "detour.updates.broadcast"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// RouteSequencedEvent is emitted after a sequencing result is memoized.
type RouteSequencedEvent struct {
	Key    string    `json:"key"`
	Source string    `json:"source"`
	Count  int       `json:"count"`
	At     time.Time `json:"at"`
}

// CacheClearedEvent is emitted after the route cache is wiped.
type CacheClearedEvent struct {
	Removed int64     `json:"removed"`
	At      time.Time `json:"at"`
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "DETOUR_ROUTES",
			Subjects:  []string{"detour.routes.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "DETOUR_CACHE",
			Subjects:  []string{"detour.cache.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// AddStream fails when the stream already exists, update instead.
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishRouteSequenced(ctx context.Context, key, source string, count int) error {
	data, err := json.Marshal(RouteSequencedEvent{Key: key, Source: source, Count: count, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectRouteSequenced, data)
	return err
}

func (p *Publisher) PublishCacheCleared(ctx context.Context, removed int64) error {
	data, err := json.Marshal(CacheClearedEvent{Removed: removed, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectCacheCleared, data)
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish(SubjectBroadcast, data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
