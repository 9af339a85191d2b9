package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "detour",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "detour",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Corridor search metrics
	CorridorSearches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "detour",
		Subsystem: "corridor",
		Name:      "searches_total",
		Help:      "Total corridor searches served",
	})

	CorridorCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "detour",
		Subsystem: "corridor",
		Name:      "result_rows",
		Help:      "Rows returned per corridor search",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
	})

	// Sequencing metrics
	SequencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "detour",
		Subsystem: "sequence",
		Name:      "requests_total",
		Help:      "Total sequencing requests by result source",
	}, []string{"source"})

	RouteCacheCleared = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "detour",
		Subsystem: "sequence",
		Name:      "cache_cleared_total",
		Help:      "Total route cache entries removed by explicit clears",
	})

	// Geocoding metrics
	GeocodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "detour",
		Subsystem: "geocode",
		Name:      "failures_total",
		Help:      "Total endpoint queries no resolver could place",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "detour",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "detour",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "detour",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "detour",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics copies pgx pool stats into the gauges. Declared against
// a small interface so this package does not import pgxpool.
func UpdateDBPoolMetrics(stat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}) {
	DBPoolConnsAcquired.Set(float64(stat.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(stat.IdleConns()))
	DBPoolConnsOpen.Set(float64(stat.TotalConns()))
}
