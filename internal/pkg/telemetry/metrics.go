package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Upstream providers
	MetricGeocodeLatency   = "geocode.resolve_latency"
	MetricOptimizerLatency = "optimizer.roundtrip_latency"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricCorridorSearches = "business.corridor_searches"
	MetricSequencedRoutes  = "business.routes_sequenced"
)
