package observability

import "sync"

// Metrics provides basic in-memory counters for the intake pipeline.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
}

// Counter names recorded by the pipeline.
const (
	MetricIngests          = "ingests_total"
	MetricTicketsCreated   = "tickets_created_total"
	MetricDedupSuppressed  = "messages_dedup_suppressed_total"
	MetricDeliveriesSeen   = "deliveries_seen_total"
	MetricTriagesDegraded  = "triages_degraded_total"
	MetricTriagesDowngrade = "triages_threshold_downgraded_total"
	MetricEscalations      = "tickets_escalated_total"
	MetricRequestErrors    = "request_errors_total"
)

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{counters: make(map[string]int64)}
}

// Inc increments the named counter by one.
func (m *Metrics) Inc(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// Snapshot returns a copy of all counters.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}
