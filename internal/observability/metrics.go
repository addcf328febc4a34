package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	errorCount      map[string]int64
	intakeCount     map[string]int64
	deliveryCount   map[string]int64
	suggestFailures int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		intakeCount:   make(map[string]int64),
		deliveryCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordIntake increments the per-category ticket intake counter.
func (m *Metrics) RecordIntake(category string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intakeCount[category]++
}

// RecordDelivery increments notification delivery counters keyed by
// channel and outcome.
func (m *Metrics) RecordDelivery(channel, status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveryCount[channel+"|"+status]++
}

// RecordSuggestFailure counts knowledge base lookups that degraded to an
// empty suggestion list.
func (m *Metrics) RecordSuggestFailure() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestFailures++
}

// Snapshot returns a copy of all counters for reporting.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int64, len(m.requestCount)+len(m.errorCount)+len(m.intakeCount)+len(m.deliveryCount)+1)
	for k, v := range m.requestCount {
		out["request|"+k] = v
	}
	for k, v := range m.errorCount {
		out["error|"+k] = v
	}
	for k, v := range m.intakeCount {
		out["intake|"+k] = v
	}
	for k, v := range m.deliveryCount {
		out["delivery|"+k] = v
	}
	out["suggest_failures"] = m.suggestFailures
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
