package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects request counters and durations per operation.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	resultTotal   atomic.Int64

	operations map[string]*OperationMetrics

	durations    []time.Duration
	maxDurations int
}

// OperationMetrics represents metrics for one operation ("resolve", "batch").
type OperationMetrics struct {
	count         atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a new metrics collector keeping the last maxDurations durations.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		operations:   make(map[string]*OperationMetrics),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// RecordRequest records a request of operation op that produced results results.
func (m *Metrics) RecordRequest(op string, results int) {
	m.requestTotal.Add(1)
	m.resultTotal.Add(int64(results))
	m.operation(op).count.Add(1)
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure(op string) {
	m.requestFailed.Add(1)
	m.operation(op).errorCount.Add(1)
}

// RecordDuration records a request duration.
func (m *Metrics) RecordDuration(op string, d time.Duration) {
	om := m.operation(op)
	om.totalDuration.Add(d.Milliseconds())

	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, d)
	m.mu.Unlock()
}

func (m *Metrics) operation(op string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.operations[op]
	if !ok {
		om = &OperationMetrics{}
		m.operations[op] = om
	}
	return om
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := make(map[string]*OperationSnapshot, len(m.operations))
	for op, om := range m.operations {
		s := &OperationSnapshot{
			Count:         om.count.Load(),
			TotalDuration: om.totalDuration.Load(),
			ErrorCount:    om.errorCount.Load(),
		}
		if s.Count > 0 {
			s.AverageDuration = s.TotalDuration / s.Count
		}
		ops[op] = s
	}
	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		ResultTotal:   m.resultTotal.Load(),
		Operations:    ops,
		DurationCount: len(m.durations),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal  int64                         `json:"request_total"`
	RequestFailed int64                         `json:"request_failed"`
	ResultTotal   int64                         `json:"result_total"`
	Operations    map[string]*OperationSnapshot `json:"operations"`
	DurationCount int                           `json:"duration_count"`
}

// OperationSnapshot represents metrics for one operation.
type OperationSnapshot struct {
	Count           int64 `json:"count"`
	TotalDuration   int64 `json:"total_duration_ms"`
	ErrorCount      int64 `json:"error_count"`
	AverageDuration int64 `json:"average_duration_ms"`
}
