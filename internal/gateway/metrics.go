package gateway

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/tool"
)

// Metrics tracks per-tool call counters using atomic operations for
// lock-free recording; the map itself is guarded only on first touch of a
// tool name.
type Metrics struct {
	mu    sync.RWMutex
	tools map[string]*toolCounters
}

type toolCounters struct {
	calls        atomic.Int64
	failures     atomic.Int64
	totalLatency atomic.Int64 // nanoseconds
}

var _ tool.MetricsRecorder = (*Metrics)(nil)

// NewMetrics creates an empty metrics set.
func NewMetrics() *Metrics {
	return &Metrics{tools: make(map[string]*toolCounters)}
}

// RecordCall implements tool.MetricsRecorder.
func (m *Metrics) RecordCall(name string, kind outcome.Kind, latency time.Duration) {
	c := m.counters(name)
	c.calls.Add(1)
	c.totalLatency.Add(int64(latency))
	if kind != outcome.KindOK {
		c.failures.Add(1)
	}
}

func (m *Metrics) counters(name string) *toolCounters {
	m.mu.RLock()
	c, ok := m.tools[name]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.tools[name]; ok {
		return c
	}
	c = &toolCounters{}
	m.tools[name] = c
	return c
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{Tools: make(map[string]ToolSnapshot, len(m.tools))}
	for name, c := range m.tools {
		calls := c.calls.Load()
		ts := ToolSnapshot{
			Calls:    calls,
			Failures: c.failures.Load(),
		}
		if calls > 0 {
			ts.AvgLatency = time.Duration(c.totalLatency.Load() / calls)
		}
		snap.Tools[name] = ts
		snap.TotalCalls += ts.Calls
		snap.TotalFailures += ts.Failures
	}
	return snap
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	TotalCalls    int64                   `json:"total_calls"`
	TotalFailures int64                   `json:"total_failures"`
	Tools         map[string]ToolSnapshot `json:"tools"`
}

// ToolSnapshot is the per-tool counter view.
type ToolSnapshot struct {
	Calls      int64         `json:"calls"`
	Failures   int64         `json:"failures"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
}
