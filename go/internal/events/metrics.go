package events

import (
	"context"
	"sync"
	"time"
)

// MetricsCollector records the outcome of every publish
type MetricsCollector interface {
	RecordPublish(eventType string, success bool, duration time.Duration)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) RecordPublish(eventType string, success bool, duration time.Duration) {}

// PublishStats is a point-in-time view of CounterMetrics
type PublishStats struct {
	Published       uint64            `json:"published"`
	Failed          uint64            `json:"failed"`
	ByEventType     map[string]uint64 `json:"by_event_type"`
	LastPublishedAt *time.Time        `json:"last_published_at,omitempty"`
	LastDurationMs  int64             `json:"last_duration_ms"`
}

// CounterMetrics keeps in-process publish counters
type CounterMetrics struct {
	mu              sync.Mutex
	published       uint64
	failed          uint64
	byEventType     map[string]uint64
	lastPublishedAt time.Time
	lastDuration    time.Duration
}

func NewCounterMetrics() *CounterMetrics {
	return &CounterMetrics{byEventType: make(map[string]uint64)}
}

func (m *CounterMetrics) RecordPublish(eventType string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastDuration = duration
	if !success {
		m.failed++
		return
	}
	m.published++
	m.byEventType[eventType]++
	m.lastPublishedAt = time.Now().UTC()
}

func (m *CounterMetrics) Stats() PublishStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := PublishStats{
		Published:      m.published,
		Failed:         m.failed,
		ByEventType:    make(map[string]uint64, len(m.byEventType)),
		LastDurationMs: m.lastDuration.Milliseconds(),
	}
	for k, v := range m.byEventType {
		stats.ByEventType[k] = v
	}
	if !m.lastPublishedAt.IsZero() {
		t := m.lastPublishedAt
		stats.LastPublishedAt = &t
	}
	return stats
}

// MetricPublisher wraps a Publisher with metrics collection
type MetricPublisher struct {
	publisher Publisher
	metrics   MetricsCollector
}

func NewMetricPublisher(publisher Publisher, metrics MetricsCollector) *MetricPublisher {
	if metrics == nil {
		metrics = &NoOpMetricsCollector{}
	}
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, env Envelope) error {
	start := time.Now()

	err := p.publisher.Publish(ctx, env)

	p.metrics.RecordPublish(env.EventType, err == nil, time.Since(start))
	return err
}

func (p *MetricPublisher) Close() error {
	return p.publisher.Close()
}
