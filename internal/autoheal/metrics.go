package autoheal

import (
	"sync"
	"time"
)

// HealingMetrics counts what the locator did
type HealingMetrics struct {
	TotalRequests     int64            `json:"total_requests"`
	OriginalSuccesses int64            `json:"original_successes"`
	CacheHits         int64            `json:"cache_hits"`
	Heals             map[Source]int64 `json:"heals"`
	Failures          int64            `json:"failures"`
	AICalls           int64            `json:"ai_calls"`
	AIErrors          int64            `json:"ai_errors"`
	MeanLatency       time.Duration    `json:"mean_latency_ns"`
}

// TotalHeals sums heals over all sources
func (m HealingMetrics) TotalHeals() int64 {
	var n int64
	for _, v := range m.Heals {
		n += v
	}
	return n
}

type metricsRecorder struct {
	mu           sync.Mutex
	m            HealingMetrics
	totalLatency time.Duration
}

func newMetricsRecorder() *metricsRecorder {
	return &metricsRecorder{m: HealingMetrics{Heals: make(map[Source]int64)}}
}

// request records a finished Find
func (r *metricsRecorder) request(source Source, ok bool, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.m.TotalRequests++
	r.totalLatency += latency
	switch {
	case !ok:
		r.m.Failures++
	case source == SourceOriginal:
		r.m.OriginalSuccesses++
	case source == SourceCache:
		r.m.CacheHits++
	default:
		r.m.Heals[source]++
	}
}

func (r *metricsRecorder) aiCall(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.m.AICalls++
	if err != nil {
		r.m.AIErrors++
	}
}

func (r *metricsRecorder) snapshot() HealingMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.m
	out.Heals = make(map[Source]int64, len(r.m.Heals))
	for k, v := range r.m.Heals {
		out.Heals[k] = v
	}
	if r.m.TotalRequests > 0 {
		out.MeanLatency = r.totalLatency / time.Duration(r.m.TotalRequests)
	}
	return out
}
