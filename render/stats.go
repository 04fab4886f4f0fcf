package render

import (
	"math"
	"sync"
)

// Histogram is a small fixed-bucket histogram for per-frame observability
// metrics (quads per frame, overdraw rate, pane skip rate). It is
// thread-safe so monitoring can read while the render thread records.
type Histogram struct {
	mu      sync.Mutex
	bounds  []float64
	counts  []uint64
	sum     float64
	total   uint64
	minSeen float64
	maxSeen float64
}

// NewHistogram creates a histogram with the given ascending bucket upper
// bounds. Values above the last bound land in an overflow bucket.
func NewHistogram(bounds ...float64) *Histogram {
	return &Histogram{
		bounds:  bounds,
		counts:  make([]uint64, len(bounds)+1),
		minSeen: math.Inf(1),
		maxSeen: math.Inf(-1),
	}
}

// Observe records one value.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := 0
	for i < len(h.bounds) && v > h.bounds[i] {
		i++
	}
	h.counts[i]++
	h.sum += v
	h.total++
	if v < h.minSeen {
		h.minSeen = v
	}
	if v > h.maxSeen {
		h.maxSeen = v
	}
}

// Count returns the number of observations.
func (h *Histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

// Mean returns the average observed value, or zero before any observation.
func (h *Histogram) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.total == 0 {
		return 0
	}
	return h.sum / float64(h.total)
}

// Min and Max return the observed extremes, or zero before any observation.
func (h *Histogram) Min() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.total == 0 {
		return 0
	}
	return h.minSeen
}

// Max returns the largest observed value.
func (h *Histogram) Max() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.total == 0 {
		return 0
	}
	return h.maxSeen
}

// Buckets returns a copy of the bucket counts; the last entry is the
// overflow bucket.
func (h *Histogram) Buckets() []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]uint64, len(h.counts))
	copy(out, h.counts)
	return out
}
