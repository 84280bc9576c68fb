package kafgov

import (
	"sync"

	"github.com/limhaneul12/kafka-gov-console/pkg/model"
)

// DefaultLagHistoryCapacity is how many lag points a history retains.
const DefaultLagHistoryCapacity = 30

// LagHistory is a bounded rolling buffer of lag points derived from live
// snapshots. When full, appending evicts the oldest point. Safe for
// concurrent use.
type LagHistory struct {
	mu       sync.Mutex
	capacity int
	points   []model.LagPoint
}

// NewLagHistory creates a history with the given capacity. A capacity of
// zero or less uses DefaultLagHistoryCapacity.
func NewLagHistory(capacity int) *LagHistory {
	if capacity <= 0 {
		capacity = DefaultLagHistoryCapacity
	}
	return &LagHistory{
		capacity: capacity,
		points:   make([]model.LagPoint, 0, capacity),
	}
}

// Append records the point derived from a snapshot, evicting the oldest
// point when the history is full.
func (h *LagHistory) Append(snapshot model.LiveSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.points) == h.capacity {
		copy(h.points, h.points[1:])
		h.points = h.points[:h.capacity-1]
	}
	h.points = append(h.points, snapshot.Point())
}

// Points returns a copy of the buffered points in append order, the most
// recent point last.
func (h *LagHistory) Points() []model.LagPoint {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]model.LagPoint, len(h.points))
	copy(out, h.points)
	return out
}

// Last returns the most recent point, if any.
func (h *LagHistory) Last() (model.LagPoint, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.points) == 0 {
		return model.LagPoint{}, false
	}
	return h.points[len(h.points)-1], true
}

// Len returns the number of buffered points.
func (h *LagHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.points)
}

// Capacity returns the maximum number of points the history retains.
func (h *LagHistory) Capacity() int {
	return h.capacity
}

// Reset drops all buffered points.
func (h *LagHistory) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.points = h.points[:0]
}
