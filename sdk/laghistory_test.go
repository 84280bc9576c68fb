package kafgov

import (
	"testing"
	"time"
)

func lagSnapshot(ts time.Time, total, p95 int64) LiveSnapshot {
	return LiveSnapshot{
		Timestamp: ts,
		State:     GroupStateStable,
		LagStats:  LagStats{P50: p95 / 2, P95: p95, Max: total, Total: total},
	}
}

func TestLagHistoryKeepsArrivalOrder(t *testing.T) {
	h := NewLagHistory(0)
	if h.Capacity() != DefaultLagHistoryCapacity {
		t.Fatalf("Capacity() = %d, want %d", h.Capacity(), DefaultLagHistoryCapacity)
	}

	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Second)
	t3 := t2.Add(5 * time.Second)
	h.Append(lagSnapshot(t1, 100, 40))
	h.Append(lagSnapshot(t2, 200, 90))
	h.Append(lagSnapshot(t3, 150, 60))

	points := h.Points()
	if len(points) != 3 {
		t.Fatalf("Points() len = %d, want 3", len(points))
	}
	wantTotals := []int64{100, 200, 150}
	wantTimes := []time.Time{t1, t2, t3}
	for i := range points {
		if points[i].TotalLag != wantTotals[i] {
			t.Fatalf("point %d total = %d, want %d", i, points[i].TotalLag, wantTotals[i])
		}
		if !points[i].Timestamp.Equal(wantTimes[i]) {
			t.Fatalf("point %d timestamp = %v, want %v", i, points[i].Timestamp, wantTimes[i])
		}
	}
	if points[1].P95Lag != 90 {
		t.Fatalf("point 1 p95 = %d, want 90", points[1].P95Lag)
	}

	last, ok := h.Last()
	if !ok || last.TotalLag != 150 || !last.Timestamp.Equal(t3) {
		t.Fatalf("Last() = %+v, %v; want most recent point", last, ok)
	}
}

func TestLagHistoryEvictsOldestAtCapacity(t *testing.T) {
	h := NewLagHistory(DefaultLagHistoryCapacity)
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < DefaultLagHistoryCapacity+5; i++ {
		h.Append(lagSnapshot(start.Add(time.Duration(i)*time.Second), int64(i), int64(i)))
	}

	if h.Len() != DefaultLagHistoryCapacity {
		t.Fatalf("Len() = %d, want %d", h.Len(), DefaultLagHistoryCapacity)
	}
	points := h.Points()
	if points[0].TotalLag != 5 {
		t.Fatalf("oldest point total = %d, want 5 (first five evicted)", points[0].TotalLag)
	}
	if points[len(points)-1].TotalLag != int64(DefaultLagHistoryCapacity+4) {
		t.Fatalf("newest point total = %d, want %d", points[len(points)-1].TotalLag, DefaultLagHistoryCapacity+4)
	}
}

func TestLagHistorySmallCapacity(t *testing.T) {
	h := NewLagHistory(3)
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= 4; i++ {
		h.Append(lagSnapshot(start.Add(time.Duration(i)*time.Second), int64(i*10), int64(i)))
	}

	points := h.Points()
	if len(points) != 3 {
		t.Fatalf("Points() len = %d, want 3", len(points))
	}
	if points[0].TotalLag != 20 || points[2].TotalLag != 40 {
		t.Fatalf("window unexpected: %+v", points)
	}

	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", h.Len())
	}
	if _, ok := h.Last(); ok {
		t.Fatalf("Last() after Reset should report empty")
	}
}

func TestLagHistoryPointsReturnsCopy(t *testing.T) {
	h := NewLagHistory(5)
	h.Append(lagSnapshot(time.Now().UTC(), 42, 7))

	points := h.Points()
	points[0].TotalLag = 9999

	again := h.Points()
	if again[0].TotalLag != 42 {
		t.Fatalf("internal buffer mutated through Points() result: %+v", again[0])
	}
}
