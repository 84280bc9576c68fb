package kafgov

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func writeSnapshot(conn *websocket.Conn, ts time.Time, total, p95 int64) error {
	snap := lagSnapshot(ts, total, p95)
	return conn.WriteJSON(liveMessage{Type: liveMessageSnapshot, Snapshot: &snap})
}

func TestSubscribeDeliversSnapshotsInOrder(t *testing.T) {
	upgrader := websocket.Upgrader{}
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/consumers/orders-consumer/live" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("cluster_id") != "kc-main" {
			t.Errorf("cluster_id not passed: %q", r.URL.RawQuery)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		totals := []int64{100, 200, 150}
		p95s := []int64{40, 90, 60}
		for i := range totals {
			if err := writeSnapshot(conn, base.Add(time.Duration(i)*5*time.Second), totals[i], p95s[i]); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		conn.ReadMessage()
	}))
	defer server.Close()

	received := make(chan LiveSnapshot, 8)
	client := NewClient(server.URL)
	sub, err := client.Live.Subscribe(context.Background(), "kc-main", "orders-consumer", func(s LiveSnapshot) {
		received <- s
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	var got []LiveSnapshot
	for i := 0; i < 3; i++ {
		select {
		case s := <-received:
			got = append(got, s)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for snapshot %d", i)
		}
	}

	wantTotals := []int64{100, 200, 150}
	for i := range got {
		if got[i].LagStats.Total != wantTotals[i] {
			t.Fatalf("snapshot %d total = %d, want %d", i, got[i].LagStats.Total, wantTotals[i])
		}
	}

	points := sub.History().Points()
	if len(points) != 3 {
		t.Fatalf("History() len = %d, want 3", len(points))
	}
	for i := range points {
		if points[i].TotalLag != wantTotals[i] {
			t.Fatalf("history point %d total = %d, want %d", i, points[i].TotalLag, wantTotals[i])
		}
		if !points[i].Timestamp.Equal(base.Add(time.Duration(i) * 5 * time.Second)) {
			t.Fatalf("history point %d timestamp = %v", i, points[i].Timestamp)
		}
	}
	if points[2].P95Lag != 60 {
		t.Fatalf("history point 2 p95 = %d, want 60", points[2].P95Lag)
	}
}

func TestSubscriptionCloseStopsDeliveryDeterministically(t *testing.T) {
	upgrader := websocket.Upgrader{}
	stop := make(chan struct{})
	defer close(stop)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := writeSnapshot(conn, time.Now().UTC(), 100, 50); err != nil {
					return
				}
			}
		}
	}))
	defer server.Close()

	var mu sync.Mutex
	count := 0
	firstDelivered := make(chan struct{})

	client := NewClient(server.URL)
	sub, err := client.Live.Subscribe(context.Background(), "kc-main", "orders-consumer", func(s LiveSnapshot) {
		mu.Lock()
		count++
		if count == 1 {
			close(firstDelivered)
		}
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case <-firstDelivered:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for first snapshot")
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	mu.Lock()
	countAtClose := count
	mu.Unlock()
	lenAtClose := sub.History().Len()

	// The server keeps emitting; a closed subscription must not observe it.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	if count != countAtClose {
		mu.Unlock()
		t.Fatalf("handler invoked after Close: %d -> %d", countAtClose, count)
	}
	mu.Unlock()
	if got := sub.History().Len(); got != lenAtClose {
		t.Fatalf("history mutated after Close: %d -> %d", lenAtClose, got)
	}

	// Close is idempotent.
	if err := sub.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	select {
	case <-sub.Done():
	default:
		t.Fatalf("Done() not closed after Close")
	}
}

func TestSubscriptionReconnectsAfterConnectionLoss(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var mu sync.Mutex
	dials := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		dials++
		n := dials
		mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if n == 1 {
			// First connection drops right after one snapshot.
			writeSnapshot(conn, time.Now().UTC(), 100, 50)
			return
		}
		if err := writeSnapshot(conn, time.Now().UTC(), 200, 90); err != nil {
			return
		}
		conn.ReadMessage()
	}))
	defer server.Close()

	received := make(chan LiveSnapshot, 8)
	client := NewClient(server.URL)
	sub, err := client.Live.Subscribe(context.Background(), "kc-main", "orders-consumer", func(s LiveSnapshot) {
		received <- s
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	waitFor := func(wantTotal int64) {
		t.Helper()
		for {
			select {
			case s := <-received:
				if s.LagStats.Total == wantTotal {
					return
				}
			case <-time.After(5 * time.Second):
				t.Fatalf("timed out waiting for snapshot with total %d", wantTotal)
			}
		}
	}

	waitFor(100)
	waitFor(200)

	mu.Lock()
	defer mu.Unlock()
	if dials < 2 {
		t.Fatalf("dials = %d, want at least 2 (no reconnect happened)", dials)
	}
}

func TestSubscribeHandshakeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Live.Subscribe(context.Background(), "kc-main", "orders-consumer", nil)
	if err == nil {
		t.Fatalf("Subscribe() expected error for rejected handshake")
	}
	if !IsUnauthorized(err) {
		t.Fatalf("Subscribe() error = %v, want unauthorized", err)
	}
}

func TestSubscribeValidatesArguments(t *testing.T) {
	client := NewClient("http://localhost:0")
	if _, err := client.Live.Subscribe(context.Background(), "", "orders-consumer", nil); err == nil {
		t.Fatalf("Subscribe() expected error for missing cluster id")
	}
	if _, err := client.Live.Subscribe(context.Background(), "kc-main", "", nil); err == nil {
		t.Fatalf("Subscribe() expected error for missing group id")
	}
}

func TestLiveMonitorStartStopRestart(t *testing.T) {
	upgrader := websocket.Upgrader{}
	stop := make(chan struct{})
	defer close(stop)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		total := int64(0)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				total += 10
				if err := writeSnapshot(conn, time.Now().UTC(), total, total/2); err != nil {
					return
				}
			}
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	monitor := client.Live.NewLiveMonitor("kc-main", "orders-consumer", nil)

	if err := monitor.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !monitor.Running() {
		t.Fatalf("Running() = false after Start")
	}
	if err := monitor.Start(context.Background()); err == nil {
		t.Fatalf("second Start() expected error while running")
	}

	waitUntil := func(cond func() bool, what string) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if cond() {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatalf("timed out waiting for %s", what)
	}

	waitUntil(func() bool { _, ok := monitor.Latest(); return ok }, "first snapshot")

	monitor.Stop()
	if monitor.Running() {
		t.Fatalf("Running() = true after Stop")
	}

	lenAtStop := monitor.History().Len()
	latestAtStop, _ := monitor.Latest()
	time.Sleep(50 * time.Millisecond)
	if got := monitor.History().Len(); got != lenAtStop {
		t.Fatalf("history mutated after Stop: %d -> %d", lenAtStop, got)
	}
	if latest, _ := monitor.Latest(); latest.LagStats.Total != latestAtStop.LagStats.Total {
		t.Fatalf("latest snapshot changed after Stop")
	}

	// Restarting keeps appending to the same history.
	if err := monitor.Start(context.Background()); err != nil {
		t.Fatalf("restart Start() error = %v", err)
	}
	waitUntil(func() bool { return monitor.History().Len() > lenAtStop }, "snapshot after restart")
	monitor.Stop()
}
