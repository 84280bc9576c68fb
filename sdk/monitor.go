package kafgov

import (
	"context"
	"fmt"
	"sync"

	"github.com/limhaneul12/kafka-gov-console/pkg/model"
)

// LiveMonitor tracks one consumer group's live lag over time. It holds the
// latest snapshot and a rolling lag history that survive reconnects, and
// can be stopped and restarted. Safe for concurrent use.
type LiveMonitor struct {
	feed      *LiveFeed
	clusterID string
	groupID   string

	mu      sync.Mutex
	sub     *Subscription
	history *LagHistory
	latest  *model.LiveSnapshot
	handler SnapshotHandler
}

// NewLiveMonitor creates a monitor for one (cluster, group) pair. The
// optional handler is invoked for every snapshot after the monitor's own
// state has been updated.
func (f *LiveFeed) NewLiveMonitor(clusterID, groupID string, handler SnapshotHandler) *LiveMonitor {
	return &LiveMonitor{
		feed:      f,
		clusterID: clusterID,
		groupID:   groupID,
		history:   NewLagHistory(DefaultLagHistoryCapacity),
		handler:   handler,
	}
}

// Start subscribes to the group's live stream. Starting an already running
// monitor is an error; a stopped monitor can be started again and keeps
// appending to the same history.
func (m *LiveMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sub != nil {
		return fmt.Errorf("live monitor already running")
	}

	sub, err := m.feed.Subscribe(ctx, m.clusterID, m.groupID, m.observe)
	if err != nil {
		return err
	}
	m.sub = sub
	return nil
}

// Stop tears down the subscription. After Stop returns, the latest snapshot
// and the history no longer change. Stopping a stopped monitor is a no-op.
func (m *LiveMonitor) Stop() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// Running reports whether the monitor currently holds a subscription.
func (m *LiveMonitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sub != nil
}

// Latest returns the most recent snapshot, if one has arrived.
func (m *LiveMonitor) Latest() (model.LiveSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.latest == nil {
		return model.LiveSnapshot{}, false
	}
	return *m.latest, true
}

// History returns the monitor's rolling lag history.
func (m *LiveMonitor) History() *LagHistory {
	return m.history
}

// observe folds one snapshot into the monitor state, then forwards it.
func (m *LiveMonitor) observe(snapshot model.LiveSnapshot) {
	m.mu.Lock()
	snap := snapshot
	m.latest = &snap
	m.mu.Unlock()

	m.history.Append(snapshot)
	if m.handler != nil {
		m.handler(snapshot)
	}
}
