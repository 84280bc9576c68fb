package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errDrainTimeout = errors.New("timeout waiting for live relay sessions to drain")

// DrainManager tracks draining state and active live relay sessions.
type DrainManager struct {
	draining   atomic.Bool
	relays     atomic.Int64
	relayGroup sync.WaitGroup
}

func NewDrainManager() *DrainManager {
	return &DrainManager{}
}

func (m *DrainManager) StartDraining() {
	m.draining.Store(true)
}

func (m *DrainManager) IsDraining() bool {
	return m.draining.Load()
}

func (m *DrainManager) ActiveRelays() int64 {
	return m.relays.Load()
}

// TrackRelay registers a live relay session and returns a release callback.
func (m *DrainManager) TrackRelay() func() {
	m.relayGroup.Add(1)
	m.relays.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.relays.Add(-1)
			m.relayGroup.Done()
		})
	}
}

func (m *DrainManager) WaitRelays(ctx context.Context) error {
	waitDone := make(chan struct{})
	go func() {
		m.relayGroup.Wait()
		close(waitDone)
	}()

	select {
	case <-ctx.Done():
		return errDrainTimeout
	case <-waitDone:
		return nil
	}
}
