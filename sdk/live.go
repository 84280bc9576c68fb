package kafgov

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/limhaneul12/kafka-gov-console/pkg/model"
)

const (
	reconnectInitialInterval = 500 * time.Millisecond
	reconnectMaxInterval     = 30 * time.Second
)

// SnapshotHandler receives each live snapshot as it arrives. Handlers are
// invoked sequentially from a single reader goroutine, in arrival order.
type SnapshotHandler func(model.LiveSnapshot)

// LiveFeed subscribes to per-group live lag snapshot streams.
type LiveFeed struct {
	client *Client
}

// liveMessage is one frame on the live snapshot stream.
type liveMessage struct {
	Type     string              `json:"type"`
	Error    string              `json:"error,omitempty"`
	Snapshot *model.LiveSnapshot `json:"snapshot,omitempty"`
}

const (
	liveMessageSnapshot = "snapshot"
	liveMessageError    = "error"
)

// Subscription is a live snapshot stream for one (cluster, group) pair.
//
// The subscription maintains its own connection: on connection loss it
// reconnects with exponential backoff until Close is called or the
// subscribe context is canceled. Received snapshots are appended to the
// subscription's LagHistory and passed to the handler.
type Subscription struct {
	clusterID string
	groupID   string
	url       string
	dialer    *websocket.Dialer
	header    http.Header
	handler   SnapshotHandler
	history   *LagHistory

	// mu guards closed and wraps handler dispatch so that Close is
	// deterministic: once Close returns, the handler is never invoked again.
	mu     sync.Mutex
	closed bool

	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}

	connMu sync.Mutex
	conn   *websocket.Conn
}

// Subscribe opens a live snapshot stream for a consumer group. The first
// connection is established before Subscribe returns; later connection
// losses are retried with exponential backoff. The returned subscription
// must be closed to release the stream.
func (f *LiveFeed) Subscribe(ctx context.Context, clusterID, groupID string, onSnapshot SnapshotHandler) (*Subscription, error) {
	if clusterID == "" {
		return nil, fmt.Errorf("cluster id is required")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group id is required")
	}

	header := http.Header{}
	header.Set("User-Agent", f.client.userAgent)
	if f.client.authToken != "" {
		header.Set("Authorization", "Bearer "+f.client.authToken)
	}

	sub := &Subscription{
		clusterID: clusterID,
		groupID:   groupID,
		url: f.client.websocketURL(
			f.client.buildPath("consumers", groupID, "live"),
			map[string]string{"cluster_id": clusterID},
		),
		dialer:  websocket.DefaultDialer,
		header:  header,
		handler: onSnapshot,
		history: NewLagHistory(DefaultLagHistoryCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}

	conn, err := sub.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open live stream: %w", err)
	}

	go sub.run(ctx, conn)
	return sub, nil
}

// History returns the subscription's rolling lag history.
func (s *Subscription) History() *LagHistory {
	return s.history
}

// Done is closed once the subscription's reader has fully stopped, whether
// by Close or by context cancellation.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close tears the subscription down. It is idempotent and blocks until the
// reader goroutine has stopped; after Close returns the handler is never
// invoked again and the lag history no longer changes. Close must not be
// called from the snapshot handler.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.closeCh)
		s.closeConn()
	})
	<-s.done
	return nil
}

// run consumes the stream, reconnecting with exponential backoff after
// connection loss. The backoff resets after every successful dial.
func (s *Subscription) run(ctx context.Context, conn *websocket.Conn) {
	defer close(s.done)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = reconnectInitialInterval
	bo.MaxInterval = reconnectMaxInterval
	bo.MaxElapsedTime = 0

	for {
		if conn != nil {
			bo.Reset()
			s.consume(conn)
			conn = nil
		}
		if s.isClosed() || ctx.Err() != nil {
			return
		}

		timer := time.NewTimer(bo.NextBackOff())
		select {
		case <-timer.C:
		case <-s.closeCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}

		next, err := s.dial(ctx)
		if err != nil {
			continue
		}
		if s.isClosed() {
			next.Close()
			return
		}
		conn = next
	}
}

// dial opens one connection to the stream endpoint.
func (s *Subscription) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, s.header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    "live stream handshake rejected",
				Err:        err,
			}
		}
		return nil, err
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	return conn, nil
}

// consume reads frames from one connection until it fails or the
// subscription is closed.
func (s *Subscription) consume(conn *websocket.Conn) {
	defer s.closeConn()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg liveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case liveMessageSnapshot:
			if msg.Snapshot != nil {
				s.dispatch(*msg.Snapshot)
			}
		case liveMessageError:
			return
		}
	}
}

// dispatch appends the snapshot to the history and invokes the handler,
// unless the subscription has been closed.
func (s *Subscription) dispatch(snapshot model.LiveSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.history.Append(snapshot)
	if s.handler != nil {
		s.handler(snapshot)
	}
}

func (s *Subscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Subscription) closeConn() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
