package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/limhaneul12/kafka-gov-console/internal/auth"
	"github.com/limhaneul12/kafka-gov-console/internal/lifecycle"
	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

func initGatewayTestDB(t *testing.T) *store.ConsoleAuditStore {
	t.Helper()
	if err := store.InitDB(filepath.Join(t.TempDir(), "console.db")); err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.CloseDB(); err != nil {
			t.Fatalf("CloseDB() error = %v", err)
		}
	})
	return store.NewConsoleAuditStore()
}

func newGatewayRouter(t *testing.T, upstreamURL string, drainState *lifecycle.DrainManager, audit *store.ConsoleAuditStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, err := NewService(&Config{
		UpstreamBaseURL:  upstreamURL,
		UpstreamToken:    "svc-upstream-token",
		RequestTimeout:   5 * time.Second,
		HandshakeTimeout: 5 * time.Second,
	}, drainState, audit)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyActor, "admin")
		c.Next()
	})
	svc.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func waitForAuditRows(t *testing.T, s *store.ConsoleAuditStore, n int) []store.ConsoleAuditRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rows, err := s.ListRecent(context.Background(), 20)
		if err != nil {
			t.Fatalf("ListRecent() error = %v", err)
		}
		if len(rows) >= n {
			return rows
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit rows", n)
	return nil
}

func TestProxyForwardsToUpstream(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotCookie string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"topics":[],"total":0}`))
	}))
	defer upstream.Close()

	r := newGatewayRouter(t, upstream.URL, nil, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/topics?cluster_id=kc-main", nil)
	req.Header.Set("Authorization", "Bearer kgv_console_key")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "browser-session"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("proxied request error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if gotPath != "/api/v1/topics" {
		t.Errorf("upstream path = %q, want /api/v1/topics", gotPath)
	}
	if gotQuery != "cluster_id=kc-main" {
		t.Errorf("upstream query = %q, want cluster_id=kc-main", gotQuery)
	}
	if gotAuth != "Bearer svc-upstream-token" {
		t.Errorf("upstream auth = %q, want the service token", gotAuth)
	}
	if gotCookie != "" {
		t.Errorf("console cookie leaked upstream: %q", gotCookie)
	}
}

func TestProxyRecordsMutationsInConsoleAudit(t *testing.T) {
	audit := initGatewayTestDB(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"topic not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"environment":"prod","change_id":"chg-7f3a","applied":["orders.created"],"skipped":[],"failed":[]}`))
	}))
	defer upstream.Close()

	r := newGatewayRouter(t, upstream.URL, nil, audit)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/topics/batch/apply?cluster_id=kc-main", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/topics/orders.retired?cluster_id=kc-main", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()

	rows := waitForAuditRows(t, audit, 2)
	byAction := map[string]store.ConsoleAuditRecord{}
	for _, row := range rows {
		byAction[row.Action] = row
	}

	applied, ok := byAction["post"]
	if !ok {
		t.Fatalf("no audit row for the batch apply, got %+v", rows)
	}
	if applied.Actor != "admin" {
		t.Errorf("Actor = %q, want admin", applied.Actor)
	}
	if applied.ResourceType != "topics" || applied.Resource != "batch/apply" {
		t.Errorf("resource = %q/%q, want topics/batch/apply", applied.ResourceType, applied.Resource)
	}
	if applied.ClusterID != "kc-main" {
		t.Errorf("ClusterID = %q, want kc-main", applied.ClusterID)
	}
	if applied.ChangeID != "chg-7f3a" {
		t.Errorf("ChangeID = %q, want chg-7f3a", applied.ChangeID)
	}
	if applied.Outcome != "success" {
		t.Errorf("Outcome = %q, want success", applied.Outcome)
	}

	deleted, ok := byAction["delete"]
	if !ok {
		t.Fatalf("no audit row for the delete, got %+v", rows)
	}
	if deleted.Outcome != "failure" {
		t.Errorf("delete Outcome = %q, want failure", deleted.Outcome)
	}
	if deleted.ResourceType != "topics" || deleted.Resource != "orders.retired" {
		t.Errorf("delete resource = %q/%q, want topics/orders.retired", deleted.ResourceType, deleted.Resource)
	}
}

func TestProxyUpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	r := newGatewayRouter(t, upstream.URL, nil, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/topics")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.StatusCode)
	}
}

func TestLiveRelayBridgesBothDirections(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer svc-upstream-token" {
			t.Errorf("upstream ws auth = %q, want the service token", got)
		}
		if got := r.Header.Get("Cookie"); got != "" {
			t.Errorf("console cookie leaked on ws dial: %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upstream upgrade error = %v", err)
			return
		}
		defer conn.Close()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"snapshot"}`)); err != nil {
			return
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, append([]byte("ack:"), msg...))
		conn.ReadMessage()
	}))
	defer upstream.Close()

	drainState := lifecycle.NewDrainManager()
	r := newGatewayRouter(t, upstream.URL, drainState, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/consumers/settlement-loader/live?cluster_id=kc-main"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("relay dial error = %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	_, first, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read relayed frame error = %v", err)
	}
	if string(first) != `{"type":"snapshot"}` {
		t.Errorf("relayed frame = %q", first)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping-up")); err != nil {
		t.Fatalf("write through relay error = %v", err)
	}
	_, second, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read ack error = %v", err)
	}
	if string(second) != "ack:ping-up" {
		t.Errorf("ack frame = %q, want ack:ping-up", second)
	}
}

func TestLiveRelayRejectedWhileDraining(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer upstream.Close()

	drainState := lifecycle.NewDrainManager()
	drainState.StartDraining()
	r := newGatewayRouter(t, upstream.URL, drainState, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/consumers/settlement-loader/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected relay dial to fail while draining")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %+v", resp)
	}
	resp.Body.Close()
}
