package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

func seedConsoleAudit(t *testing.T, s *store.ConsoleAuditStore, n int, base time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		actor := "admin"
		if i%2 == 1 {
			actor = "key:ci-deploy"
		}
		if err := s.Append(context.Background(), &store.ConsoleAuditRecord{
			ID:           fmt.Sprintf("aud-%d", i),
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
			Actor:        actor,
			Action:       "post",
			ResourceType: "topics",
			Resource:     "batch/apply",
			ClusterID:    "kc-main",
			Outcome:      "success",
		}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
}

func newAuditTestServer(t *testing.T, auditStore *store.ConsoleAuditStore) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuditHandler(auditStore).RegisterRoutes(r.Group("/console"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestConsoleAuditRecentEndpoint(t *testing.T) {
	initConsoleTestDB(t)
	auditStore := store.NewConsoleAuditStore()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	seedConsoleAudit(t, auditStore, 5, base)
	srv := newAuditTestServer(t, auditStore)

	resp, err := http.Get(srv.URL + "/console/audit/recent?limit=3")
	if err != nil {
		t.Fatalf("GET recent error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var items []consoleAuditItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != "aud-4" {
		t.Errorf("first item = %s, want aud-4 (newest first)", items[0].ID)
	}
}

func TestConsoleAuditListEndpoint(t *testing.T) {
	initConsoleTestDB(t)
	auditStore := store.NewConsoleAuditStore()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	seedConsoleAudit(t, auditStore, 6, base)
	srv := newAuditTestServer(t, auditStore)

	resp, err := http.Get(srv.URL + "/console/audit?actor=admin&page=1&page_size=2")
	if err != nil {
		t.Fatalf("GET list error = %v", err)
	}
	defer resp.Body.Close()

	var page consoleAuditPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3 admin rows", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items on the page, got %d", len(page.Items))
	}
	for _, item := range page.Items {
		if item.Actor != "admin" {
			t.Errorf("item %s actor = %q, want admin", item.ID, item.Actor)
		}
	}

	since := base.Add(3 * time.Minute).Format(time.RFC3339)
	resp, err = http.Get(srv.URL + "/console/audit?since=" + since)
	if err != nil {
		t.Fatalf("GET list since error = %v", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if page.Total != 3 {
		t.Errorf("since filter Total = %d, want 3", page.Total)
	}

	resp, err = http.Get(srv.URL + "/console/audit?since=yesterday")
	if err != nil {
		t.Fatalf("GET list bad since error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad since: expected status 400, got %d", resp.StatusCode)
	}
}
