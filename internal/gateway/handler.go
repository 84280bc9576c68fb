package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/limhaneul12/kafka-gov-console/internal/auth"
	"github.com/limhaneul12/kafka-gov-console/internal/lifecycle"
	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

// Service is the gateway fronting the governance backend: it proxies the
// /api/v1 surface, attaches the upstream service token, and relays live
// snapshot websocket streams.
type Service struct {
	config     *Config
	upstream   *url.URL
	proxy      *httputil.ReverseProxy
	drainState *lifecycle.DrainManager
	audit      *store.ConsoleAuditStore
}

// NewService creates a new gateway service
func NewService(config *Config, drainState *lifecycle.DrainManager, audit *store.ConsoleAuditStore) (*Service, error) {
	upstream, err := url.Parse(config.UpstreamBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream base URL: %w", err)
	}
	if upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("upstream base URL %q must be absolute", config.UpstreamBaseURL)
	}

	s := &Service{
		config:     config,
		upstream:   upstream,
		drainState: drainState,
		audit:      audit,
	}
	s.proxy = s.newUpstreamProxy()
	return s, nil
}

// RegisterRoutes registers the proxy routes on an already-authenticated group.
func (s *Service) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/*path", s.ProxyHandler)
	api.POST("/*path", s.ProxyHandler)
	api.PUT("/*path", s.ProxyHandler)
	api.DELETE("/*path", s.ProxyHandler)
	api.PATCH("/*path", s.ProxyHandler)
}

func isMutatingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// splitResourcePath splits a proxied path like "/topics/batch/apply" into
// the resource type and the remainder.
func splitResourcePath(path string) (string, string) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// recordProxiedChange appends a console audit row for a mutating request
// that went through the proxy. Writes are asynchronous so a slow disk never
// stalls the response path.
func (s *Service) recordProxiedChange(c *gin.Context, status int, body []byte) {
	if s.audit == nil {
		return
	}

	resourceType, resource := splitResourcePath(c.Param("path"))
	outcome := "success"
	if status >= 400 {
		outcome = "failure"
	}

	rec := &store.ConsoleAuditRecord{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Actor:        auth.Actor(c),
		Action:       strings.ToLower(c.Request.Method),
		ResourceType: resourceType,
		Resource:     resource,
		ClusterID:    c.Query("cluster_id"),
		Environment:  c.Query("environment"),
		ChangeID:     extractChangeID(body),
		Outcome:      outcome,
		Detail:       fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
	}
	go func() {
		_ = s.audit.Append(context.Background(), rec)
	}()
}
