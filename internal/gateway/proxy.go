package gateway

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/limhaneul12/kafka-gov-console/internal/logx"
	"github.com/limhaneul12/kafka-gov-console/pkg/model"
)

const (
	relayWriteTimeout = 10 * time.Second
	relayPongTimeout  = 60 * time.Second
	relayPingInterval = 25 * time.Second

	responseCaptureLimit = 64 << 10
)

// ProxyHandler forwards a console API request to the governance backend.
// WebSocket upgrades (the live snapshot stream) are relayed instead of
// proxied.
func (s *Service) ProxyHandler(c *gin.Context) {
	if isWebSocketUpgrade(c.Request) {
		s.handleLiveRelay(c)
		return
	}

	if isMutatingMethod(c.Request.Method) {
		cw := &captureWriter{ResponseWriter: c.Writer}
		s.proxy.ServeHTTP(cw, c.Request)
		status := c.Writer.Status()
		ProxyRequestCounter.WithLabelValues(c.Request.Method, strconv.Itoa(status)).Inc()
		s.recordProxiedChange(c, status, cw.body.Bytes())
		return
	}

	s.proxy.ServeHTTP(c.Writer, c.Request)
	ProxyRequestCounter.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
}

func (s *Service) newUpstreamProxy() *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(s.upstream)

	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = s.upstream.Host

		// Console credentials stay on the console side. The upstream only
		// ever sees the service token.
		req.Header.Del("Cookie")
		if s.config.UpstreamToken != "" {
			req.Header.Set("Authorization", "Bearer "+s.config.UpstreamToken)
		} else {
			req.Header.Del("Authorization")
		}
	}

	proxy.Transport = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: s.config.RequestTimeout,
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		UpstreamErrorCounter.Inc()
		logx.LoggerWithRequestID(r.Context()).With("component", "gateway").
			Error("upstream request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"failed to reach governance backend"}`))
	}

	return proxy
}

// handleLiveRelay bridges a console websocket to the upstream live snapshot
// stream, one message pump per direction.
func (s *Service) handleLiveRelay(c *gin.Context) {
	logger := logx.LoggerWithRequestID(c.Request.Context()).With("component", "live_relay")

	if s.drainState != nil && s.drainState.IsDraining() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service is draining"})
		return
	}
	release := func() {}
	if s.drainState != nil {
		release = s.drainState.TrackRelay()
	}
	defer release()

	backendURL := &url.URL{
		Scheme:   wsScheme(s.upstream.Scheme),
		Host:     s.upstream.Host,
		Path:     strings.TrimSuffix(s.upstream.Path, "/") + c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
	header := cloneWebSocketHeaders(c.Request.Header)
	if s.config.UpstreamToken != "" {
		header.Set("Authorization", "Bearer "+s.config.UpstreamToken)
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: s.config.HandshakeTimeout,
	}
	backendConn, resp, err := dialer.Dial(backendURL.String(), header)
	if err != nil {
		UpstreamErrorCounter.Inc()
		status := http.StatusBadGateway
		if resp != nil {
			status = resp.StatusCode
			resp.Body.Close()
		}
		logger.Warn("failed to open upstream live stream", "path", c.Request.URL.Path, "status", status, "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "failed to connect to live stream"})
		return
	}
	defer backendConn.Close()

	upgrader := websocket.Upgrader{
		CheckOrigin:     func(r *http.Request) bool { return true },
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if protocol := backendConn.Subprotocol(); protocol != "" {
		upgrader.Subprotocols = []string{protocol}
	}

	clientConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("failed to upgrade console connection", "error", err)
		return
	}
	defer clientConn.Close()

	LiveRelayGauge.Inc()
	defer LiveRelayGauge.Dec()

	armKeepAlive(clientConn)
	armKeepAlive(backendConn)

	done := make(chan struct{})
	defer close(done)
	go pingLoop(clientConn, done)
	go pingLoop(backendConn, done)

	errChan := make(chan error, 2)
	go func() {
		errChan <- relayWebSocketMessages(clientConn, backendConn)
	}()
	go func() {
		errChan <- relayWebSocketMessages(backendConn, clientConn)
	}()

	select {
	case <-c.Request.Context().Done():
	case <-errChan:
	}
}

// isWebSocketUpgrade checks if the request is a WebSocket upgrade request
func isWebSocketUpgrade(req *http.Request) bool {
	return strings.EqualFold(req.Header.Get("Upgrade"), "websocket") &&
		strings.Contains(strings.ToLower(req.Header.Get("Connection")), "upgrade")
}

func wsScheme(httpScheme string) string {
	if httpScheme == "https" || httpScheme == "wss" {
		return "wss"
	}
	return "ws"
}

// cloneWebSocketHeaders copies forwardable headers for the upstream dial.
// Handshake headers are regenerated by the dialer; console credentials
// (cookie, bearer) never cross to the upstream.
func cloneWebSocketHeaders(src http.Header) http.Header {
	dst := http.Header{}
	for key, values := range src {
		switch strings.ToLower(key) {
		case "connection", "upgrade", "sec-websocket-key", "sec-websocket-version", "sec-websocket-extensions", "host", "cookie", "authorization":
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
	return dst
}

// armKeepAlive sets the pong-refreshed read deadline. Must run before the
// relay pumps start reading.
func armKeepAlive(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(relayPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(relayPongTimeout))
	})
}

func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(relayPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(relayWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func relayWebSocketMessages(dst, src *websocket.Conn) error {
	for {
		messageType, message, err := src.ReadMessage()
		if err != nil {
			return err
		}
		_ = dst.SetWriteDeadline(time.Now().Add(relayWriteTimeout))
		if err := dst.WriteMessage(messageType, message); err != nil {
			return err
		}
	}
}

// captureWriter tees the response body so the audit recorder can lift
// change ids out of batch apply responses. Capture is capped; anything
// past the limit only streams to the client.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if remain := responseCaptureLimit - w.body.Len(); remain > 0 {
		if len(b) <= remain {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remain])
		}
	}
	return w.ResponseWriter.Write(b)
}

func extractChangeID(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var single model.BatchApplyResult
	if err := json.Unmarshal(body, &single); err == nil && single.ChangeID != "" {
		return single.ChangeID
	}
	var many []model.BatchApplyResult
	if err := json.Unmarshal(body, &many); err == nil {
		ids := make([]string, 0, len(many))
		for _, r := range many {
			if r.ChangeID != "" {
				ids = append(ids, r.ChangeID)
			}
		}
		return strings.Join(ids, ",")
	}
	return ""
}
