package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/limhaneul12/kafka-gov-console/internal/auth"
	"github.com/limhaneul12/kafka-gov-console/internal/console"
	"github.com/limhaneul12/kafka-gov-console/internal/gateway"
	"github.com/limhaneul12/kafka-gov-console/internal/lifecycle"
	"github.com/limhaneul12/kafka-gov-console/internal/logx"
	"github.com/limhaneul12/kafka-gov-console/internal/security"
	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

func main() {
	logger, closeLogger, err := logx.Init("consoled")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if err := closeLogger(); err != nil {
			slog.Error("failed to close logger", "error", err)
		}
	}()

	stdLog := slog.NewLogLogger(logger.Handler(), slog.LevelInfo)
	log.SetFlags(0)
	log.SetOutput(stdLog.Writer())

	// Initialize SQLite database
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	dbPath := filepath.Join(dataDir, "console.db")

	slog.Info("initializing database", "component", "store", "db_path", dbPath)
	if err := store.InitDB(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.CloseDB()
	slog.Info("database initialized", "component", "store")

	ctx := context.Background()

	authStore := store.NewAuthStore()
	if err := auth.EnsureAdmin(ctx, authStore); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}

	var tokenCipher *security.TokenCipher
	if os.Getenv(security.TokenEncryptionKeyEnv) != "" {
		tokenCipher, err = security.NewTokenCipherFromEnv()
		if err != nil {
			log.Fatalf("Failed to initialize token cipher: %v", err)
		}
		slog.Info("token cipher initialized", "component", "security")
	} else {
		slog.Warn("token encryption key not set, upstream token will not be persisted", "component", "security")
	}

	auditStore := store.NewConsoleAuditStore()
	settingsStore := store.NewSettingsStore()

	gatewayConfig := gateway.LoadConfig()
	upstreamToken, err := console.ResolveUpstreamToken(ctx, settingsStore, tokenCipher)
	if err != nil {
		log.Fatalf("Failed to resolve upstream token: %v", err)
	}
	if upstreamToken == "" {
		slog.Warn("no upstream API token configured, proxied requests will be anonymous", "component", "gateway")
	}
	gatewayConfig.UpstreamToken = upstreamToken
	slog.Info("gateway configured", "component", "gateway", "upstream", gatewayConfig.UpstreamBaseURL)

	drainState := lifecycle.NewDrainManager()

	gatewaySvc, err := gateway.NewService(gatewayConfig, drainState, auditStore)
	if err != nil {
		log.Fatalf("Failed to create gateway service: %v", err)
	}

	sessionTTL := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			sessionTTL = d
		}
	}

	auditRetention := 90 * 24 * time.Hour
	if v := os.Getenv("AUDIT_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days >= 0 {
			auditRetention = time.Duration(days) * 24 * time.Hour
		}
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := authStore.DeleteExpiredSessions(ctx, time.Now()); err == nil && n > 0 {
				slog.Info("expired sessions removed", "component", "auth", "count", n)
			}
			if auditRetention > 0 {
				if n, err := auditStore.PurgeOlderThan(ctx, time.Now().Add(-auditRetention)); err == nil && n > 0 {
					slog.Info("old console audit records purged", "component", "store", "count", n)
				}
			}
		}
	}()

	authHandler := console.NewAuthHandler(authStore, sessionTTL, nil)
	auditHandler := console.NewAuditHandler(auditStore)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logx.RequestIDMiddleware())
	r.Use(logx.AccessLogMiddleware("console_http"))

	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		corsOrigins = strings.Split(v, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version", "Sec-WebSocket-Extensions", "Sec-WebSocket-Protocol"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(func(c *gin.Context) {
		if drainState.IsDraining() && c.Request.URL.Path != "/healthz" && c.Request.URL.Path != "/readyz" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service is draining"})
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if drainState.IsDraining() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "draining"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gateway.Registry, promhttp.HandlerOpts{})))

	authHandler.RegisterRoutes(r.Group("/auth"), auth.AuthMiddleware(authStore))

	consoleGroup := r.Group("/console")
	consoleGroup.Use(auth.AuthMiddleware(authStore))
	auditHandler.RegisterRoutes(consoleGroup)

	api := r.Group("/api/v1")
	api.Use(auth.AuthMiddleware(authStore))
	gatewaySvc.RegisterRoutes(api)

	console.RegisterStatic(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	shutdownTimeout := 30 * time.Second
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			shutdownTimeout = d
		}
	}

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// Batch applies can hold the response open while the backend works
		// through a large document, so the write timeout stays generous.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("console server starting", "component", "http_server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down console server...")

	drainState.StartDraining()
	time.Sleep(2 * time.Second)

	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer drainCancel()
	if err := drainState.WaitRelays(drainCtx); err != nil {
		log.Printf("Console drained with timeout, remaining active relays: %d", drainState.ActiveRelays())
	}

	log.Println("Console server stopped")
}
