package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-crisis-alerts/internal/api"
	"github.com/mr1hm/go-crisis-alerts/internal/broadcast"
	"github.com/mr1hm/go-crisis-alerts/internal/config"
	"github.com/mr1hm/go-crisis-alerts/internal/ingestion"
	"github.com/mr1hm/go-crisis-alerts/internal/logging"
	"github.com/mr1hm/go-crisis-alerts/internal/nearby"
	"github.com/mr1hm/go-crisis-alerts/internal/oracle"
	"github.com/mr1hm/go-crisis-alerts/internal/repository"
	"github.com/mr1hm/go-crisis-alerts/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "storage", cfg.Storage.Backend)

	backend, err := repository.Open(cfg.Storage)
	if err != nil {
		logging.Fatalf("Failed to initialize storage: %v", err)
	}
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broadcaster := broadcast.NewBroadcaster()
	alerts := store.New(backend, store.WithNotifier(broadcaster))

	// Load (and seed if needed) before accepting traffic. A failure here is
	// retried on the first request.
	if _, err := alerts.List(ctx); err != nil {
		slog.Error("initial alert load failed", "error", err)
	}

	directory, err := loadDirectory(cfg.Nearby)
	if err != nil {
		logging.Fatalf("Failed to load nearby services: %v", err)
	}

	var advisor api.Advisor
	gemini, err := oracle.NewGeminiClient(oracle.GeminiConfig{
		APIKey:  cfg.Oracle.APIKey,
		Model:   cfg.Oracle.Model,
		BaseURL: cfg.Oracle.BaseURL,
		Timeout: cfg.Oracle.Timeout,
	})
	switch {
	case errors.Is(err, oracle.ErrNotConfigured):
		slog.Warn("GEMINI_API_KEY not set, AI endpoints disabled")
	case err != nil:
		logging.Fatalf("Failed to initialize oracle: %v", err)
	default:
		advisor = oracle.NewAssistant(gemini)
	}

	mgr := ingestion.NewManager(cfg, alerts)
	mgr.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // must stay false with wildcard origins
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(alerts, advisor, directory, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown does not track hijacked websocket connections, so streams
	// are ended by closing the broadcaster once no new ones can arrive.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	broadcaster.Close()

	slog.Info("shutdown complete")
}

func loadDirectory(cfg config.NearbyConfig) (*nearby.Directory, error) {
	if cfg.ServicesFile == "" {
		return nearby.Default()
	}
	slog.Info("loading nearby services", "file", cfg.ServicesFile)
	return nearby.LoadFile(cfg.ServicesFile)
}
