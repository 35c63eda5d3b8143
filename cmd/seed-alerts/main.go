// Command seed-alerts resets the stored alert collection to the bundled
// demo alerts.
package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-crisis-alerts/internal/config"
	"github.com/mr1hm/go-crisis-alerts/internal/logging"
	"github.com/mr1hm/go-crisis-alerts/internal/models"
	"github.com/mr1hm/go-crisis-alerts/internal/repository"
)

func main() {
	wipe := flag.Bool("clear", false, "delete the stored collection instead of seeding it")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Storage.Backend == config.BackendMemory {
		logging.Fatalf("memory backend does not outlive this process, nothing to seed")
	}

	backend, err := repository.Open(cfg.Storage)
	if err != nil {
		logging.Fatalf("Failed to initialize storage: %v", err)
	}
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *wipe {
		if err := backend.Delete(ctx); err != nil {
			logging.Fatalf("Failed to clear alerts: %v", err)
		}
		slog.Info("cleared stored alerts", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)
		return
	}

	alerts := models.DefaultAlerts(time.Now())
	if err := backend.Save(ctx, alerts); err != nil {
		logging.Fatalf("Failed to seed alerts: %v", err)
	}
	slog.Info("seeded alerts", "count", len(alerts), "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)
}
