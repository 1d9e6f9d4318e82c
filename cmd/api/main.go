package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maubinnav/maubinnav/internal/adapters/http"
	natsadapter "github.com/maubinnav/maubinnav/internal/adapters/nats"
	"github.com/maubinnav/maubinnav/internal/adapters/postgres"
	"github.com/maubinnav/maubinnav/internal/adapters/upstream"
	"github.com/maubinnav/maubinnav/internal/adapters/valkey"
	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/core/ports"
	"github.com/maubinnav/maubinnav/internal/core/usecases"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
	"github.com/maubinnav/maubinnav/internal/pkg/config"
	"github.com/maubinnav/maubinnav/internal/pkg/logging"
	"github.com/maubinnav/maubinnav/internal/pkg/telemetry"
)

const serviceName = "maubin-api"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(serviceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	checks := map[string]http.Pinger{}

	// Record source
	var source ports.RecordSource
	switch cfg.Source {
	case config.SourceUpstream:
		client := upstream.New(cfg.Upstream.BaseURL, time.Duration(cfg.Upstream.Timeout)*time.Second)
		source = client
		checks["upstream"] = client
		slog.Info("reading records from upstream API", "base_url", cfg.Upstream.BaseURL)
	default:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		go db.ReportPoolStats(ctx, 15*time.Second)
		source = postgres.NewRecordRepo(db)
		checks["database"] = db
	}

	// Cache
	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, serving uncached", "error", err)
	} else {
		defer vc.Close()
		cache = vc
		checks["cache"] = vc
	}

	taxonomy := category.Default.Extend(cfg.Taxonomy.Extra)
	norm := normalize.New(taxonomy)

	directory := usecases.NewDirectoryService(source, cache, norm, cfg.Valkey.CacheTTL)
	paths := usecases.NewPathService(directory, cfg.Paths.SnapRadius)
	catalog := usecases.NewCatalogService(taxonomy)

	// Change events invalidate cached listings.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable", "error", err)
	} else {
		defer sub.Close()
		err := sub.SubscribeChanges(ctx, func(ctx context.Context, ev domain.ChangeEvent) error {
			return directory.Invalidate(ctx, ev.Kind)
		})
		if err != nil {
			slog.Warn("subscribe to change events failed", "error", err)
		}
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	deps := &http.Dependencies{
		Directory:    directory,
		Paths:        paths,
		Catalog:      catalog,
		Source:       cfg.Source,
		Checks:       checks,
		NATS:         natsConn,
		AllowOrigins: cfg.Server.AllowOrigins,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024,
		AppName:      "Maubin Directory API",
	})
	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "source", cfg.Source)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
