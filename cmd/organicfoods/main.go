package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"organicfoods/internal/cart"
	"organicfoods/internal/catalog"
	"organicfoods/internal/checkout"
	"organicfoods/internal/config"
	"organicfoods/internal/http/server"
	applog "organicfoods/internal/log"
	"organicfoods/internal/telemetry"
)

func main() {
	cfg := config.LoadStorefront()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Error(nil, "log.file.open", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "organicfoods", cfg.OTLPEndpoint)
	if err != nil {
		applog.Error(nil, "telemetry.init", err, nil)
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			applog.Error(nil, "telemetry.shutdown", err, nil)
		}
	}()

	var src catalog.Source = catalog.NewClient(cfg.CatalogURL, catalog.Options{
		Timeout:     cfg.CatalogTimeout,
		PointLookup: cfg.CatalogPointLookup,
	})
	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the cache degrades to direct fetches, so a missing redis is not fatal
			applog.Error(nil, "redis.ping", err, map[string]any{"addr": cfg.RedisAddr})
		}
		src = catalog.NewCached(src, catalog.NewRedisCache(rdb, cfg.CatalogCacheTTL))
	}

	sessions := cart.NewSessions(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	app := server.NewStorefront(cfg, src, sessions, checkout.NewFlow(checkout.LogSubmitter{}), server.DefaultLimits)

	go func() {
		<-ctx.Done()
		applog.Info(nil, "server.shutdown", nil)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			applog.Error(nil, "server.shutdown", err, nil)
		}
	}()

	applog.Info(nil, "server.start", map[string]any{"addr": ":" + cfg.Port})
	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.Error(nil, "server.listen", err, nil)
		os.Exit(1)
	}
}
