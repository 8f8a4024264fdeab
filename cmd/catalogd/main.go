package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"organicfoods/internal/config"
	"organicfoods/internal/http/server"
	applog "organicfoods/internal/log"
	"organicfoods/internal/repos"
	"organicfoods/internal/telemetry"
)

func main() {
	cfg := config.LoadCatalogd()

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

	shutdownTracing, err := telemetry.Init(ctx, "catalogd", cfg.OTLPEndpoint)
	if err != nil {
		applog.Error(nil, "telemetry.init", err, nil)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		applog.Error(nil, "db.open", err, map[string]any{"dsn": cfg.DBDSN})
		os.Exit(1)
	}
	defer db.Close()

	app := server.NewCatalogd(repos.NewProductRepo(db))
	go func() {
		<-ctx.Done()
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
