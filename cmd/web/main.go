package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"openguard.tv/ingest/cmd/web/internal/web"
	"openguard.tv/ingest/internal/application"
	"openguard.tv/ingest/internal/config"
	"openguard.tv/ingest/internal/db"
	"openguard.tv/ingest/internal/ingest"
	"openguard.tv/ingest/pkg/mux"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting ingest service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if conf.DatabaseRetries <= 0 {
		conf.DatabaseRetries = 10
	}

	// With required variables missing, the service still starts and every
	// API request is answered with a 500 naming them.
	var svc *ingest.Service
	if missing := conf.MissingVars(); len(missing) > 0 {
		slog.Error("missing required environment variables; API will refuse requests", "vars", missing)
	} else {
		pool, err := application.OpenDBPoolWithRetry(ctx, *conf)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		dbc, err := db.NewDatabaseConnection(ctx, pool)
		if err != nil {
			slog.Error("failed to create database connection", "error", err)
			os.Exit(1)
		}
		defer dbc.Close()

		if err := dbc.Migrate(ctx); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		host := mux.NewClient(conf.MuxBaseURL, conf.MuxTokenID, conf.MuxTokenSecret)
		svc = ingest.NewService(host, db.NewContentStore(dbc), ingest.ServiceConfig{
			CORSOrigin: conf.MuxCORSOrigin,
			Poll: ingest.PollConfig{
				Attempts: conf.AssetPollAttempts,
				Interval: conf.AssetPollInterval(),
			},
			Peek: ingest.PollConfig{
				Attempts: conf.AssetPeekAttempts,
				Interval: conf.AssetPeekInterval(),
			},
		})
	}

	e, err := web.NewWebserver(conf, svc)
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
