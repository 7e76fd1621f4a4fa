package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/PratikDhanave/carrier-sales-service/internal/catalog"
	"github.com/PratikDhanave/carrier-sales-service/internal/config"
	"github.com/PratikDhanave/carrier-sales-service/internal/dashboard"
	"github.com/PratikDhanave/carrier-sales-service/internal/httpserver"
	"github.com/PratikDhanave/carrier-sales-service/internal/observability/logger"
	"github.com/PratikDhanave/carrier-sales-service/internal/store"
)

// main boots the service: env → config → store → schema → HTTP server.
func main() {
	// A .env file is optional; real deployments inject the environment directly.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("invalid config: %v", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		stdlog.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("no .env file loaded", zap.Error(envErr))
	}

	st, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.String("storage", cfg.Storage), zap.Error(err))
	}
	defer st.Close()

	page, err := dashboard.NewPage(dashboard.PageConfig{})
	if err != nil {
		log.Fatal("failed to render dashboard", zap.Error(err))
	}

	router := httpserver.NewRouter(cfg, httpserver.Deps{
		Store:   st,
		Catalog: catalog.Default(),
		Page:    page,
		Log:     log,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage),
			zap.Bool("ingest_auth", cfg.IngestToken != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// openStore connects the configured backend. Postgres gets its schema applied
// so `docker compose up --build` is enough.
func openStore(cfg config.Config, log *zap.Logger) (store.EventStore, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory store; events are lost on restart")
		return store.NewMemoryStore(nil), nil
	}

	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
