package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aluiziolira/go-books-catalog/api"
	"github.com/aluiziolira/go-books-catalog/config"
	"github.com/aluiziolira/go-books-catalog/logging"
	"github.com/aluiziolira/go-books-catalog/storage"
)

func main() {
	defaults := config.DefaultAPIConfig()
	if value, ok := config.EnvString("API_ADDR"); ok {
		defaults.Addr = value
	}
	if value, ok := config.EnvString("DATA_FILE"); ok {
		defaults.DataFile = value
	}
	if value, ok := config.EnvString("API_KEY"); ok {
		defaults.APIKey = value
	}
	if value, ok := config.EnvList("API_CORS_ORIGINS"); ok {
		defaults.CORSOrigins = value
	}

	addr := flag.String("addr", defaults.Addr, "Listen address")
	dataFile := flag.String("data", defaults.DataFile, "Enriched books JSON file")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logging.Install(logging.New(*verbose))

	cfg := defaults
	cfg.Addr = *addr
	cfg.DataFile = *dataFile
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("loading books", slog.String("path", cfg.DataFile))
	store := storage.Open(cfg.DataFile)
	slog.Info("loaded books", slog.Int("count", store.Len()), slog.Bool("api_key", cfg.APIKey != ""))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewServer(store, cfg, api.NewMetrics()).Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("books API listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("server stopped")
}
