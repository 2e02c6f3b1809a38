package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtracker/internal/adapter/httpapi"
	"github.com/codingisforpros/wealthtracker/internal/adapter/repository/memory"
	"github.com/codingisforpros/wealthtracker/internal/adapter/repository/postgres"
	"github.com/codingisforpros/wealthtracker/internal/config"
	"github.com/codingisforpros/wealthtracker/internal/domain"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	holdings, err := newHoldingStore(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up holding store")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      httpapi.NewServer(cfg, holdings, log).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(server, log)
}

// newHoldingStore picks the storage backend. STORAGE=memory runs without
// a database; anything else connects to Postgres using DB_CONN_STR or
// the individual DB_* variables
func newHoldingStore(log zerolog.Logger) (domain.HoldingRepository, error) {
	if os.Getenv("STORAGE") == "memory" {
		log.Info().Msg("using in-memory holding store")
		return memory.NewHoldingRepository(), nil
	}

	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "wealthtracker"))
	}

	db, err := postgres.NewDB(connStr)
	if err != nil {
		return nil, err
	}
	return postgres.NewHoldingRepository(db), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// waitForShutdown waits for SIGTERM or SIGINT and drains in-flight
// requests before exiting
func waitForShutdown(server *http.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
	log.Info().Msg("http server stopped")
}
