package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mlb_lineups/internal/config"
	"mlb_lineups/internal/logging"
	"mlb_lineups/internal/repository"
	"mlb_lineups/internal/web"

	"github.com/rs/zerolog/log"
)

func main() {
	logging.SetupFromEnv()

	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	server := web.NewServer(db.HitterStats, db.Lineups, db)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.WebPort),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.WebPort).Msg("Web server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Web server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Web server shutdown failed")
	}

	log.Info().Msg("Web server stopped")
}
