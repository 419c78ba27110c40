// Package app wires configuration into the clients, storage and ingest
// service shared by the binaries.
package app

import (
	"context"
	"strconv"

	"mlb_lineups/internal/cache"
	"mlb_lineups/internal/client"
	"mlb_lineups/internal/config"
	"mlb_lineups/internal/ingest"
	"mlb_lineups/internal/repository"

	"github.com/rs/zerolog/log"
)

// App holds the long-lived dependencies of a binary
type App struct {
	DB     *repository.Database
	Cache  *cache.RedisCache
	Ingest *ingest.Service
}

// Open connects to PostgreSQL and Redis and builds the ingest service.
// Redis is optional: when unreachable, pitcher handedness is not cached.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
	} else {
		log.Info().Msg("Redis cache connected")
	}

	statsAPI := client.NewStatsAPIClient(cfg.StatsAPIBaseURL, cfg.HTTPUserAgent, cfg.StatsAPITimeout)
	savant := client.NewSavantClient(cfg.SavantLeaderboardURL, cfg.HTTPUserAgent, cfg.SavantTimeout, client.SavantOptions{
		Season:     cfg.SavantSeason,
		MinPA:      cfg.SavantMinPA,
		Selections: cfg.SavantSelections,
	})
	hands := cache.NewPitchHandCache(redisCache, statsAPI, cfg.PitcherHandTTL())

	svc := ingest.NewService(statsAPI, hands, db.Lineups, savant, db.HitterStats, cfg.IngestWorkers)

	return &App{
		DB:     db,
		Cache:  redisCache,
		Ingest: svc,
	}, nil
}

// Close releases the database pool and Redis client
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	a.DB.Close()
}
