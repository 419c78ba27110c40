package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mlb_lineups/internal/config"
	"mlb_lineups/internal/ingest"
	"mlb_lineups/internal/metrics"
	"mlb_lineups/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Ingester is the ingestion work the scheduler triggers
type Ingester interface {
	IngestDate(ctx context.Context, date time.Time) (ingest.Result, error)
	RefreshStats(ctx context.Context) (int64, error)
}

// Scheduler manages background ingestion:
// - daily lineup ingestion for the previous day's games
// - expected-stats leaderboard refresh
type Scheduler struct {
	cfg    *config.Config
	ingest Ingester
	db     *repository.Database
	cron   *cron.Cron
	now    func() time.Time

	// cron jobs may overlap with an initial sync
	mu sync.Mutex
}

// NewScheduler creates a new scheduler instance. db is only used to
// publish storage gauges and may be nil.
func NewScheduler(cfg *config.Config, ingester Ingester, db *repository.Database) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		ingest: ingester,
		db:     db,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start registers the cron jobs and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.DailyLineupCron, func() {
		if err := s.RunDailyLineups(ctx); err != nil {
			log.Error().Err(err).Msg("Daily lineup ingestion failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule daily lineups: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.StatsRefreshCron, func() {
		if err := s.RunStatsRefresh(ctx); err != nil {
			log.Error().Err(err).Msg("Hitter stats refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule stats refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("daily_lineups", s.cfg.DailyLineupCron).
		Str("stats_refresh", s.cfg.StatsRefreshCron).
		Msg("Ingestion jobs scheduled")

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	log.Info().Msg("Scheduler stopped")
}

// RunDailyLineups ingests the lineups of yesterday's games
func (s *Scheduler) RunDailyLineups(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)

	log.Info().Str("date", yesterday.Format(config.DateLayout)).Msg("Running daily lineup ingestion...")
	if _, err := s.ingest.IngestDate(ctx, yesterday); err != nil {
		return err
	}

	s.publishStorageStats(ctx)
	return nil
}

// RunStatsRefresh replaces the stored leaderboard with a fresh fetch
func (s *Scheduler) RunStatsRefresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info().Msg("Running hitter stats refresh...")
	if _, err := s.ingest.RefreshStats(ctx); err != nil {
		return err
	}

	s.publishStorageStats(ctx)
	return nil
}

// InitialSync runs both jobs once, stats first
func (s *Scheduler) InitialSync(ctx context.Context) error {
	if err := s.RunStatsRefresh(ctx); err != nil {
		return fmt.Errorf("initial stats refresh: %w", err)
	}
	if err := s.RunDailyLineups(ctx); err != nil {
		return fmt.Errorf("initial lineup ingestion: %w", err)
	}
	return nil
}

func (s *Scheduler) publishStorageStats(ctx context.Context) {
	if s.db == nil {
		return
	}

	lineups, err := s.db.Lineups.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count lineup rows")
		return
	}
	hitters, err := s.db.HitterStats.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count hitter stats rows")
		return
	}

	metrics.UpdateStorageStats(int64(lineups), int64(hitters))
	s.db.PoolStats()
}
