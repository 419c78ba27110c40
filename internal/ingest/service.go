// Package ingest drives lineup and leaderboard ingestion: schedule to
// boxscore to extracted lineup to store, and leaderboard fetch to
// wholesale table replace.
//
// Fetch failures never abort a run. A failed schedule reads as a day
// without games, a failed boxscore skips that game and a failed
// leaderboard fetch leaves the stored table untouched. Storage errors
// are returned to the caller.
package ingest

import (
	"context"
	"fmt"
	"time"

	"mlb_lineups/internal/lineup"
	"mlb_lineups/internal/metrics"
	"mlb_lineups/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// GameSource fetches schedules and boxscores
type GameSource interface {
	FetchSchedule(ctx context.Context, date time.Time) ([]models.ScheduledGame, error)
	FetchBoxscore(ctx context.Context, gamePK int) (*models.Boxscore, error)
}

// LeaderboardSource fetches the expected-stats leaderboard
type LeaderboardSource interface {
	FetchLeaderboard(ctx context.Context) (*models.HitterStatTable, error)
}

// LineupStore persists lineup entries, skipping (game, player) pairs already stored
type LineupStore interface {
	InsertMany(ctx context.Context, entries []models.LineupEntry) (int, error)
}

// StatsStore replaces the stored leaderboard
type StatsStore interface {
	ReplaceAll(ctx context.Context, table *models.HitterStatTable) (int64, error)
}

// Sync type labels
const (
	SyncDailyLineups = "daily_lineups"
	SyncHitterStats  = "hitter_stats"
)

// Result summarizes a lineup ingestion run
type Result struct {
	Dates        int
	Games        int
	GamesSkipped int
	Entries      int
	Inserted     int
}

func (r *Result) add(o Result) {
	r.Dates += o.Dates
	r.Games += o.Games
	r.GamesSkipped += o.GamesSkipped
	r.Entries += o.Entries
	r.Inserted += o.Inserted
}

// Service runs ingestion against its collaborators
type Service struct {
	games       GameSource
	hands       lineup.HandLookup
	lineups     LineupStore
	leaderboard LeaderboardSource
	stats       StatsStore
	workers     int
}

// NewService creates an ingest service. workers bounds how many games of
// one date are processed at once; values below 1 mean sequential.
func NewService(games GameSource, hands lineup.HandLookup, lineups LineupStore, leaderboard LeaderboardSource, stats StatsStore, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		games:       games,
		hands:       hands,
		lineups:     lineups,
		leaderboard: leaderboard,
		stats:       stats,
		workers:     workers,
	}
}

// IngestDate stores the starting lineups of every game played on date
func (s *Service) IngestDate(ctx context.Context, date time.Time) (Result, error) {
	start := time.Now()
	day := date.Format("2006-01-02")

	res, err := s.ingestDate(ctx, date)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordSync(SyncDailyLineups, status, time.Since(start).Seconds())

	log.Info().
		Str("date", day).
		Int("games", res.Games).
		Int("skipped", res.GamesSkipped).
		Int("entries", res.Entries).
		Int("inserted", res.Inserted).
		Dur("duration", time.Since(start)).
		Msg("Lineup ingestion complete")

	return res, err
}

func (s *Service) ingestDate(ctx context.Context, date time.Time) (Result, error) {
	res := Result{Dates: 1}
	day := date.Format("2006-01-02")

	games, err := s.games.FetchSchedule(ctx, date)
	if err != nil {
		log.Warn().Err(err).Str("date", day).Msg("Schedule fetch failed, treating as no games")
		metrics.RecordError("ingest", "schedule_fetch")
		return res, nil
	}
	if len(games) == 0 {
		log.Info().Str("date", day).Msg("No games scheduled")
		return res, nil
	}

	results := make([]Result, len(games))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, game := range games {
		i, game := i, game
		g.Go(func() error {
			r, err := s.ingestGame(gctx, game)
			results[i] = r
			return err
		})
	}

	err = g.Wait()
	for _, r := range results {
		res.add(r)
	}

	return res, err
}

func (s *Service) ingestGame(ctx context.Context, game models.ScheduledGame) (Result, error) {
	res := Result{Games: 1}

	box, err := s.games.FetchBoxscore(ctx, game.GamePK)
	if err != nil {
		log.Warn().Err(err).Int("game_pk", game.GamePK).Msg("Boxscore fetch failed, skipping game")
		metrics.RecordError("ingest", "boxscore_fetch")
		res.GamesSkipped = 1
		return res, nil
	}

	entries := lineup.Extract(ctx, box, game.GamePK, game.OfficialDate, s.hands)
	res.Entries = len(entries)

	inserted, err := s.lineups.InsertMany(ctx, entries)
	res.Inserted = inserted
	metrics.RecordGame(inserted)
	if err != nil {
		metrics.RecordError("ingest", "lineup_store")
		return res, fmt.Errorf("failed to store lineup for game %d: %w", game.GamePK, err)
	}

	log.Debug().
		Int("game_pk", game.GamePK).
		Int("entries", len(entries)).
		Int("inserted", inserted).
		Msg("Game ingested")

	return res, nil
}

// IngestRange ingests every date from from to to inclusive, in order.
// It stops at the first storage error or when ctx is cancelled.
func (s *Service) IngestRange(ctx context.Context, from, to time.Time) (Result, error) {
	var total Result
	if to.Before(from) {
		return total, fmt.Errorf("invalid range: %s is after %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		res, err := s.IngestDate(ctx, d)
		total.add(res)
		if err != nil {
			return total, fmt.Errorf("ingestion stopped at %s: %w", d.Format("2006-01-02"), err)
		}
	}

	log.Info().
		Str("from", from.Format("2006-01-02")).
		Str("to", to.Format("2006-01-02")).
		Int("dates", total.Dates).
		Int("games", total.Games).
		Int("inserted", total.Inserted).
		Msg("Range ingestion complete")

	return total, nil
}

// RefreshStats fetches the leaderboard and replaces the stored table.
// A failed or empty fetch stores nothing and returns 0 without error.
func (s *Service) RefreshStats(ctx context.Context) (int64, error) {
	start := time.Now()

	table, err := s.leaderboard.FetchLeaderboard(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Leaderboard fetch failed, keeping stored hitter stats")
		metrics.RecordError("ingest", "leaderboard_fetch")
		metrics.RecordSync(SyncHitterStats, "skipped", time.Since(start).Seconds())
		return 0, nil
	}
	if table.Empty() {
		log.Warn().Msg("Leaderboard returned no rows, keeping stored hitter stats")
		metrics.RecordSync(SyncHitterStats, "skipped", time.Since(start).Seconds())
		return 0, nil
	}

	n, err := s.stats.ReplaceAll(ctx, table)
	if err != nil {
		metrics.RecordError("ingest", "hitter_stats_store")
		metrics.RecordSync(SyncHitterStats, "error", time.Since(start).Seconds())
		return 0, fmt.Errorf("failed to store hitter stats: %w", err)
	}
	metrics.RecordSync(SyncHitterStats, "success", time.Since(start).Seconds())

	log.Info().
		Int("columns", len(table.Columns)).
		Int64("rows", n).
		Dur("duration", time.Since(start)).
		Msg("Hitter stats refreshed")

	return n, nil
}
