package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mlb_lineups/internal/app"
	"mlb_lineups/internal/config"
	"mlb_lineups/internal/logging"
	"mlb_lineups/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	logging.SetupFromEnv()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "loader",
		Short:         "Load MLB lineups and hitter expected stats into PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(dailyCmd())
	root.AddCommand(seasonCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(migrateCmd())

	return root
}

func dailyCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Ingest the starting lineups of one day's games (default: yesterday)",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDateOr(date, yesterday())
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, cfg *config.Config) error {
				res, err := a.Ingest.IngestDate(ctx, day)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d games, %d skipped, %d lineup entries, %d new\n",
					day.Format(config.DateLayout), res.Games, res.GamesSkipped, res.Entries, res.Inserted)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "game date as YYYY-MM-DD")
	return cmd
}

func seasonCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "season",
		Short: "Ingest lineups for every day from the season start through today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, cfg *config.Config) error {
				seasonStart, err := cfg.SeasonStart()
				if err != nil {
					return err
				}
				start, err := parseDateOr(from, seasonStart)
				if err != nil {
					return err
				}
				end, err := parseDateOr(to, today())
				if err != nil {
					return err
				}

				res, err := a.Ingest.IngestRange(ctx, start, end)
				if err != nil {
					return err
				}
				fmt.Printf("%d days, %d games, %d skipped, %d lineup entries, %d new\n",
					res.Dates, res.Games, res.GamesSkipped, res.Entries, res.Inserted)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date as YYYY-MM-DD (default: SEASON_START_DATE)")
	cmd.Flags().StringVar(&to, "to", "", "last date as YYYY-MM-DD (default: today)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Replace the stored hitter expected-stats leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App, cfg *config.Config) error {
				n, err := a.Ingest.RefreshStats(ctx)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Println("leaderboard unavailable, stored hitter stats left unchanged")
					return nil
				}
				fmt.Printf("stored %d hitter rows for season %d\n", n, cfg.SavantSeason)
				return nil
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the lineup table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.AppEnv, cfg.LogLevel)

			// NewDatabase applies the schema
			db, err := repository.NewDatabase(cmd.Context(), cfg.DatabaseDSN())
			if err != nil {
				return err
			}
			db.Close()

			fmt.Println("schema up to date")
			return nil
		},
	}
}

// withApp loads configuration, opens the app and runs fn until it returns
// or the process is interrupted
func withApp(parent context.Context, fn func(ctx context.Context, a *app.App, cfg *config.Config) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.AppEnv, cfg.LogLevel)

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	err = fn(ctx, a, cfg)
	log.Info().Dur("duration", time.Since(start)).Msg("Loader finished")
	return err
}

func parseDateOr(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseInLocation(config.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", value, err)
	}
	return d, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

func yesterday() time.Time {
	return today().AddDate(0, 0, -1)
}
