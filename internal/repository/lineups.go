package repository

import (
	"context"
	"fmt"
	"time"

	"mlb_lineups/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// LineupRepository handles daily_lineups database operations
type LineupRepository struct {
	db *Database
}

const insertLineupQuery = `
	INSERT INTO daily_lineups (
		game_pk, game_date, player_id, player_name, team, batting_order, pitcher_hand
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (game_pk, player_id) DO NOTHING
`

// Insert stores an entry unless its (game_pk, player_id) pair already exists.
// It reports whether a row was added.
func (r *LineupRepository) Insert(ctx context.Context, entry models.LineupEntry) (bool, error) {
	start := time.Now()
	tag, err := r.db.Pool.Exec(ctx, insertLineupQuery,
		entry.GamePK, entry.GameDate, entry.PlayerID, entry.PlayerName,
		entry.Team, entry.BattingOrder, entry.PitcherHand,
	)
	observe("insert", "daily_lineups", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to insert lineup entry: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// InsertMany stores entries, skipping pairs already present.
// Rows are independent statements; a failure part way leaves earlier rows stored.
func (r *LineupRepository) InsertMany(ctx context.Context, entries []models.LineupEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	start := time.Now()
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertLineupQuery,
			e.GamePK, e.GameDate, e.PlayerID, e.PlayerName,
			e.Team, e.BattingOrder, e.PitcherHand,
		)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range entries {
		tag, err := results.Exec()
		if err != nil {
			observe("insert_batch", "daily_lineups", start, err)
			return inserted, fmt.Errorf("failed to insert lineup entry game_pk=%d player_id=%d: %w",
				entries[i].GamePK, entries[i].PlayerID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	observe("insert_batch", "daily_lineups", start, nil)

	log.Debug().
		Int("entries", len(entries)).
		Int("inserted", inserted).
		Msg("Lineup entries stored")

	return inserted, nil
}

// ListAll returns every stored lineup entry
func (r *LineupRepository) ListAll(ctx context.Context) ([]models.LineupEntry, error) {
	query := `
		SELECT game_pk, game_date, player_id, player_name, team, batting_order, pitcher_hand
		FROM daily_lineups
		ORDER BY game_date, game_pk, team, batting_order
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		observe("select", "daily_lineups", start, err)
		return nil, fmt.Errorf("failed to list lineups: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LineupEntry])
	observe("select", "daily_lineups", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to scan lineups: %w", err)
	}

	return entries, nil
}

// GetByGame returns the stored lineup of one game
func (r *LineupRepository) GetByGame(ctx context.Context, gamePK int) ([]models.LineupEntry, error) {
	query := `
		SELECT game_pk, game_date, player_id, player_name, team, batting_order, pitcher_hand
		FROM daily_lineups
		WHERE game_pk = $1
		ORDER BY team, batting_order
	`

	rows, err := r.db.Pool.Query(ctx, query, gamePK)
	if err != nil {
		return nil, fmt.Errorf("failed to get lineup for game %d: %w", gamePK, err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LineupEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan lineup for game %d: %w", gamePK, err)
	}

	return entries, nil
}

// Count returns the total number of lineup rows
func (r *LineupRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM daily_lineups`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lineups: %w", err)
	}

	return count, nil
}

// CountByDate returns the number of lineup rows stored for a game date
func (r *LineupRepository) CountByDate(ctx context.Context, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM daily_lineups WHERE game_date = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lineups for %s: %w", date.Format("2006-01-02"), err)
	}

	return count, nil
}
