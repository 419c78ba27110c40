package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mlb_lineups/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// HitterStatsTable is the table holding the latest leaderboard
const HitterStatsTable = "hitter_stats"

// undefined_table
const pgUndefinedTable = "42P01"

// HitterStatsRepository handles hitter_stats database operations.
// The table's columns follow whatever the last leaderboard fetch returned.
type HitterStatsRepository struct {
	db *Database
}

// ReplaceAll swaps the stored leaderboard for table in one transaction.
// On any error the previous table is left as it was.
func (r *HitterStatsRepository) ReplaceAll(ctx context.Context, table *models.HitterStatTable) (int64, error) {
	if table.Empty() {
		return 0, errors.New("refusing to replace hitter stats with an empty table")
	}

	start := time.Now()
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ident := pgx.Identifier{HitterStatsTable}
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
		observe("replace", HitterStatsTable, start, err)
		return 0, fmt.Errorf("failed to drop hitter stats: %w", err)
	}

	if _, err := tx.Exec(ctx, createTableSQL(table)); err != nil {
		observe("replace", HitterStatsTable, start, err)
		return 0, fmt.Errorf("failed to create hitter stats: %w", err)
	}

	copied, err := tx.CopyFrom(ctx, ident, table.ColumnNames(), pgx.CopyFromSlice(table.Len(), func(i int) ([]interface{}, error) {
		row := table.Rows[i]
		values := make([]interface{}, len(table.Columns))
		for col := range table.Columns {
			if col < len(row) {
				values[col] = table.Value(col, row[col])
			}
		}
		return values, nil
	}))
	if err != nil {
		observe("replace", HitterStatsTable, start, err)
		return 0, fmt.Errorf("failed to copy hitter stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		observe("replace", HitterStatsTable, start, err)
		return 0, fmt.Errorf("failed to commit hitter stats: %w", err)
	}
	observe("replace", HitterStatsTable, start, nil)

	log.Debug().
		Int("columns", len(table.Columns)).
		Int64("rows", copied).
		Msg("Hitter stats replaced")

	return copied, nil
}

// Load returns the stored leaderboard with every value rendered as text.
// A missing table yields an empty result.
func (r *HitterStatsRepository) Load(ctx context.Context) (*models.HitterStatTable, error) {
	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, "SELECT * FROM "+pgx.Identifier{HitterStatsTable}.Sanitize()+" ORDER BY 1")
	if err != nil {
		observe("select", HitterStatsTable, start, err)
		if isUndefinedTable(err) {
			return &models.HitterStatTable{}, nil
		}
		return nil, fmt.Errorf("failed to query hitter stats: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	table := &models.HitterStatTable{Columns: make([]models.HitterStatColumn, len(fields))}
	for i, f := range fields {
		table.Columns[i] = models.HitterStatColumn{
			Name:    f.Name,
			Numeric: f.DataTypeOID == pgFloat8OID,
		}
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read hitter stats row: %w", err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		table.Rows = append(table.Rows, record)
	}

	err = rows.Err()
	observe("select", HitterStatsTable, start, err)
	if err != nil {
		if isUndefinedTable(err) {
			return &models.HitterStatTable{}, nil
		}
		return nil, fmt.Errorf("failed to iterate hitter stats: %w", err)
	}

	return table, nil
}

// Count returns the number of stored leaderboard rows, 0 if the table is missing
func (r *HitterStatsRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{HitterStatsTable}.Sanitize()).Scan(&count)
	if err != nil {
		if isUndefinedTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count hitter stats: %w", err)
	}
	return count, nil
}

// float8
const pgFloat8OID = 701

func createTableSQL(table *models.HitterStatTable) string {
	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		typ := "TEXT"
		if c.Numeric {
			typ = "DOUBLE PRECISION"
		}
		cols[i] = pgx.Identifier{c.Name}.Sanitize() + " " + typ
	}
	return "CREATE TABLE " + pgx.Identifier{HitterStatsTable}.Sanitize() + " (" + strings.Join(cols, ", ") + ")"
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
