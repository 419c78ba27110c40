package web

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"mlb_lineups/internal/metrics"
	"mlb_lineups/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SheetHitterStats = "Hitter Stats"
	SheetLineups     = "Lineup Splits"
)

var lineupHeader = []interface{}{
	"Player", "Player ID", "Avg Order vs LHP", "Games vs LHP", "Avg Order vs RHP", "Games vs RHP", "Platoon",
}

// Export serves both tables as an xlsx workbook
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p := s.snapshot(ctx)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="mlb_hitters.xlsx"`)
	if err := writeWorkbook(w, p); err != nil {
		log.Error().Err(err).Msg("Failed to write workbook")
		metrics.RecordPageRender("export", "error")
		return
	}
	metrics.RecordPageRender("export", "success")
}

// writeWorkbook writes a two-sheet workbook: the leaderboard with numeric
// cells kept numeric, and the lineup splits
func writeWorkbook(w io.Writer, p page) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetHitterStats); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetLineups); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeHitterStats(f, p.Stats, bold); err != nil {
		return err
	}
	if err := writeLineups(f, p.Lineups, bold); err != nil {
		return err
	}

	return f.Write(w)
}

func writeHitterStats(f *excelize.File, table *models.HitterStatTable, headerStyle int) error {
	if table.Empty() {
		return setRow(f, SheetHitterStats, 1, []interface{}{"No hitter stats available"})
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Name
	}
	if err := setRow(f, SheetHitterStats, 1, header); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetHitterStats, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range table.Rows {
		row := make([]interface{}, len(table.Columns))
		for col := range table.Columns {
			if col >= len(rec) {
				continue
			}
			row[col] = cellValue(table.Columns[col], rec[col])
		}
		if err := setRow(f, SheetHitterStats, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeLineups(f *excelize.File, aggs []models.LineupAggregate, headerStyle int) error {
	if err := setRow(f, SheetLineups, 1, lineupHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetLineups, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, a := range aggs {
		row := []interface{}{
			a.PlayerName,
			a.PlayerID,
			averageCell(a.AvgVsL),
			a.GamesVsL,
			averageCell(a.AvgVsR),
			a.GamesVsR,
			a.PlatoonFlag(),
		}
		if err := setRow(f, SheetLineups, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// cellValue keeps numeric columns numeric in the workbook
func cellValue(col models.HitterStatColumn, raw string) interface{} {
	if raw == "" {
		return nil
	}
	if col.Numeric {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

func averageCell(avg sql.NullFloat64) interface{} {
	if !avg.Valid {
		return models.FormatAverage(avg)
	}
	return avg.Float64
}
