package models

import (
	"strconv"
	"strings"
)

// HitterStatColumn describes one leaderboard column
type HitterStatColumn struct {
	Name    string
	Numeric bool
}

// HitterStatTable is a seasonal batter leaderboard.
// The column set is whatever the source returned for this fetch.
type HitterStatTable struct {
	Columns []HitterStatColumn
	Rows    [][]string
}

// NewHitterStatTable builds a table from a CSV header and records,
// inferring which columns are numeric
func NewHitterStatTable(header []string, records [][]string) *HitterStatTable {
	table := &HitterStatTable{
		Columns: make([]HitterStatColumn, len(header)),
		Rows:    records,
	}

	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		// Postgres rejects duplicate column names
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		} else {
			seen[name] = 1
		}

		table.Columns[i] = HitterStatColumn{
			Name:    name,
			Numeric: isNumericColumn(records, i),
		}
	}

	return table
}

// Len returns the number of rows
func (t *HitterStatTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table holds nothing worth persisting
func (t *HitterStatTable) Empty() bool {
	return t == nil || len(t.Columns) == 0 || len(t.Rows) == 0
}

// ColumnNames returns the column names in order
func (t *HitterStatTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Value converts a raw cell for storage: nil for blanks, float64 for numeric columns
func (t *HitterStatTable) Value(col int, raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t.Columns[col].Numeric {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return nil
	}
	return raw
}

// isNumericColumn is true when every non-blank value parses as a float
// and at least one value is present
func isNumericColumn(records [][]string, col int) bool {
	found := false
	for _, rec := range records {
		if col >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[col])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		found = true
	}
	return found
}
