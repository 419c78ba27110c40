package lineup

import (
	"database/sql"
	"sort"

	"mlb_lineups/internal/models"
)

type playerKey struct {
	id   int
	name string
}

type handTotals struct {
	sumL, sumR     int
	gamesL, gamesR int
}

// Aggregate computes each player's average batting order and game count
// against left- and right-handed starters.
//
// Entries with any other hand are ignored; a player with no L or R game
// is omitted. Results are sorted by player name, then id.
func Aggregate(entries []models.LineupEntry) []models.LineupAggregate {
	totals := make(map[playerKey]*handTotals)
	for _, e := range entries {
		if e.PitcherHand != models.HandLeft && e.PitcherHand != models.HandRight {
			continue
		}

		key := playerKey{id: e.PlayerID, name: e.PlayerName}
		t, ok := totals[key]
		if !ok {
			t = &handTotals{}
			totals[key] = t
		}

		if e.PitcherHand == models.HandLeft {
			t.sumL += e.BattingOrder
			t.gamesL++
		} else {
			t.sumR += e.BattingOrder
			t.gamesR++
		}
	}

	aggregates := make([]models.LineupAggregate, 0, len(totals))
	for key, t := range totals {
		aggregates = append(aggregates, models.LineupAggregate{
			PlayerID:   key.id,
			PlayerName: key.name,
			AvgVsL:     mean(t.sumL, t.gamesL),
			AvgVsR:     mean(t.sumR, t.gamesR),
			GamesVsL:   t.gamesL,
			GamesVsR:   t.gamesR,
		})
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].PlayerName != aggregates[j].PlayerName {
			return aggregates[i].PlayerName < aggregates[j].PlayerName
		}
		return aggregates[i].PlayerID < aggregates[j].PlayerID
	})

	return aggregates
}

func mean(sum, n int) sql.NullFloat64 {
	if n == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(sum) / float64(n), Valid: true}
}
