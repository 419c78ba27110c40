package models

import (
	"database/sql"
	"strconv"
	"time"
)

// Pitcher handedness codes
const (
	HandLeft    = "L"
	HandRight   = "R"
	HandUnknown = "Unknown"
)

// MaxBattingOrder is the number of starters collected per team side
const MaxBattingOrder = 9

// UnknownPlayerName is used when a batter has no player record
const UnknownPlayerName = "Unknown Player"

// LineupEntry is one starting batter in one game
type LineupEntry struct {
	GamePK       int       `db:"game_pk"`
	GameDate     time.Time `db:"game_date"`
	PlayerID     int       `db:"player_id"`
	PlayerName   string    `db:"player_name"`
	Team         string    `db:"team"`
	BattingOrder int       `db:"batting_order"`
	PitcherHand  string    `db:"pitcher_hand"` // opposing starter
}

// Platoon flags derived from a player's lineup splits
const (
	PlatoonBoth    = "Both"
	PlatoonRHPOnly = "RHP-only"
	PlatoonLHPOnly = "LHP-only"
)

// LineupAggregate summarizes a player's batting order by opposing starter hand.
// Computed on read, never persisted.
type LineupAggregate struct {
	PlayerID   int
	PlayerName string

	AvgVsL   sql.NullFloat64 // invalid when GamesVsL == 0
	AvgVsR   sql.NullFloat64 // invalid when GamesVsR == 0
	GamesVsL int
	GamesVsR int
}

// PlatoonFlag reports which starter hands the player has started against
func (la LineupAggregate) PlatoonFlag() string {
	switch {
	case la.GamesVsL > 0 && la.GamesVsR > 0:
		return PlatoonBoth
	case la.GamesVsR > 0:
		return PlatoonRHPOnly
	default:
		return PlatoonLHPOnly
	}
}

// FormatAverage renders an average batting order, or "N/A" when there is none
func FormatAverage(avg sql.NullFloat64) string {
	if !avg.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(avg.Float64, 'f', 2, 64)
}
