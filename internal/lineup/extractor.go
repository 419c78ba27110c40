// Package lineup derives starting batting orders from boxscores and
// summarizes them by opposing starter handedness.
package lineup

import (
	"context"
	"time"

	"mlb_lineups/internal/models"

	"github.com/rs/zerolog/log"
)

// HandLookup resolves a pitcher's throwing hand
type HandLookup interface {
	PitchHand(ctx context.Context, pitcherID int) (string, error)
}

// Extract returns the starting lineup of both sides of a boxscore, home first.
//
// A side whose opponent lists no pitcher contributes nothing. The opposing
// starter's hand is resolved once per side; a failed lookup records "Unknown".
// Batting order is assigned by position among non-substitutes in the batter
// list, capped at nine per side.
func Extract(ctx context.Context, box *models.Boxscore, gamePK int, gameDate time.Time, hands HandLookup) []models.LineupEntry {
	if box == nil {
		return nil
	}

	var entries []models.LineupEntry
	for _, sideName := range []string{models.SideHome, models.SideAway} {
		side, opponent := box.Side(sideName)
		if len(opponent.Pitchers) == 0 {
			log.Debug().
				Int("game_pk", gamePK).
				Str("side", sideName).
				Msg("Opponent has no listed pitcher, skipping side")
			continue
		}

		hand := resolveHand(ctx, hands, opponent.Pitchers[0], gamePK)

		for i, starter := range starters(side) {
			entries = append(entries, models.LineupEntry{
				GamePK:       gamePK,
				GameDate:     gameDate,
				PlayerID:     starter.PlayerID,
				PlayerName:   starter.FullName,
				Team:         side.Abbreviation,
				BattingOrder: i + 1,
				PitcherHand:  hand,
			})
		}
	}

	return entries
}

// starters walks the batter list and keeps the first nine non-substitutes.
// Batters without a player record count as substitutes.
func starters(side *models.TeamSide) []models.Appearance {
	var out []models.Appearance
	for _, playerID := range side.Batters {
		appearance, ok := side.Players[playerID]
		if !ok {
			appearance = models.Appearance{
				PlayerID:     playerID,
				FullName:     models.UnknownPlayerName,
				IsSubstitute: true,
			}
		}
		if appearance.IsSubstitute {
			continue
		}

		appearance.PlayerID = playerID
		if appearance.FullName == "" {
			appearance.FullName = models.UnknownPlayerName
		}
		out = append(out, appearance)

		if len(out) == models.MaxBattingOrder {
			break
		}
	}
	return out
}

func resolveHand(ctx context.Context, hands HandLookup, pitcherID, gamePK int) string {
	if hands == nil {
		return models.HandUnknown
	}

	hand, err := hands.PitchHand(ctx, pitcherID)
	if err != nil || hand == "" {
		log.Warn().
			Err(err).
			Int("game_pk", gamePK).
			Int("pitcher_id", pitcherID).
			Msg("Could not resolve starter handedness, recording Unknown")
		return models.HandUnknown
	}

	return hand
}
