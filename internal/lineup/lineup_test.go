package lineup

import (
	"context"
	"errors"
	"testing"
	"time"

	"mlb_lineups/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHands struct {
	hands map[int]string
	calls []int
}

func (s *stubHands) PitchHand(ctx context.Context, pitcherID int) (string, error) {
	s.calls = append(s.calls, pitcherID)
	hand, ok := s.hands[pitcherID]
	if !ok {
		return "", errors.New("lookup failed")
	}
	return hand, nil
}

var gameDate = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func starter(id int, name string) models.Appearance {
	return models.Appearance{PlayerID: id, FullName: name}
}

func sub(id int, name string) models.Appearance {
	return models.Appearance{PlayerID: id, FullName: name, IsSubstitute: true}
}

func TestExtract_SubstitutesSkipped(t *testing.T) {
	box := &models.Boxscore{
		Home: models.TeamSide{
			Abbreviation: "NYM",
			Players: map[int]models.Appearance{
				101: starter(101, "Player 101"),
				102: starter(102, "Player 102"),
				103: sub(103, "Player 103"),
			},
			Batters:  []int{101, 102, 103},
			Pitchers: []int{700},
		},
		Away: models.TeamSide{
			Abbreviation: "ATL",
			Players:      map[int]models.Appearance{},
			Pitchers:     []int{800},
		},
	}
	hands := &stubHands{hands: map[int]string{800: "R", 700: "L"}}

	entries := Extract(context.Background(), box, 7001, gameDate, hands)

	require.Len(t, entries, 2)
	assert.Equal(t, models.LineupEntry{
		GamePK: 7001, GameDate: gameDate, PlayerID: 101, PlayerName: "Player 101",
		Team: "NYM", BattingOrder: 1, PitcherHand: "R",
	}, entries[0])
	assert.Equal(t, 102, entries[1].PlayerID)
	assert.Equal(t, 2, entries[1].BattingOrder)
	assert.Equal(t, "R", entries[1].PitcherHand)

	// one lookup per side, opponent's starter
	assert.Equal(t, []int{800, 700}, hands.calls)
}

func TestExtract_OpponentWithoutPitcherSkipsSide(t *testing.T) {
	box := &models.Boxscore{
		Home: models.TeamSide{
			Abbreviation: "NYM",
			Players:      map[int]models.Appearance{1: starter(1, "Home One")},
			Batters:      []int{1},
			Pitchers:     []int{700},
		},
		Away: models.TeamSide{
			Abbreviation: "ATL",
			Players:      map[int]models.Appearance{2: starter(2, "Away One")},
			Batters:      []int{2},
			Pitchers:     nil,
		},
	}
	hands := &stubHands{hands: map[int]string{700: "L"}}

	entries := Extract(context.Background(), box, 7002, gameDate, hands)

	require.Len(t, entries, 1)
	assert.Equal(t, "ATL", entries[0].Team)
	assert.Equal(t, "L", entries[0].PitcherHand)
	assert.Equal(t, []int{700}, hands.calls)
}

func TestExtract_CapsAtNine(t *testing.T) {
	players := map[int]models.Appearance{}
	var batters []int
	for id := 1; id <= 12; id++ {
		players[id] = starter(id, "Batter")
		batters = append(batters, id)
	}
	// a substitute inside the first nine does not consume a slot
	players[3] = sub(3, "Pinch Hitter")

	box := &models.Boxscore{
		Home: models.TeamSide{Abbreviation: "H", Players: players, Batters: batters, Pitchers: []int{50}},
		Away: models.TeamSide{Abbreviation: "A", Pitchers: []int{60}},
	}

	entries := Extract(context.Background(), box, 1, gameDate, &stubHands{hands: map[int]string{60: "R"}})

	require.Len(t, entries, 9)
	var ids []int
	for i, e := range entries {
		assert.Equal(t, i+1, e.BattingOrder, "orders are 1..k without gaps")
		ids = append(ids, e.PlayerID)
	}
	assert.Equal(t, []int{1, 2, 4, 5, 6, 7, 8, 9, 10}, ids)
}

func TestExtract_MissingPlayerRecordIsSubstitute(t *testing.T) {
	box := &models.Boxscore{
		Home: models.TeamSide{
			Abbreviation: "H",
			Players:      map[int]models.Appearance{2: {FullName: ""}},
			Batters:      []int{1, 2},
			Pitchers:     []int{50},
		},
		Away: models.TeamSide{Abbreviation: "A", Pitchers: []int{60}},
	}

	entries := Extract(context.Background(), box, 1, gameDate, &stubHands{hands: map[int]string{60: "R"}})

	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].PlayerID)
	assert.Equal(t, 1, entries[0].BattingOrder)
	assert.Equal(t, models.UnknownPlayerName, entries[0].PlayerName)
}

func TestExtract_LookupFailureRecordsUnknown(t *testing.T) {
	box := &models.Boxscore{
		Home: models.TeamSide{
			Abbreviation: "H",
			Players:      map[int]models.Appearance{1: starter(1, "One")},
			Batters:      []int{1},
			Pitchers:     []int{50},
		},
		Away: models.TeamSide{Abbreviation: "A", Pitchers: []int{60}},
	}

	entries := Extract(context.Background(), box, 1, gameDate, &stubHands{})
	require.Len(t, entries, 1)
	assert.Equal(t, models.HandUnknown, entries[0].PitcherHand)

	entries = Extract(context.Background(), box, 1, gameDate, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, models.HandUnknown, entries[0].PitcherHand)
}

func TestExtract_Deterministic(t *testing.T) {
	box := &models.Boxscore{
		Home: models.TeamSide{
			Abbreviation: "H",
			Players:      map[int]models.Appearance{1: starter(1, "One"), 2: starter(2, "Two"), 3: sub(3, "Three")},
			Batters:      []int{3, 2, 1},
			Pitchers:     []int{50},
		},
		Away: models.TeamSide{
			Abbreviation: "A",
			Players:      map[int]models.Appearance{4: starter(4, "Four")},
			Batters:      []int{4},
			Pitchers:     []int{60},
		},
	}
	hands := map[int]string{50: "L", 60: "R"}

	first := Extract(context.Background(), box, 9, gameDate, &stubHands{hands: hands})
	second := Extract(context.Background(), box, 9, gameDate, &stubHands{hands: hands})
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, 2, first[0].PlayerID, "order follows the batter list")
}

func TestExtract_NilBoxscore(t *testing.T) {
	assert.Empty(t, Extract(context.Background(), nil, 1, gameDate, nil))
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestAggregate_SplitsByHand(t *testing.T) {
	entries := []models.LineupEntry{
		{GamePK: 1, PlayerID: 501, PlayerName: "Split Guy", BattingOrder: 3, PitcherHand: "L"},
		{GamePK: 2, PlayerID: 501, PlayerName: "Split Guy", BattingOrder: 5, PitcherHand: "R"},
	}

	aggs := Aggregate(entries)
	require.Len(t, aggs, 1)

	agg := aggs[0]
	assert.Equal(t, 501, agg.PlayerID)
	assert.True(t, agg.AvgVsL.Valid)
	assert.Equal(t, 3.0, agg.AvgVsL.Float64)
	assert.Equal(t, 1, agg.GamesVsL)
	assert.Equal(t, 5.0, agg.AvgVsR.Float64)
	assert.Equal(t, 1, agg.GamesVsR)
	assert.Equal(t, models.PlatoonBoth, agg.PlatoonFlag())
}

func TestAggregate_OnlyRightHanded(t *testing.T) {
	entries := []models.LineupEntry{
		{GamePK: 1, PlayerID: 7, PlayerName: "Righty Masher", BattingOrder: 2, PitcherHand: "R"},
		{GamePK: 2, PlayerID: 7, PlayerName: "Righty Masher", BattingOrder: 4, PitcherHand: "R"},
		{GamePK: 3, PlayerID: 7, PlayerName: "Righty Masher", BattingOrder: 9, PitcherHand: "R"},
	}

	aggs := Aggregate(entries)
	require.Len(t, aggs, 1)
	assert.False(t, aggs[0].AvgVsL.Valid)
	assert.Equal(t, "N/A", models.FormatAverage(aggs[0].AvgVsL))
	assert.Equal(t, 0, aggs[0].GamesVsL)
	assert.Equal(t, 5.0, aggs[0].AvgVsR.Float64)
	assert.Equal(t, 3, aggs[0].GamesVsR)
}

func TestAggregate_UnknownHandExcluded(t *testing.T) {
	entries := []models.LineupEntry{
		{GamePK: 1, PlayerID: 1, PlayerName: "Only Unknown", BattingOrder: 1, PitcherHand: models.HandUnknown},
		{GamePK: 1, PlayerID: 2, PlayerName: "Mixed", BattingOrder: 1, PitcherHand: models.HandUnknown},
		{GamePK: 2, PlayerID: 2, PlayerName: "Mixed", BattingOrder: 6, PitcherHand: "L"},
		{GamePK: 3, PlayerID: 3, PlayerName: "Odd", BattingOrder: 4, PitcherHand: "S"},
	}

	aggs := Aggregate(entries)
	require.Len(t, aggs, 1)
	assert.Equal(t, 2, aggs[0].PlayerID)
	assert.Equal(t, 1, aggs[0].GamesVsL)
	assert.Equal(t, 6.0, aggs[0].AvgVsL.Float64)
	assert.Equal(t, 0, aggs[0].GamesVsR)
	assert.False(t, aggs[0].AvgVsR.Valid)
}

func TestAggregate_GroupsByIDAndName(t *testing.T) {
	entries := []models.LineupEntry{
		{GamePK: 1, PlayerID: 10, PlayerName: "Bee", BattingOrder: 1, PitcherHand: "R"},
		{GamePK: 2, PlayerID: 10, PlayerName: "Bee Renamed", BattingOrder: 2, PitcherHand: "R"},
		{GamePK: 3, PlayerID: 11, PlayerName: "Aye", BattingOrder: 8, PitcherHand: "L"},
	}

	aggs := Aggregate(entries)
	require.Len(t, aggs, 3)
	assert.Equal(t, "Aye", aggs[0].PlayerName)
	assert.Equal(t, "Bee", aggs[1].PlayerName)
	assert.Equal(t, "Bee Renamed", aggs[2].PlayerName)
}
