package models

import (
	"strconv"
	"strings"
)

// Team sides of a boxscore, in extraction order
const (
	SideHome = "home"
	SideAway = "away"
)

// Appearance is one player's entry in a team's boxscore
type Appearance struct {
	PlayerID     int
	FullName     string
	IsSubstitute bool
}

// TeamSide is one team's half of a boxscore
type TeamSide struct {
	Abbreviation string
	Players      map[int]Appearance
	Batters      []int // plate-appearance order
	Pitchers     []int // first entry is the starter
}

// Boxscore holds both sides of a game
type Boxscore struct {
	Home TeamSide
	Away TeamSide
}

// Side returns the named side and its opponent
func (b *Boxscore) Side(name string) (side, opponent *TeamSide) {
	if name == SideHome {
		return &b.Home, &b.Away
	}
	return &b.Away, &b.Home
}

// BoxscoreResponse is the StatsAPI /game/{pk}/boxscore payload
type BoxscoreResponse struct {
	Teams struct {
		Home TeamSideInput `json:"home"`
		Away TeamSideInput `json:"away"`
	} `json:"teams"`
}

// TeamSideInput is a raw team side as returned by the API
type TeamSideInput struct {
	Team struct {
		ID           int    `json:"id"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	Players  map[string]PlayerInput `json:"players"`
	Batters  []int                  `json:"batters"`
	Pitchers []int                  `json:"pitchers"`
}

// PlayerInput is a raw player record keyed by "ID<number>" in the API
type PlayerInput struct {
	Person struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	GameStatus struct {
		IsSubstitute *bool `json:"isSubstitute"`
	} `json:"gameStatus"`
}

// ToBoxscore converts the API payload to a Boxscore keyed by integer player id
func (br *BoxscoreResponse) ToBoxscore() *Boxscore {
	return &Boxscore{
		Home: br.Teams.Home.ToTeamSide(),
		Away: br.Teams.Away.ToTeamSide(),
	}
}

// ToTeamSide converts a raw side.
// Players without a gameStatus flag are treated as substitutes.
func (ti *TeamSideInput) ToTeamSide() TeamSide {
	side := TeamSide{
		Abbreviation: ti.Team.Abbreviation,
		Players:      make(map[int]Appearance, len(ti.Players)),
		Batters:      ti.Batters,
		Pitchers:     ti.Pitchers,
	}

	for key, p := range ti.Players {
		id := p.Person.ID
		if id == 0 {
			parsed, err := strconv.Atoi(strings.TrimPrefix(key, "ID"))
			if err != nil {
				continue
			}
			id = parsed
		}

		isSub := true
		if p.GameStatus.IsSubstitute != nil {
			isSub = *p.GameStatus.IsSubstitute
		}

		side.Players[id] = Appearance{
			PlayerID:     id,
			FullName:     p.Person.FullName,
			IsSubstitute: isSub,
		}
	}

	return side
}
