package models

import (
	"time"
)

// ScheduledGame is one game listed on the StatsAPI schedule for a date
type ScheduledGame struct {
	GamePK       int       `db:"game_pk"`
	OfficialDate time.Time `db:"game_date"`
}

// ScheduleResponse is the StatsAPI /schedule payload
type ScheduleResponse struct {
	Dates []struct {
		Date  string `json:"date"`
		Games []struct {
			GamePK       int    `json:"gamePk"`
			OfficialDate string `json:"officialDate"`
		} `json:"games"`
	} `json:"dates"`
}

// ToScheduledGames flattens the schedule payload.
// Games whose officialDate does not parse fall back to the requested date.
func (sr *ScheduleResponse) ToScheduledGames(requested time.Time) []ScheduledGame {
	var games []ScheduledGame
	for _, d := range sr.Dates {
		for _, g := range d.Games {
			game := ScheduledGame{
				GamePK:       g.GamePK,
				OfficialDate: requested,
			}
			if parsed, err := time.ParseInLocation("2006-01-02", g.OfficialDate, requested.Location()); err == nil {
				game.OfficialDate = parsed
			}
			games = append(games, game)
		}
	}
	return games
}

// PeopleResponse is the StatsAPI /people/{id} payload
type PeopleResponse struct {
	People []struct {
		ID        int    `json:"id"`
		FullName  string `json:"fullName"`
		PitchHand struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"pitchHand"`
	} `json:"people"`
}

// PitchHandCode returns the throwing hand of the first person, or "" when absent
func (pr *PeopleResponse) PitchHandCode() string {
	if len(pr.People) == 0 {
		return ""
	}
	return pr.People[0].PitchHand.Code
}
