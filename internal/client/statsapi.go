package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mlb_lineups/internal/models"
)

// StatsAPIClient is the MLB StatsAPI client (schedule, boxscores, people)
type StatsAPIClient struct {
	baseURL string
	http    httpGetter
}

// NewStatsAPIClient creates a StatsAPI client with a per-request timeout
func NewStatsAPIClient(baseURL, userAgent string, timeout time.Duration) *StatsAPIClient {
	return &StatsAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPGetter(timeout, userAgent, "application/json"),
	}
}

// FetchSchedule returns the games played on date
func (c *StatsAPIClient) FetchSchedule(ctx context.Context, date time.Time) ([]models.ScheduledGame, error) {
	params := url.Values{}
	params.Set("sportId", "1")
	params.Set("date", date.Format("2006-01-02"))

	body, err := c.http.get(ctx, "schedule", c.baseURL+"/schedule", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	var resp models.ScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	return resp.ToScheduledGames(date), nil
}

// FetchBoxscore returns the boxscore of a game
func (c *StatsAPIClient) FetchBoxscore(ctx context.Context, gamePK int) (*models.Boxscore, error) {
	path := fmt.Sprintf("%s/game/%d/boxscore", c.baseURL, gamePK)
	body, err := c.http.get(ctx, "boxscore", path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boxscore for game %d: %w", gamePK, err)
	}

	var resp models.BoxscoreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal boxscore for game %d: %w", gamePK, err)
	}

	return resp.ToBoxscore(), nil
}

// PitchHand returns the throwing hand ("L" or "R") of a pitcher
func (c *StatsAPIClient) PitchHand(ctx context.Context, pitcherID int) (string, error) {
	path := c.baseURL + "/people/" + strconv.Itoa(pitcherID)
	body, err := c.http.get(ctx, "people", path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch pitcher %d: %w", pitcherID, err)
	}

	var resp models.PeopleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal pitcher %d: %w", pitcherID, err)
	}

	code := resp.PitchHandCode()
	if code == "" {
		return "", fmt.Errorf("pitcher %d has no pitch hand", pitcherID)
	}

	return code, nil
}
