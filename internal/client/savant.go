package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mlb_lineups/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SavantOptions selects the leaderboard to download
type SavantOptions struct {
	Season     int
	MinPA      int
	Selections []string
}

// SavantClient downloads the Baseball Savant custom batter leaderboard as CSV
type SavantClient struct {
	leaderboardURL string
	opts           SavantOptions
	http           httpGetter
}

// NewSavantClient creates a leaderboard client
func NewSavantClient(leaderboardURL, userAgent string, timeout time.Duration, opts SavantOptions) *SavantClient {
	return &SavantClient{
		leaderboardURL: leaderboardURL,
		opts:           opts,
		http:           newHTTPGetter(timeout, userAgent, "text/csv"),
	}
}

// Params returns the leaderboard query string
func (c *SavantClient) Params() url.Values {
	params := url.Values{}
	params.Set("year", strconv.Itoa(c.opts.Season))
	params.Set("type", "batter")
	params.Set("filter", "")
	params.Set("min", strconv.Itoa(c.opts.MinPA))
	params.Set("selections", strings.Join(c.opts.Selections, ","))
	params.Set("chart", "false")
	params.Set("x", "ab")
	params.Set("y", "ab")
	params.Set("r", "no")
	params.Set("chartType", "beeswarm")
	params.Set("sort", "xwoba")
	params.Set("sortDir", "desc")
	params.Set("csv", "true")
	return params
}

// FetchLeaderboard downloads and parses the leaderboard
func (c *SavantClient) FetchLeaderboard(ctx context.Context) (*models.HitterStatTable, error) {
	body, err := c.http.get(ctx, "leaderboard", c.leaderboardURL, c.Params())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	table, err := ParseLeaderboardCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse leaderboard: %w", err)
	}

	return table, nil
}

// ParseLeaderboardCSV reads a CSV document whose first record is the header
func ParseLeaderboardCSV(r io.Reader) (*models.HitterStatTable, error) {
	br := bufio.NewReader(r)
	// Savant prefixes the document with a UTF-8 byte order mark
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &models.HitterStatTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(records)+1, err)
		}
		// Pad or trim ragged rows to the header width
		row := make([]string, len(header))
		copy(row, rec)
		records = append(records, row)
	}

	return models.NewHitterStatTable(header, records), nil
}
