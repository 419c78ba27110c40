package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAgent = "Mozilla/5.0 (test)"

func newStatsAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/schedule", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("sportId"))
		assert.Equal(t, testAgent, r.Header.Get("User-Agent"))
		if r.URL.Query().Get("date") != "2025-04-01" {
			w.Write([]byte(`{"dates": []}`))
			return
		}
		w.Write([]byte(`{"dates": [{"date": "2025-04-01", "games": [
			{"gamePk": 1001, "officialDate": "2025-04-01"},
			{"gamePk": 1002, "officialDate": "2025-04-01"}
		]}]}`))
	})
	mux.HandleFunc("/api/v1/game/1001/boxscore", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"teams": {
			"home": {"team": {"abbreviation": "NYM"},
			         "players": {"ID101": {"person": {"id": 101, "fullName": "Home Lead"}, "gameStatus": {"isSubstitute": false}}},
			         "batters": [101], "pitchers": [501]},
			"away": {"team": {"abbreviation": "ATL"}, "players": {}, "batters": [], "pitchers": [601]}
		}}`))
	})
	mux.HandleFunc("/api/v1/game/1002/boxscore", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/v1/people/501", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"people": [{"id": 501, "pitchHand": {"code": "L"}}]}`))
	})
	mux.HandleFunc("/api/v1/people/502", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"people": []}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestStatsAPIClient_FetchSchedule(t *testing.T) {
	server := newStatsAPIServer(t)
	c := NewStatsAPIClient(server.URL+"/api/v1/", testAgent, 5*time.Second)
	ctx := context.Background()

	games, err := c.FetchSchedule(ctx, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 1001, games[0].GamePK)
	assert.Equal(t, "2025-04-01", games[0].OfficialDate.Format("2006-01-02"))

	games, err = c.FetchSchedule(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestStatsAPIClient_FetchBoxscore(t *testing.T) {
	server := newStatsAPIServer(t)
	c := NewStatsAPIClient(server.URL+"/api/v1", testAgent, 5*time.Second)

	box, err := c.FetchBoxscore(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, "NYM", box.Home.Abbreviation)
	assert.Equal(t, []int{501}, box.Home.Pitchers)
	assert.Equal(t, "Home Lead", box.Home.Players[101].FullName)

	_, err = c.FetchBoxscore(context.Background(), 1002)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestStatsAPIClient_PitchHand(t *testing.T) {
	server := newStatsAPIServer(t)
	c := NewStatsAPIClient(server.URL+"/api/v1", testAgent, 5*time.Second)
	ctx := context.Background()

	hand, err := c.PitchHand(ctx, 501)
	require.NoError(t, err)
	assert.Equal(t, "L", hand)

	_, err = c.PitchHand(ctx, 502)
	assert.Error(t, err, "empty people list is an error")

	_, err = c.PitchHand(ctx, 503)
	assert.Error(t, err, "404 is an error")
}

func TestStatsAPIClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"dates": []}`))
	}))
	defer server.Close()

	c := NewStatsAPIClient(server.URL, testAgent, 20*time.Millisecond)
	_, err := c.FetchSchedule(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestSavantClient_FetchLeaderboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2025", q.Get("year"))
		assert.Equal(t, "batter", q.Get("type"))
		assert.Equal(t, "100", q.Get("min"))
		assert.Equal(t, "xba,xwoba", q.Get("selections"))
		assert.Equal(t, "true", q.Get("csv"))
		assert.Equal(t, testAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("\ufeff\"last_name, first_name\",player_id,year,xba,xwoba\n" +
			"\"Judge, Aaron\",592450,2025,.301,.455\n" +
			"\"Ohtani, Shohei\",660271,2025,.285,\n"))
	}))
	defer server.Close()

	c := NewSavantClient(server.URL, testAgent, 5*time.Second, SavantOptions{
		Season:     2025,
		MinPA:      100,
		Selections: []string{"xba", "xwoba"},
	})

	table, err := c.FetchLeaderboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"last_name, first_name", "player_id", "year", "xba", "xwoba"}, table.ColumnNames())
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Judge, Aaron", table.Rows[0][0])
	assert.Equal(t, "", table.Rows[1][4])
	assert.True(t, table.Columns[4].Numeric)
	assert.False(t, table.Columns[0].Numeric)
}

func TestSavantClient_NonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewSavantClient(server.URL, testAgent, 5*time.Second, SavantOptions{Season: 2025})
	table, err := c.FetchLeaderboard(context.Background())
	assert.Nil(t, table)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestParseLeaderboardCSV(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		table, err := ParseLeaderboardCSV(strings.NewReader(""))
		require.NoError(t, err)
		assert.True(t, table.Empty())
	})

	t.Run("ragged rows are padded and trimmed", func(t *testing.T) {
		table, err := ParseLeaderboardCSV(strings.NewReader("a,b,c\n1,2\n4,5,6,7\n"))
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"1", "2", ""}, table.Rows[0])
		assert.Equal(t, []string{"4", "5", "6"}, table.Rows[1])
	})

	t.Run("malformed quoting", func(t *testing.T) {
		_, err := ParseLeaderboardCSV(strings.NewReader("a,b\n\"unterminated,1\n"))
		assert.Error(t, err)
	})
}
