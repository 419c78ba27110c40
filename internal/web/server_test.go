package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mlb_lineups/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeStore struct {
	stats      *models.HitterStatTable
	entries    []models.LineupEntry
	statsErr   error
	lineupErr  error
	healthErr  error
	statsLoads int
}

func (f *fakeStore) Load(ctx context.Context) (*models.HitterStatTable, error) {
	f.statsLoads++
	return f.stats, f.statsErr
}

func (f *fakeStore) ListAll(ctx context.Context) ([]models.LineupEntry, error) {
	return f.entries, f.lineupErr
}

func (f *fakeStore) Health(ctx context.Context) error {
	return f.healthErr
}

func newTestServer(store *fakeStore) http.Handler {
	return NewServer(store, store, store).Router()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleStore() *fakeStore {
	return &fakeStore{
		stats: models.NewHitterStatTable(
			[]string{"last_name, first_name", "player_id", "xwoba"},
			[][]string{{"Judge, Aaron", "592450", "0.45"}, {"Soto, Juan", "665742", ""}},
		),
		entries: []models.LineupEntry{
			{GamePK: 1, PlayerID: 501, PlayerName: "Split Guy", BattingOrder: 3, PitcherHand: "L"},
			{GamePK: 2, PlayerID: 501, PlayerName: "Split Guy", BattingOrder: 5, PitcherHand: "R"},
			{GamePK: 3, PlayerID: 7, PlayerName: "Righty <Masher>", BattingOrder: 2, PitcherHand: "R"},
		},
	}
}

func TestIndex(t *testing.T) {
	store := sampleStore()
	rec := get(t, newTestServer(store), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<th>last_name, first_name</th>")
	assert.Contains(t, body, "Judge, Aaron")
	assert.Contains(t, body, "592450")
	assert.Contains(t, body, "<td>3.00</td>")
	assert.Contains(t, body, "<td>5.00</td>")
	assert.Contains(t, body, "<td>N/A</td>")
	assert.Contains(t, body, "RHP-only")
	assert.Contains(t, body, "Righty &lt;Masher&gt;", "names are escaped")
}

func TestIndex_RereadsStorageEachRequest(t *testing.T) {
	store := sampleStore()
	h := newTestServer(store)

	get(t, h, "/")
	store.stats = models.NewHitterStatTable([]string{"player_id"}, [][]string{{"123456"}})
	rec := get(t, h, "/")

	assert.Equal(t, 2, store.statsLoads)
	assert.Contains(t, rec.Body.String(), "123456")
	assert.NotContains(t, rec.Body.String(), "Judge, Aaron")
}

func TestIndex_EmptyStorage(t *testing.T) {
	rec := get(t, newTestServer(&fakeStore{stats: &models.HitterStatTable{}}), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No hitter stats available.")
	assert.Contains(t, rec.Body.String(), "No lineup data available.")
}

func TestIndex_StorageErrorsRenderEmpty(t *testing.T) {
	store := &fakeStore{
		statsErr:  errors.New("relation does not exist"),
		lineupErr: errors.New("connection reset"),
	}
	rec := get(t, newTestServer(store), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No hitter stats available.")
	assert.NotContains(t, body, "connection reset")
}

func TestHealthCheck(t *testing.T) {
	store := &fakeStore{}
	h := newTestServer(store)

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])

	store.healthErr = errors.New("database health check failed")
	rec = get(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&fakeStore{}), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestExport(t *testing.T) {
	rec := get(t, newTestServer(sampleStore()), "/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "mlb_hitters.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	stats, err := f.GetRows(SheetHitterStats)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, []string{"last_name, first_name", "player_id", "xwoba"}, stats[0])
	assert.Equal(t, "Judge, Aaron", stats[1][0])
	assert.Equal(t, "592450", stats[1][1])

	splits, err := f.GetRows(SheetLineups)
	require.NoError(t, err)
	require.Len(t, splits, 3)
	assert.Equal(t, "Player", splits[0][0])
	assert.Equal(t, []string{"Righty <Masher>", "7", "N/A", "0", "2", "1", "RHP-only"}, splits[1])
	assert.Equal(t, "Split Guy", splits[2][0])
}
