// Package web serves the read-only hitter page: the stored expected-stats
// leaderboard and per-player batting order splits computed from every
// stored lineup. Storage is re-read on every request.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"mlb_lineups/internal/lineup"
	"mlb_lineups/internal/metrics"
	"mlb_lineups/internal/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"formatAvg": models.FormatAverage}).
		ParseFS(templateFS, "templates/index.html"),
)

// HitterStatsReader reads the stored leaderboard
type HitterStatsReader interface {
	Load(ctx context.Context) (*models.HitterStatTable, error)
}

// LineupReader reads every stored lineup entry
type LineupReader interface {
	ListAll(ctx context.Context) ([]models.LineupEntry, error)
}

// HealthChecker reports storage health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server holds the web presenter's dependencies
type Server struct {
	stats   HitterStatsReader
	lineups LineupReader
	health  HealthChecker
}

// NewServer creates a web server. health may be nil.
func NewServer(stats HitterStatsReader, lineups LineupReader, health HealthChecker) *Server {
	return &Server{
		stats:   stats,
		lineups: lineups,
		health:  health,
	}
}

// Router returns the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/", s.Index)
	r.Get("/export.xlsx", s.Export)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// page is the data rendered by the index template
type page struct {
	GeneratedAt string
	Stats       *models.HitterStatTable
	Lineups     []models.LineupAggregate
}

// snapshot reads both tables. A failed read is logged and shows as empty.
func (s *Server) snapshot(ctx context.Context) page {
	p := page{
		GeneratedAt: time.Now().Format("2006-01-02 15:04 MST"),
		Stats:       &models.HitterStatTable{},
	}

	stats, err := s.stats.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load hitter stats")
		metrics.RecordError("web", "hitter_stats_read")
	} else if stats != nil {
		p.Stats = stats
	}

	entries, err := s.lineups.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load lineups")
		metrics.RecordError("web", "lineup_read")
	} else {
		p.Lineups = lineup.Aggregate(entries)
	}

	return p
}

// Index renders the hitter stats and lineup splits tables
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p := s.snapshot(ctx)

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, p); err != nil {
		log.Error().Err(err).Msg("Failed to render index")
		metrics.RecordPageRender("index", "error")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("Failed to write index")
	}
	metrics.RecordPageRender("index", "success")
}

// HealthCheck returns the health status of the web presenter
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "mlb-web",
	}

	if s.health != nil {
		if err := s.health.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["error"] = err.Error()
		}
	}

	respondJSON(w, status, body)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
