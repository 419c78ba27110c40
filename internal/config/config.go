package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// MLB StatsAPI (schedule, boxscores, people)
	StatsAPIBaseURL string        `envconfig:"STATSAPI_BASE_URL" default:"https://statsapi.mlb.com/api/v1"`
	StatsAPITimeout time.Duration `envconfig:"STATSAPI_TIMEOUT" default:"15s"`

	// Baseball Savant expected-stats leaderboard
	SavantLeaderboardURL string        `envconfig:"SAVANT_LEADERBOARD_URL" default:"https://baseballsavant.mlb.com/leaderboard/custom"`
	SavantTimeout        time.Duration `envconfig:"SAVANT_TIMEOUT" default:"30s"`
	SavantSeason         int           `envconfig:"SAVANT_SEASON" default:"2025"`
	SavantMinPA          int           `envconfig:"SAVANT_MIN_PA" default:"100"`
	SavantSelections     []string      `envconfig:"SAVANT_SELECTIONS" default:"ab,pa,k_percent,bb_percent,batting_avg,slg_percent,on_base_percent,b_rbi,b_total_bases,r_total_stolen_base,xba,xslg,woba,xwoba,xobp,xbadiff,xslgdiff,wobadiff,avg_swing_speed,sweet_spot_percent,solidcontact_percent,hard_hit_percent,avg_best_speed,avg_hyper_speed"`

	// Savant rejects requests without a browser-like agent
	HTTPUserAgent string `envconfig:"HTTP_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64)"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"mlb_lineups"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"mlb_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Caching TTL (in seconds)
	CacheTTLPitcherHand int `envconfig:"CACHE_TTL_PITCHER_HAND" default:"2592000"` // 30 days

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Web presenter
	WebPort int `envconfig:"WEB_PORT" default:"5000"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"false"`
	DailyLineupCron    string `envconfig:"DAILY_LINEUP_CRON" default:"0 9 * * *"`
	StatsRefreshCron   string `envconfig:"STATS_REFRESH_CRON" default:"30 9 * * *"`

	// Ingestion
	SeasonStartDate string `envconfig:"SEASON_START_DATE" default:"2025-03-28"`
	IngestWorkers   int    `envconfig:"INGEST_WORKERS" default:"1"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// DateLayout is the calendar date format used by the StatsAPI and the CLI
const DateLayout = "2006-01-02"

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.IngestWorkers < 1 {
		return fmt.Errorf("INGEST_WORKERS must be at least 1, got %d", c.IngestWorkers)
	}

	if _, err := c.SeasonStart(); err != nil {
		return fmt.Errorf("SEASON_START_DATE must be YYYY-MM-DD: %w", err)
	}

	if strings.TrimSpace(c.HTTPUserAgent) == "" {
		return fmt.Errorf("HTTP_USER_AGENT must not be empty")
	}

	return nil
}

// SeasonStart parses SEASON_START_DATE
func (c *Config) SeasonStart() (time.Time, error) {
	return time.ParseInLocation(DateLayout, c.SeasonStartDate, time.Local)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PitcherHandTTL returns the cache TTL for pitcher handedness lookups
func (c *Config) PitcherHandTTL() time.Duration {
	return time.Duration(c.CacheTTLPitcherHand) * time.Second
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
