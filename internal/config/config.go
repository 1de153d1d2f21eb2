// Package config provides the run configuration for courtsync, loaded from
// environment variables. Every component receives the Config (or the fields
// it needs) explicitly; there are no package-level path globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all recognized run options.
type Config struct {
	// League identity
	LeagueName string // e.g. "leumit", used as a file-name prefix
	BaseURL    string // site root, e.g. https://ibasketball.co.il
	LeagueURL  string // league landing page with the player gallery

	// Persistence
	DataRoot string // root folder for all persisted tables
	GamesDir string // per-game tables live under here
	TeamsCSV string // reference table for team-name resolution
	LogFile  string // append-only run log

	// Scraping behavior
	RequestDelay time.Duration // courtesy delay between page fetches
	FetchTimeout time.Duration // per-request HTTP timeout

	// Process
	ListenAddr   string // REST API listen address (serve mode)
	CronSchedule string // cron spec for scheduled runs
	LogLevel     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present (missing file is not an error).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataRoot := getEnv("COURTSYNC_DATA_ROOT", "data/leumit")
	leagueName := getEnv("COURTSYNC_LEAGUE", "leumit")

	cfg := &Config{
		LeagueName:   leagueName,
		BaseURL:      getEnv("COURTSYNC_BASE_URL", "https://ibasketball.co.il"),
		LeagueURL:    getEnv("COURTSYNC_LEAGUE_URL", "https://ibasketball.co.il/league/2025-2/"),
		DataRoot:     dataRoot,
		GamesDir:     getEnv("COURTSYNC_GAMES_DIR", filepath.Join(dataRoot, leagueName+"_games")),
		TeamsCSV:     getEnv("COURTSYNC_TEAMS_CSV", filepath.Join(dataRoot, "team_names.csv")),
		LogFile:      getEnv("COURTSYNC_LOG_FILE", filepath.Join(dataRoot, "update_log.txt")),
		RequestDelay: getDuration("COURTSYNC_REQUEST_DELAY", time.Second),
		FetchTimeout: getDuration("COURTSYNC_FETCH_TIMEOUT", 10*time.Second),
		ListenAddr:   getEnv("COURTSYNC_LISTEN_ADDR", ":8080"),
		CronSchedule: getEnv("COURTSYNC_CRON", "0 5 * * *"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LeagueName == "" {
		return fmt.Errorf("config: league name must not be empty")
	}
	if c.BaseURL == "" || c.LeagueURL == "" {
		return fmt.Errorf("config: base and league URLs must not be empty")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("config: request delay must not be negative")
	}
	return nil
}

// TablePath returns the path of a league-prefixed table under the data root,
// e.g. TablePath("player_details") -> data/leumit/leumit_player_details.csv.
func (c *Config) TablePath(name string) string {
	return filepath.Join(c.DataRoot, fmt.Sprintf("%s_%s.csv", c.LeagueName, name))
}

// GamePath returns the path of a per-game table under the games dir.
func (c *Config) GamePath(name string) string {
	return filepath.Join(c.GamesDir, name+".csv")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare integers are treated as seconds.
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
