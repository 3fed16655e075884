package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/weighting"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	OddsAPI   OddsAPIConfig   `yaml:"odds_api"`
	Multi     MultiConfig     `yaml:"multi"`
	Poller    PollerConfig    `yaml:"poller"`
	Cache     CacheConfig     `yaml:"cache"`
	Weighting WeightingConfig `yaml:"weighting"`
	Log       LogConfig       `yaml:"log"`

	// Sports overrides the built-in registry when non-empty
	Sports []models.Sport `yaml:"sports"`

	// EnabledSports restricts the registry to these codes (all when empty)
	EnabledSports []string `yaml:"enabled_sports"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// RedisConfig holds Redis connection configuration. An empty URL disables
// the response cache and the stream publisher.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether a Redis address is configured
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// OddsAPIConfig configures the upstream odds client
type OddsAPIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Regions     string        `yaml:"regions"`
	Markets     string        `yaml:"markets"`
	OddsFormat  string        `yaml:"odds_format"`
	RatePerSec  float64       `yaml:"rate_per_sec"`
	Burst       int           `yaml:"burst"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	Concurrency int           `yaml:"concurrency"`
}

// MultiConfig tunes outcome selection
type MultiConfig struct {
	MinProbability float64 `yaml:"min_probability"`
	WindowDays     int     `yaml:"window_days"`
	OneLegPerEvent *bool   `yaml:"one_leg_per_event"`

	// MaxQuoteAge drops bookmaker quotes older than this from match consensus
	MaxQuoteAge time.Duration `yaml:"max_quote_age"`
}

// LegPerEvent reports whether a multi may hold only one leg per event
func (m MultiConfig) LegPerEvent() bool {
	return m.OneLegPerEvent == nil || *m.OneLegPerEvent
}

// Window returns the look-ahead window for multi outcomes
func (m MultiConfig) Window() time.Duration {
	return time.Duration(m.WindowDays) * 24 * time.Hour
}

// PollerConfig controls background multi regeneration
type PollerConfig struct {
	Enabled  *bool         `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// IsEnabled defaults to true
func (p PollerConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// CacheConfig holds response cache TTLs per endpoint
type CacheConfig struct {
	Multis  time.Duration `yaml:"multis"`
	Matches time.Duration `yaml:"matches"`
	Match   time.Duration `yaml:"match"`
	Rounds  time.Duration `yaml:"rounds"`
	Leagues time.Duration `yaml:"leagues"`
}

// WeightingConfig selects the aggregation weight policy
type WeightingConfig struct {
	Method      string                           `yaml:"method"` // equal | softmax | inverse
	Temperature float64                          `yaml:"temperature"`
	Floor       float64                          `yaml:"floor"`
	Ceiling     float64                          `yaml:"ceiling"`
	MinSamples  int                              `yaml:"min_samples"`
	Performance map[string]weighting.Performance `yaml:"performance"`
}

// LogConfig controls logging format, level and output
type LogConfig struct {
	Level      string `yaml:"level"`  // debug | info | warn | error
	Format     string `yaml:"format"` // text | json
	File       string `yaml:"file"`   // empty = stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads the YAML file at path (if present), loads .env, applies
// environment overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
			}
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides overwrites values with environment variables when set
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		cfg.OddsAPI.APIKey = v
	}
	if v := os.Getenv("ODDS_API_BASE_URL"); v != "" {
		cfg.OddsAPI.BaseURL = v
	}
	if v := os.Getenv("ODDS_API_REGIONS"); v != "" {
		cfg.OddsAPI.Regions = v
	}
	if v := os.Getenv("MIN_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: MIN_PROBABILITY: %w", err)
		}
		cfg.Multi.MinProbability = p
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: POLL_INTERVAL: %w", err)
		}
		cfg.Poller.Interval = d
	}
	if v := os.Getenv("SPORTS"); v != "" {
		cfg.EnabledSports = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// setDefaults makes sure required values are sensible
func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}

	if cfg.OddsAPI.BaseURL == "" {
		cfg.OddsAPI.BaseURL = "https://api.the-odds-api.com/v4"
	}
	if cfg.OddsAPI.Regions == "" {
		cfg.OddsAPI.Regions = "au"
	}
	if cfg.OddsAPI.Markets == "" {
		cfg.OddsAPI.Markets = "h2h"
	}
	if cfg.OddsAPI.OddsFormat == "" {
		cfg.OddsAPI.OddsFormat = "decimal"
	}
	if cfg.OddsAPI.RatePerSec <= 0 {
		cfg.OddsAPI.RatePerSec = 5
	}
	if cfg.OddsAPI.Burst <= 0 {
		cfg.OddsAPI.Burst = 5
	}
	if cfg.OddsAPI.Timeout <= 0 {
		cfg.OddsAPI.Timeout = 15 * time.Second
	}
	if cfg.OddsAPI.MaxRetries < 0 {
		cfg.OddsAPI.MaxRetries = 0
	} else if cfg.OddsAPI.MaxRetries == 0 {
		cfg.OddsAPI.MaxRetries = 3
	}
	if cfg.OddsAPI.Concurrency <= 0 {
		cfg.OddsAPI.Concurrency = 8
	}

	if cfg.Multi.MinProbability <= 0 || cfg.Multi.MinProbability >= 1 {
		cfg.Multi.MinProbability = 0.65
	}
	if cfg.Multi.WindowDays <= 0 {
		cfg.Multi.WindowDays = 7
	}

	if cfg.Poller.Interval <= 0 {
		cfg.Poller.Interval = 60 * time.Second
	}

	if cfg.Cache.Multis <= 0 {
		cfg.Cache.Multis = 60 * time.Second
	}
	if cfg.Cache.Matches <= 0 {
		cfg.Cache.Matches = 300 * time.Second
	}
	if cfg.Cache.Match <= 0 {
		cfg.Cache.Match = 60 * time.Second
	}
	if cfg.Cache.Rounds <= 0 {
		cfg.Cache.Rounds = 300 * time.Second
	}
	if cfg.Cache.Leagues <= 0 {
		cfg.Cache.Leagues = time.Hour
	}

	if cfg.Weighting.Method == "" {
		cfg.Weighting.Method = weighting.MethodEqual
	}
	if cfg.Weighting.Temperature <= 0 {
		cfg.Weighting.Temperature = 1.0
	}
	if cfg.Weighting.Floor <= 0 {
		cfg.Weighting.Floor = 0.05
	}
	if cfg.Weighting.Ceiling <= 0 {
		cfg.Weighting.Ceiling = 0.50
	}
	if cfg.Weighting.MinSamples <= 0 {
		cfg.Weighting.MinSamples = 10
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
