package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/itcaat/olxsearch/internal/models"
	"github.com/itcaat/olxsearch/internal/parser"
)

const (
	configPathEnv = "OLXSEARCH_CONFIG"
	logLevelEnv   = "OLXSEARCH_LOG_LEVEL"
	baseURLEnv    = "OLXSEARCH_BASE_URL"
	timeoutEnv    = "OLXSEARCH_TIMEOUT"
	rpsEnv        = "OLXSEARCH_RPS"
)

// Config holds settings shared by the CLI and the search pipeline.
type Config struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	Search  SearchConfig  `yaml:"search" toml:"search"`
}

// LoggingConfig selects the slog level and an optional log file.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// HTTPConfig describes the outbound side.
type HTTPConfig struct {
	BaseURL           string        `yaml:"base_url" toml:"base_url"`
	Timeout           string        `yaml:"timeout" toml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" toml:"requests_per_second"`
	timeout           time.Duration `yaml:"-" toml:"-"`
}

// TimeoutDuration is the parsed per-request timeout.
func (h HTTPConfig) TimeoutDuration() time.Duration {
	if h.timeout > 0 {
		return h.timeout
	}
	return models.DefaultTimeout
}

// SearchConfig provides defaults for search requests.
type SearchConfig struct {
	Limit       int    `yaml:"limit" toml:"limit"`
	Concurrency int    `yaml:"concurrency" toml:"concurrency"`
	Sort        string `yaml:"sort" toml:"sort"`
	MaxPages    int    `yaml:"max_pages" toml:"max_pages"`
}

// Load builds the configuration from defaults, an optional YAML or TOML file
// and environment overrides. An empty path falls back to $OLXSEARCH_CONFIG.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.bindTimeout(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "warn"},
		HTTP: HTTPConfig{
			BaseURL: parser.BaseURL,
			Timeout: models.DefaultTimeout.String(),
			timeout: models.DefaultTimeout,
		},
		Search: SearchConfig{
			Limit:       models.DefaultLimit,
			Concurrency: models.DefaultConcurrency,
			Sort:        string(models.SortRelevance),
			MaxPages:    models.DefaultMaxPages,
		},
	}
}

// Request returns a search request for query seeded with configured defaults.
func (c Config) Request(query string) models.SearchRequest {
	req := models.DefaultSearchRequest(query)
	req.Timeout = c.HTTP.TimeoutDuration()
	if c.Search.Limit != 0 {
		req.Limit = c.Search.Limit
	}
	if c.Search.Concurrency != 0 {
		req.Concurrency = c.Search.Concurrency
	}
	if c.Search.Sort != "" {
		req.Sort = models.SortOrder(c.Search.Sort)
	}
	if c.Search.MaxPages != 0 {
		req.MaxPages = c.Search.MaxPages
	}
	return req
}

func readFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var fileCfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, &fileCfg)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(raw, &fileCfg)
	default:
		return Config{}, fmt.Errorf("config: unsupported format %q", filepath.Ext(path))
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(baseURLEnv); v != "" {
		c.HTTP.BaseURL = v
	}

	if v := os.Getenv(timeoutEnv); v != "" {
		c.HTTP.Timeout = v
	}

	if v := os.Getenv(rpsEnv); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", rpsEnv, err)
		}
		c.HTTP.RequestsPerSecond = rps
	}
	return nil
}

func (c *Config) bindTimeout() error {
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil {
		return fmt.Errorf("config: http.timeout %q: %w", c.HTTP.Timeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("config: http.timeout must be positive, got %s", d)
	}
	c.HTTP.timeout = d
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if override.HTTP.BaseURL != "" {
		base.HTTP.BaseURL = override.HTTP.BaseURL
	}
	if override.HTTP.Timeout != "" {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.RequestsPerSecond != 0 {
		base.HTTP.RequestsPerSecond = override.HTTP.RequestsPerSecond
	}

	if override.Search.Limit != 0 {
		base.Search.Limit = override.Search.Limit
	}
	if override.Search.Concurrency != 0 {
		base.Search.Concurrency = override.Search.Concurrency
	}
	if override.Search.Sort != "" {
		base.Search.Sort = override.Search.Sort
	}
	if override.Search.MaxPages != 0 {
		base.Search.MaxPages = override.Search.MaxPages
	}

	return base
}
