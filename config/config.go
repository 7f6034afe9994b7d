package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/alorle/hls-sorter/cache"
	"github.com/alorle/hls-sorter/fetcher"
	"github.com/alorle/hls-sorter/logging"
	"github.com/alorle/hls-sorter/rewriter"
)

const (
	// EnvConfigFile names the config file when Load is given no path
	EnvConfigFile = "HLSORT_CONFIG"
	// DefaultConfigFile is read when neither a path nor EnvConfigFile is set
	DefaultConfigFile = "hlsort.yaml"
	// DefaultOutputName is the file name the sort command writes to
	DefaultOutputName = "sorted_master"
)

// Config holds the complete application configuration
type Config struct {
	// Logging settings
	Log struct {
		Level  string `yaml:"level" toml:"level"`
		Format string `yaml:"format" toml:"format"`
	} `yaml:"log" toml:"log"`

	// Upstream fetch settings
	Fetch struct {
		Timeout   Duration      `yaml:"timeout" toml:"timeout"`
		UserAgent string        `yaml:"user_agent" toml:"user_agent"`
		MaxSize   ByteSize      `yaml:"max_size" toml:"max_size"`
		Breaker   BreakerConfig `yaml:"breaker" toml:"breaker"`
	} `yaml:"fetch" toml:"fetch"`

	// Cache settings
	Cache struct {
		Backend string   `yaml:"backend" toml:"backend"`
		Dir     string   `yaml:"dir" toml:"dir"`
		TTL     Duration `yaml:"ttl" toml:"ttl"`
	} `yaml:"cache" toml:"cache"`

	// Default sort keys per section
	Sort struct {
		Stream []string `yaml:"stream" toml:"stream"`
		Audio  []string `yaml:"audio" toml:"audio"`
		Iframe []string `yaml:"iframe" toml:"iframe"`
	} `yaml:"sort" toml:"sort"`

	// Output settings for the sort command
	Output struct {
		Name string `yaml:"name" toml:"name"`
	} `yaml:"output" toml:"output"`

	// HTTP server settings
	HTTP struct {
		Address      string   `yaml:"address" toml:"address"`
		Port         string   `yaml:"port" toml:"port"`
		ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout"`
		WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout"`
	} `yaml:"http" toml:"http"`

	// Metrics settings
	Metrics struct {
		Textfile string `yaml:"textfile" toml:"textfile"`
	} `yaml:"metrics" toml:"metrics"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.Log.Level = "info"
	cfg.Log.Format = logging.FormatAuto

	cfg.Fetch.Timeout = Duration(fetcher.DefaultTimeout)
	cfg.Fetch.UserAgent = fetcher.DefaultUserAgent
	cfg.Fetch.MaxSize = ByteSize(fetcher.DefaultMaxBytes)
	cfg.Fetch.Breaker = DefaultBreakerConfig()

	cfg.Cache.Backend = cache.BackendNone
	cfg.Cache.TTL = Duration(5 * time.Minute)

	cfg.Sort.Stream = []string{"RESOLUTION", "BANDWIDTH"}
	cfg.Sort.Audio = []string{"ID"}
	cfg.Sort.Iframe = []string{"CODECS"}

	cfg.Output.Name = DefaultOutputName

	cfg.HTTP.Address = "127.0.0.1"
	cfg.HTTP.Port = "8080"
	cfg.HTTP.ReadTimeout = Duration(5 * time.Second)
	cfg.HTTP.WriteTimeout = Duration(30 * time.Second)

	return cfg
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	// Logging
	if !logging.ValidLevel(c.Log.Level) {
		errors = append(errors, fmt.Sprintf("log level %q must be one of: debug, info, warn, error", c.Log.Level))
	}
	if !logging.ValidFormat(c.Log.Format) {
		errors = append(errors, fmt.Sprintf("log format %q must be one of: auto, json, text", c.Log.Format))
	}

	// Fetch
	if c.Fetch.Timeout <= 0 {
		errors = append(errors, "fetch timeout must be positive")
	}
	if c.Fetch.MaxSize <= 0 {
		errors = append(errors, "fetch max size must be positive")
	}
	if err := c.Fetch.Breaker.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	// Cache
	switch c.Cache.Backend {
	case cache.BackendNone:
	case cache.BackendFile, cache.BackendBolt:
		if c.Cache.Dir == "" {
			errors = append(errors, fmt.Sprintf("cache directory is required for the %s backend", c.Cache.Backend))
		}
		if c.Cache.TTL <= 0 {
			errors = append(errors, "cache TTL must be positive")
		}
	default:
		errors = append(errors, fmt.Sprintf("cache backend %q must be one of: none, file, bolt", c.Cache.Backend))
	}

	// Sort keys
	if _, err := c.Plan(); err != nil {
		errors = append(errors, fmt.Sprintf("sort: %v", err))
	}

	// Output
	if strings.TrimSpace(c.Output.Name) == "" {
		errors = append(errors, "output name is required")
	}

	// HTTP
	if c.HTTP.Address == "" {
		errors = append(errors, "HTTP address is required")
	}
	if c.HTTP.Port == "" {
		errors = append(errors, "HTTP port is required")
	}
	if c.HTTP.ReadTimeout <= 0 {
		errors = append(errors, "HTTP read timeout must be positive")
	}
	if c.HTTP.WriteTimeout <= 0 {
		errors = append(errors, "HTTP write timeout must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Plan returns the configured default sort plan.
func (c *Config) Plan() (rewriter.Plan, error) {
	return rewriter.ParsePlan(c.Sort.Stream, c.Sort.Audio, c.Sort.Iframe)
}

// FetchOptions builds fetcher options from the fetch and cache sections.
// The caller owns storage.
func (c *Config) FetchOptions(storage cache.Storage) fetcher.Options {
	return fetcher.Options{
		Timeout:   c.Fetch.Timeout.Std(),
		UserAgent: c.Fetch.UserAgent,
		MaxBytes:  int64(c.Fetch.MaxSize),
		Storage:   storage,
		CacheTTL:  c.Cache.TTL.Std(),
		Breaker:   c.Fetch.Breaker.Circuit(),
	}
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return c.HTTP.Address + ":" + c.HTTP.Port
}

// LoadFromFile loads configuration from a YAML or TOML file. The format is
// picked from the extension and defaults to YAML.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return cfg, nil
}

// Load loads configuration from path, applies environment variable overrides
// and validates the result. With an empty path it reads EnvConfigFile or
// DefaultConfigFile, falling back to defaults when that file does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}

	var cfg *Config
	_, err := os.Stat(path)
	switch {
	case err == nil:
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg = Default()
	default:
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	p := &envParser{}

	p.parseEnum("HLSORT_LOG_LEVEL", &cfg.Log.Level, "debug", "info", "warn", "error")
	p.parseEnum("HLSORT_LOG_FORMAT", &cfg.Log.Format, logging.FormatAuto, logging.FormatJSON, logging.FormatText)

	p.parseDuration("HLSORT_FETCH_TIMEOUT", &cfg.Fetch.Timeout)
	p.parseString("HLSORT_FETCH_USER_AGENT", &cfg.Fetch.UserAgent)
	p.parseByteSize("HLSORT_FETCH_MAX_SIZE", &cfg.Fetch.MaxSize)
	p.parseInt("HLSORT_BREAKER_FAILURE_THRESHOLD", &cfg.Fetch.Breaker.FailureThreshold)
	p.parseDuration("HLSORT_BREAKER_TIMEOUT", &cfg.Fetch.Breaker.Timeout)
	p.parseInt("HLSORT_BREAKER_HALF_OPEN_REQUESTS", &cfg.Fetch.Breaker.HalfOpenRequests)

	p.parseEnum("HLSORT_CACHE_BACKEND", &cfg.Cache.Backend, cache.BackendNone, cache.BackendFile, cache.BackendBolt)
	p.parseString("HLSORT_CACHE_DIR", &cfg.Cache.Dir)
	p.parseDuration("HLSORT_CACHE_TTL", &cfg.Cache.TTL)

	p.parseList("HLSORT_SORT_STREAM", &cfg.Sort.Stream)
	p.parseList("HLSORT_SORT_AUDIO", &cfg.Sort.Audio)
	p.parseList("HLSORT_SORT_IFRAME", &cfg.Sort.Iframe)

	p.parseString("HLSORT_OUTPUT_NAME", &cfg.Output.Name)

	p.parseString("HLSORT_HTTP_ADDRESS", &cfg.HTTP.Address)
	p.parseString("HLSORT_HTTP_PORT", &cfg.HTTP.Port)
	p.parseDuration("HLSORT_HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	p.parseDuration("HLSORT_HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)

	p.parseString("HLSORT_METRICS_TEXTFILE", &cfg.Metrics.Textfile)

	if err := p.err(); err != nil {
		return err
	}

	if cfg.Cache.Dir != "" {
		absPath, err := validateCacheDir(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		cfg.Cache.Dir = absPath
	}

	return nil
}

// validateCacheDir validates and normalizes the cache directory path
func validateCacheDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("cache directory cannot be empty")
	}

	if !filepath.IsAbs(dir) {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path for cache dir: %w", err)
		}
		return absPath, nil
	}

	return dir, nil
}

// Print writes the effective configuration, one setting per line
func (c *Config) Print(w io.Writer) {
	plan, _ := c.Plan()
	fmt.Fprintf(w, "logLevel: %v\n", c.Log.Level)
	fmt.Fprintf(w, "logFormat: %v\n", c.Log.Format)
	fmt.Fprintf(w, "fetchTimeout: %v\n", c.Fetch.Timeout)
	fmt.Fprintf(w, "fetchUserAgent: %v\n", c.Fetch.UserAgent)
	fmt.Fprintf(w, "fetchMaxSize: %v\n", c.Fetch.MaxSize)
	fmt.Fprintf(w, "breakerFailureThreshold: %v\n", c.Fetch.Breaker.FailureThreshold)
	fmt.Fprintf(w, "breakerTimeout: %v\n", c.Fetch.Breaker.Timeout)
	fmt.Fprintf(w, "breakerHalfOpenRequests: %v\n", c.Fetch.Breaker.HalfOpenRequests)
	fmt.Fprintf(w, "cacheBackend: %v\n", c.Cache.Backend)
	fmt.Fprintf(w, "cacheDir: %v\n", c.Cache.Dir)
	fmt.Fprintf(w, "cacheTTL: %v\n", c.Cache.TTL)
	fmt.Fprintf(w, "sortPlan: %v\n", plan)
	fmt.Fprintf(w, "outputName: %v\n", c.Output.Name)
	fmt.Fprintf(w, "httpAddress: %v\n", c.HTTP.Address)
	fmt.Fprintf(w, "httpPort: %v\n", c.HTTP.Port)
	fmt.Fprintf(w, "httpReadTimeout: %v\n", c.HTTP.ReadTimeout)
	fmt.Fprintf(w, "httpWriteTimeout: %v\n", c.HTTP.WriteTimeout)
	fmt.Fprintf(w, "metricsTextfile: %v\n", c.Metrics.Textfile)
}
