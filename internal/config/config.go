// Package config loads service configuration from config/{ENV_NAME}.yaml with
// sane defaults for every field, so the service also starts with no config
// file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration.
type Config struct {
	ServerPort string

	OpenAQURL       string
	OpenMeteoURL    string
	ProviderTimeout time.Duration
	ProviderRadiusM int

	RequestTimeout time.Duration

	CacheBackend string // "in_memory" or "memcached"
	CacheTTL     time.Duration
	CacheSize    int

	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	RateLimitRPS   int
	RateLimitBurst int

	StrictCoordinates bool

	BreakerEnabled          bool
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
	BreakerTimeout          time.Duration

	DegradedWindow      time.Duration
	DegradedFallbackPct int

	NoiseSeed int64 // 0 = time-based

	StaticDir string

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Providers struct {
		OpenAQURL    string `yaml:"openaq_url"`
		OpenMeteoURL string `yaml:"openmeteo_url"`
		Timeout      string `yaml:"timeout"`
		RadiusMeters int    `yaml:"radius_meters"`
	} `yaml:"providers"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Cache struct {
		Backend   string `yaml:"backend"`
		TTL       string `yaml:"ttl"`
		Size      int    `yaml:"size"`
		Memcached struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	Reliability struct {
		RateLimitRPS            int    `yaml:"rate_limit_rps"`
		RateLimitBurst          int    `yaml:"rate_limit_burst"`
		BreakerEnabled          *bool  `yaml:"breaker_enabled"`
		BreakerFailureThreshold int    `yaml:"breaker_failure_threshold"`
		BreakerSuccessThreshold int    `yaml:"breaker_success_threshold"`
		BreakerTimeout          string `yaml:"breaker_timeout"`
	} `yaml:"reliability"`

	Validation struct {
		StrictCoordinates *bool `yaml:"strict_coordinates"`
	} `yaml:"validation"`

	Health struct {
		DegradedWindow      string `yaml:"degraded_window"`
		DegradedFallbackPct int    `yaml:"degraded_fallback_pct"`
	} `yaml:"health"`

	Simulation struct {
		NoiseSeed int64 `yaml:"noise_seed"`
	} `yaml:"simulation"`

	Static struct {
		Dir string `yaml:"dir"`
	} `yaml:"static"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev) relative
// to the working directory. A missing file yields the defaults; a malformed
// file is an error.
func Load() (*Config, error) {
	cfg := defaults()

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	applyFile(cfg, &fc)

	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerPort = port
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:      "8000",
		OpenAQURL:       "https://api.openaq.org/v2/latest",
		OpenMeteoURL:    "https://api.open-meteo.com/v1/forecast",
		ProviderTimeout: 10 * time.Second,
		ProviderRadiusM: 50000,

		RequestTimeout: 25 * time.Second,

		CacheBackend: "in_memory",
		CacheTTL:     300 * time.Second,
		CacheSize:    1024,

		MemcachedAddrs: "localhost:11211",

		RateLimitRPS:   0, // disabled
		RateLimitBurst: 0,

		StrictCoordinates: true,

		BreakerEnabled:          true,
		BreakerFailureThreshold: 5,
		BreakerSuccessThreshold: 2,
		BreakerTimeout:          30 * time.Second,

		DegradedWindow:      60 * time.Second,
		DegradedFallbackPct: 50,

		StaticDir: "static",

		ShutdownTimeout:               10 * time.Second,
		ShutdownInFlightTimeout:       10 * time.Second,
		ShutdownInFlightCheckInterval: 100 * time.Millisecond,
	}
}

// applyFile overwrites defaults with the values present in the file.
func applyFile(cfg *Config, fc *fileConfig) {
	if fc.Server.Port != "" {
		cfg.ServerPort = fc.Server.Port
	}
	if fc.Providers.OpenAQURL != "" {
		cfg.OpenAQURL = fc.Providers.OpenAQURL
	}
	if fc.Providers.OpenMeteoURL != "" {
		cfg.OpenMeteoURL = fc.Providers.OpenMeteoURL
	}
	setDuration(&cfg.ProviderTimeout, fc.Providers.Timeout)
	if fc.Providers.RadiusMeters > 0 {
		cfg.ProviderRadiusM = fc.Providers.RadiusMeters
	}
	setDuration(&cfg.RequestTimeout, fc.Request.Timeout)

	if fc.Cache.Backend != "" {
		cfg.CacheBackend = fc.Cache.Backend
	}
	setDuration(&cfg.CacheTTL, fc.Cache.TTL)
	if fc.Cache.Size > 0 {
		cfg.CacheSize = fc.Cache.Size
	}
	if fc.Cache.Memcached.Addrs != "" {
		cfg.MemcachedAddrs = fc.Cache.Memcached.Addrs
	}
	setDuration(&cfg.MemcachedTimeout, fc.Cache.Memcached.Timeout)
	if fc.Cache.Memcached.MaxIdleConns > 0 {
		cfg.MemcachedMaxIdleConns = fc.Cache.Memcached.MaxIdleConns
	}

	if fc.Reliability.RateLimitRPS > 0 {
		cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	}
	if fc.Reliability.RateLimitBurst > 0 {
		cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	}
	if fc.Reliability.BreakerEnabled != nil {
		cfg.BreakerEnabled = *fc.Reliability.BreakerEnabled
	}
	if fc.Reliability.BreakerFailureThreshold > 0 {
		cfg.BreakerFailureThreshold = fc.Reliability.BreakerFailureThreshold
	}
	if fc.Reliability.BreakerSuccessThreshold > 0 {
		cfg.BreakerSuccessThreshold = fc.Reliability.BreakerSuccessThreshold
	}
	setDuration(&cfg.BreakerTimeout, fc.Reliability.BreakerTimeout)

	if fc.Validation.StrictCoordinates != nil {
		cfg.StrictCoordinates = *fc.Validation.StrictCoordinates
	}

	setDuration(&cfg.DegradedWindow, fc.Health.DegradedWindow)
	if fc.Health.DegradedFallbackPct > 0 {
		cfg.DegradedFallbackPct = fc.Health.DegradedFallbackPct
	}

	cfg.NoiseSeed = fc.Simulation.NoiseSeed

	if fc.Static.Dir != "" {
		cfg.StaticDir = fc.Static.Dir
	}

	setDuration(&cfg.ShutdownTimeout, fc.Shutdown.Timeout)
	setDuration(&cfg.ShutdownInFlightTimeout, fc.Shutdown.InFlightTimeout)
	setDuration(&cfg.ShutdownInFlightCheckInterval, fc.Shutdown.InFlightCheckInterval)
}

// setDuration parses s into dst when s is a non-empty valid duration.
func setDuration(dst *time.Duration, s string) {
	if s == "" {
		return
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		*dst = d
	}
}
