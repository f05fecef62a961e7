package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Matcher   MatcherConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds product catalog source configuration
type CatalogConfig struct {
	Source            string        `mapstructure:"source"` // "http" or "file"
	BaseURL           string        `mapstructure:"base_url"`
	Path              string        `mapstructure:"path"`
	PageSize          int           `mapstructure:"page_size"`
	RefreshInterval   time.Duration `mapstructure:"refresh_interval"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// CacheConfig holds catalog snapshot cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatcherConfig holds relevance matcher configuration
type MatcherConfig struct {
	CacheSize       int     `mapstructure:"cache_size"`
	TopK            int     `mapstructure:"top_k"`
	MinScore        int     `mapstructure:"min_score"`
	FuzzyThreshold  float64 `mapstructure:"fuzzy_threshold"`
	FuzzyCandidates int     `mapstructure:"fuzzy_candidates"`
	MaxFuzzyQueries int     `mapstructure:"max_fuzzy_queries"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront/")

	// STOREFRONT_CATALOG_BASE_URL -> catalog.base_url
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults
	v.SetDefault("catalog.source", "http")
	v.SetDefault("catalog.base_url", "http://localhost:5000")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.page_size", 1000)
	v.SetDefault("catalog.refresh_interval", "10m")
	v.SetDefault("catalog.requests_per_second", 1.0)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "15m")

	// Matcher defaults
	v.SetDefault("matcher.cache_size", 50)
	v.SetDefault("matcher.top_k", 5)
	v.SetDefault("matcher.min_score", 10)
	v.SetDefault("matcher.fuzzy_threshold", 0.4)
	v.SetDefault("matcher.fuzzy_candidates", 3)
	v.SetDefault("matcher.max_fuzzy_queries", 64)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "http":
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base URL is required when catalog source is 'http'")
		}
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file' (set STOREFRONT_CATALOG_PATH)")
		}
	default:
		return fmt.Errorf("catalog source must be 'http' or 'file', got: %s", config.Catalog.Source)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Matcher.FuzzyThreshold <= 0 || config.Matcher.FuzzyThreshold > 1 {
		return fmt.Errorf("matcher fuzzy threshold must be in (0, 1], got: %v", config.Matcher.FuzzyThreshold)
	}

	if config.Matcher.CacheSize <= 0 {
		return fmt.Errorf("matcher cache size must be positive, got: %d", config.Matcher.CacheSize)
	}

	if config.Matcher.TopK <= 0 {
		return fmt.Errorf("matcher top_k must be positive, got: %d", config.Matcher.TopK)
	}

	return nil
}
