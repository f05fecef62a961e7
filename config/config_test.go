package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("STOREFRONT_SERVER_PORT")
		os.Unsetenv("STOREFRONT_SERVER_ENVIRONMENT")
		os.Unsetenv("STOREFRONT_CATALOG_SOURCE")
		os.Unsetenv("STOREFRONT_CATALOG_BASE_URL")
		os.Unsetenv("STOREFRONT_CATALOG_PATH")
		os.Unsetenv("STOREFRONT_CATALOG_REFRESH_INTERVAL")
		os.Unsetenv("STOREFRONT_CACHE_TYPE")
		os.Unsetenv("STOREFRONT_CACHE_REDIS_URL")
		os.Unsetenv("STOREFRONT_CACHE_TTL")
		os.Unsetenv("STOREFRONT_MATCHER_TOP_K")
		os.Unsetenv("STOREFRONT_MATCHER_FUZZY_THRESHOLD")
		os.Unsetenv("STOREFRONT_LOG_LEVEL")
		os.Unsetenv("STOREFRONT_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.Source != "http" {
			t.Errorf("Catalog.Source = %s, want http", cfg.Catalog.Source)
		}
		if cfg.Catalog.BaseURL != "http://localhost:5000" {
			t.Errorf("Catalog.BaseURL = %s, want http://localhost:5000", cfg.Catalog.BaseURL)
		}
		if cfg.Catalog.RefreshInterval != 10*time.Minute {
			t.Errorf("Catalog.RefreshInterval = %v, want 10m", cfg.Catalog.RefreshInterval)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 15*time.Minute {
			t.Errorf("Cache.TTL = %v, want 15m", cfg.Cache.TTL)
		}
		if cfg.Matcher.CacheSize != 50 {
			t.Errorf("Matcher.CacheSize = %d, want 50", cfg.Matcher.CacheSize)
		}
		if cfg.Matcher.TopK != 5 {
			t.Errorf("Matcher.TopK = %d, want 5", cfg.Matcher.TopK)
		}
		if cfg.Matcher.MinScore != 10 {
			t.Errorf("Matcher.MinScore = %d, want 10", cfg.Matcher.MinScore)
		}
		if cfg.Matcher.FuzzyThreshold != 0.4 {
			t.Errorf("Matcher.FuzzyThreshold = %v, want 0.4", cfg.Matcher.FuzzyThreshold)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STOREFRONT_SERVER_PORT", "9090")
		os.Setenv("STOREFRONT_SERVER_ENVIRONMENT", "production")
		os.Setenv("STOREFRONT_CATALOG_SOURCE", "file")
		os.Setenv("STOREFRONT_CATALOG_PATH", "/data/catalog.yaml")
		os.Setenv("STOREFRONT_CATALOG_REFRESH_INTERVAL", "1h")
		os.Setenv("STOREFRONT_CACHE_TYPE", "redis")
		os.Setenv("STOREFRONT_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("STOREFRONT_CACHE_TTL", "24h")
		os.Setenv("STOREFRONT_MATCHER_TOP_K", "3")
		os.Setenv("STOREFRONT_MATCHER_FUZZY_THRESHOLD", "0.3")
		os.Setenv("STOREFRONT_LOG_LEVEL", "debug")
		os.Setenv("STOREFRONT_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.Source != "file" {
			t.Errorf("Catalog.Source = %s, want file", cfg.Catalog.Source)
		}
		if cfg.Catalog.Path != "/data/catalog.yaml" {
			t.Errorf("Catalog.Path = %s, want /data/catalog.yaml", cfg.Catalog.Path)
		}
		if cfg.Catalog.RefreshInterval != time.Hour {
			t.Errorf("Catalog.RefreshInterval = %v, want 1h", cfg.Catalog.RefreshInterval)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Matcher.TopK != 3 {
			t.Errorf("Matcher.TopK = %d, want 3", cfg.Matcher.TopK)
		}
		if cfg.Matcher.FuzzyThreshold != 0.3 {
			t.Errorf("Matcher.FuzzyThreshold = %v, want 0.3", cfg.Matcher.FuzzyThreshold)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation when catalog path missing for file source", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STOREFRONT_CATALOG_SOURCE", "file")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing catalog path")
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STOREFRONT_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STOREFRONT_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func validConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{Source: "http", BaseURL: "http://localhost:5000"},
		Cache:   CacheConfig{Type: "memory"},
		Matcher: MatcherConfig{CacheSize: 50, TopK: 5, FuzzyThreshold: 0.4},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:    "validates successfully with all required fields",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "fails for unknown catalog source",
			mutate:  func(cfg *Config) { cfg.Catalog.Source = "ftp" },
			wantErr: true,
		},
		{
			name:    "fails when base URL is empty for http source",
			mutate:  func(cfg *Config) { cfg.Catalog.BaseURL = "" },
			wantErr: true,
		},
		{
			name: "validates file source with path",
			mutate: func(cfg *Config) {
				cfg.Catalog.Source = "file"
				cfg.Catalog.Path = "catalog.yaml"
			},
			wantErr: false,
		},
		{
			name:    "fails for invalid cache type",
			mutate:  func(cfg *Config) { cfg.Cache.Type = "invalid-type" },
			wantErr: true,
		},
		{
			name: "validates redis cache type with URL",
			mutate: func(cfg *Config) {
				cfg.Cache.Type = "redis"
				cfg.Cache.RedisURL = "redis://localhost:6379"
			},
			wantErr: false,
		},
		{
			name:    "fails for redis cache without URL",
			mutate:  func(cfg *Config) { cfg.Cache.Type = "redis" },
			wantErr: true,
		},
		{
			name:    "fails for zero fuzzy threshold",
			mutate:  func(cfg *Config) { cfg.Matcher.FuzzyThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "fails for fuzzy threshold above one",
			mutate:  func(cfg *Config) { cfg.Matcher.FuzzyThreshold = 1.5 },
			wantErr: true,
		},
		{
			name:    "fails for non-positive cache size",
			mutate:  func(cfg *Config) { cfg.Matcher.CacheSize = 0 },
			wantErr: true,
		},
		{
			name:    "fails for non-positive top k",
			mutate:  func(cfg *Config) { cfg.Matcher.TopK = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
