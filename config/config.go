package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Wildberries WildberriesConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Search      SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// WildberriesConfig holds Wildberries API configuration
type WildberriesConfig struct {
	CardBaseURL   string `mapstructure:"card_base_url"`
	SearchBaseURL string `mapstructure:"search_base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerUser int `mapstructure:"per_user"`
}

// SearchConfig holds candidate collection and selection thresholds
type SearchConfig struct {
	SimilarLimit       int     `mapstructure:"similar_limit"`
	CheaperLimit       int     `mapstructure:"cheaper_limit"`
	MaxPricePercent    int     `mapstructure:"max_price_percent"`
	MinRating          float64 `mapstructure:"min_rating"`
	MinFeedbacks       int     `mapstructure:"min_feedbacks"`
	FirstQueryMinScore int     `mapstructure:"first_query_min_score"`
	NextQueryMinScore  int     `mapstructure:"next_query_min_score"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/wbfinder/")

	// Environment variable settings
	v.SetEnvPrefix("WBFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
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

	// Wildberries defaults
	v.SetDefault("wildberries.card_base_url", "https://card.wb.ru")
	v.SetDefault("wildberries.search_base_url", "https://search.wb.ru")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "6h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_user", 10)

	// Search defaults
	v.SetDefault("search.similar_limit", 30)
	v.SetDefault("search.cheaper_limit", 100)
	v.SetDefault("search.max_price_percent", 100)
	v.SetDefault("search.min_rating", 4.0)
	v.SetDefault("search.min_feedbacks", 10)
	v.SetDefault("search.first_query_min_score", 3)
	v.SetDefault("search.next_query_min_score", 2)
	v.SetDefault("search.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Wildberries.CardBaseURL == "" || config.Wildberries.SearchBaseURL == "" {
		return fmt.Errorf("Wildberries base URLs must not be empty")
	}

	if config.Search.MaxPricePercent <= 0 {
		return fmt.Errorf("max price percent must be positive, got: %d", config.Search.MaxPricePercent)
	}

	return nil
}
