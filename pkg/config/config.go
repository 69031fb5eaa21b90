package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// JWT
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Draft defaults
	DefaultTeamCount  int    `mapstructure:"DEFAULT_TEAM_COUNT"`
	DefaultRoundCount int    `mapstructure:"DEFAULT_ROUND_COUNT"`
	DefaultDraftType  string `mapstructure:"DEFAULT_DRAFT_TYPE"`

	// Prediction
	PredictionSeed int64 `mapstructure:"PREDICTION_SEED"`

	// Caching
	ProfileCacheTTL int `mapstructure:"PROFILE_CACHE_TTL"` // seconds
	PoolCacheTTL    int `mapstructure:"POOL_CACHE_TTL"`    // seconds

	// ADP sources
	ADPPrimaryURL      string `mapstructure:"ADP_PRIMARY_URL"`
	ADPSecondaryURL    string `mapstructure:"ADP_SECONDARY_URL"`
	ADPRefreshInterval string `mapstructure:"ADP_REFRESH_INTERVAL"`
	ADPRateLimit       int    `mapstructure:"ADP_RATE_LIMIT"` // requests per minute per source
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "file:draftsim.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("JWT_SECRET", "your-secret-key")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DEFAULT_TEAM_COUNT", 12)
	viper.SetDefault("DEFAULT_ROUND_COUNT", 15)
	viper.SetDefault("DEFAULT_DRAFT_TYPE", "snake")
	viper.SetDefault("PREDICTION_SEED", 0) // 0 = time-based seed
	viper.SetDefault("PROFILE_CACHE_TTL", 3600)
	viper.SetDefault("POOL_CACHE_TTL", 1800)
	viper.SetDefault("ADP_PRIMARY_URL", "")
	viper.SetDefault("ADP_SECONDARY_URL", "")
	viper.SetDefault("ADP_REFRESH_INTERVAL", "6h")
	viper.SetDefault("ADP_RATE_LIMIT", 10)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
