package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port                string        `mapstructure:"PORT"`
	DBConn              string        `mapstructure:"DB_CONN"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	JWTSecret           string        `mapstructure:"JWT_SECRET"`
	JWTIssuer           string        `mapstructure:"JWT_ISSUER"`
	JWTAudience         string        `mapstructure:"JWT_AUDIENCE"`
	GeminiAPIKey        string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel         string        `mapstructure:"GEMINI_MODEL"`
	GeminiURL           string        `mapstructure:"GEMINI_URL"`
	InferenceTimeout    time.Duration `mapstructure:"INFERENCE_TIMEOUT"`
	RedisURL            string        `mapstructure:"REDIS_URL"`
	InferenceRateLimit  int           `mapstructure:"INFERENCE_RATE_LIMIT"`
	InferenceRateWindow time.Duration `mapstructure:"INFERENCE_RATE_WINDOW"`
}

var keys = []string{
	"PORT", "DB_CONN", "LOG_LEVEL", "JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_URL", "INFERENCE_TIMEOUT",
	"REDIS_URL", "INFERENCE_RATE_LIMIT", "INFERENCE_RATE_WINDOW",
}

// NewConfig loads configuration from an optional .env file in configPath and the environment
func NewConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_CONN", "host=localhost port=5432 user=test password=test dbname=debtwatch sslmode=disable")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("INFERENCE_TIMEOUT", "30s")
	v.SetDefault("INFERENCE_RATE_LIMIT", 20)
	v.SetDefault("INFERENCE_RATE_WINDOW", "1m")

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.InferenceTimeout <= 0 {
		return nil, fmt.Errorf("INFERENCE_TIMEOUT must be positive")
	}

	return cfg, nil
}
