// Package config centralises configuration parsing for wen-goat.
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
)

// Config captures runtime configuration values.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Cache      CacheConfig      `yaml:"cache"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Log        LogConfig        `yaml:"log"`
	Projection ProjectionConfig `yaml:"projection"`
	CORS       CORSConfig       `yaml:"cors"`
}

// HTTPConfig tunes the API server.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// UpstreamConfig points at the callsign and activation log services.
type UpstreamConfig struct {
	ActivatorsBaseURL string        `yaml:"activators_base_url"`
	SOTAAPIBaseURL    string        `yaml:"sota_api_base_url"`
	Timeout           time.Duration `yaml:"timeout"`
}

// CacheConfig selects the memoisation backend. An empty Redis address keeps lookups in memory.
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig describes an optional shared Redis cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// KafkaConfig enables evaluation events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers        []string      `yaml:"brokers"`
	Topic          string        `yaml:"topic"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// LogConfig tunes zap.
type LogConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

// ProjectionConfig holds scenario defaults.
type ProjectionConfig struct {
	DefaultWeeklyRate float64 `yaml:"default_weekly_rate"`
}

// CORSConfig controls the browser origin allowed to call the API.
type CORSConfig struct {
	AllowedOrigin string `yaml:"allowed_origin"`
}

// Default returns the built-in configuration used for local dev.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Upstream: UpstreamConfig{
			ActivatorsBaseURL: "https://sotl.as",
			SOTAAPIBaseURL:    "https://api-db.sota.org.uk",
			Timeout:           10 * time.Second,
		},
		Cache: CacheConfig{
			Redis: RedisConfig{Prefix: "wengoat:"},
		},
		Kafka: KafkaConfig{
			Topic:          "projection_events",
			PublishTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Projection: ProjectionConfig{
			DefaultWeeklyRate: 5,
		},
		CORS: CORSConfig{AllowedOrigin: "http://localhost:5173"},
	}
}

// Load layers defaults, the YAML file named by WENGOAT_CONFIG (if any) and environment variables.
// A .env file in the working directory is read first; it never overrides variables already set.
func Load() (Config, error) {
	if err := godotenv.Load(getEnv("WENGOAT_ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read env file: %w", err)
	}

	cfg := Default()

	if path := getEnv("WENGOAT_CONFIG", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if cfg.Projection.DefaultWeeklyRate < 0 {
		return Config{}, fmt.Errorf("projection.default_weekly_rate must be >= 0, got %v", cfg.Projection.DefaultWeeklyRate)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.HTTP.Address = getEnv("HTTP_ADDRESS", cfg.HTTP.Address)
	cfg.HTTP.ReadTimeout = getDurationEnv("HTTP_READ_TIMEOUT", cfg.HTTP.ReadTimeout)
	cfg.HTTP.WriteTimeout = getDurationEnv("HTTP_WRITE_TIMEOUT", cfg.HTTP.WriteTimeout)
	cfg.HTTP.IdleTimeout = getDurationEnv("HTTP_IDLE_TIMEOUT", cfg.HTTP.IdleTimeout)

	cfg.Upstream.ActivatorsBaseURL = getEnv("SOTLAS_BASE_URL", cfg.Upstream.ActivatorsBaseURL)
	cfg.Upstream.SOTAAPIBaseURL = getEnv("SOTA_API_BASE_URL", cfg.Upstream.SOTAAPIBaseURL)
	cfg.Upstream.Timeout = getDurationEnv("UPSTREAM_TIMEOUT", cfg.Upstream.Timeout)

	cfg.Cache.Redis.Addr = getEnv("REDIS_ADDR", cfg.Cache.Redis.Addr)
	cfg.Cache.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Cache.Redis.Password)
	cfg.Cache.Redis.DB = getIntEnv("REDIS_DB", cfg.Cache.Redis.DB)
	cfg.Cache.Redis.Prefix = getEnv("REDIS_PREFIX", cfg.Cache.Redis.Prefix)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = splitAndTrim(brokers)
	}
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.PublishTimeout = getDurationEnv("KAFKA_PUBLISH_TIMEOUT", cfg.Kafka.PublishTimeout)

	cfg.Log.Development = getBoolEnv("LOG_DEVELOPMENT", cfg.Log.Development)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	cfg.Projection.DefaultWeeklyRate = getFloatEnv("DEFAULT_WEEKLY_RATE", cfg.Projection.DefaultWeeklyRate)
	cfg.CORS.AllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", cfg.CORS.AllowedOrigin)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
