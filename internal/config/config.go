package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Настройки пула соединений БД
	DBMaxConns int `env:"DB_MAX_CONNS" envDefault:"10"`

	// Redis Config
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass     string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// OHGO (Ohio DOT) Config
	OHGOAPIKey   string `env:"OHGO_API_KEY"`
	OHGOBaseURL  string `env:"OHGO_BASE_URL" envDefault:"https://publicapi.ohgo.com/api/v1"`
	OHGOPageSize int    `env:"OHGO_PAGE_SIZE" envDefault:"100"`

	// DriveTexas Config
	DriveTexasAPIKey  string `env:"DRIVETEXAS_API_KEY"`
	DriveTexasBaseURL string `env:"DRIVETEXAS_BASE_URL" envDefault:"https://api.drivetexas.org/api/conditions.geojson"`

	// Ingest Config
	OHGOIngestInterval       time.Duration `env:"OHGO_INGEST_INTERVAL" envDefault:"1m"`
	DriveTexasIngestInterval time.Duration `env:"DRIVETEXAS_INGEST_INTERVAL" envDefault:"2m"`
	FetchTimeout             time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	FetchMaxRetries          int           `env:"FETCH_MAX_RETRIES" envDefault:"3"`
	FetchRetryBaseDelay      time.Duration `env:"FETCH_RETRY_BASE_DELAY" envDefault:"500ms"`
	IngestCycleTimeout       time.Duration `env:"INGEST_CYCLE_TIMEOUT" envDefault:"2m"`
	WriteConflictRetries     int           `env:"WRITE_CONFLICT_RETRIES" envDefault:"2"`

	// Cache Config
	ActiveCountCacheTTL time.Duration `env:"ACTIVE_COUNT_CACHE_TTL" envDefault:"30s"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		DBMaxConns:               getEnvAsInt("DB_MAX_CONNS", 10),
		RedisAddr:                getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:                os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  getEnvAsInt("REDIS_DB", 0),
		RedisPoolSize:            getEnvAsInt("REDIS_POOL_SIZE", 10),
		OHGOAPIKey:               os.Getenv("OHGO_API_KEY"),
		OHGOBaseURL:              getEnv("OHGO_BASE_URL", "https://publicapi.ohgo.com/api/v1"),
		OHGOPageSize:             getEnvAsInt("OHGO_PAGE_SIZE", 100),
		DriveTexasAPIKey:         os.Getenv("DRIVETEXAS_API_KEY"),
		DriveTexasBaseURL:        getEnv("DRIVETEXAS_BASE_URL", "https://api.drivetexas.org/api/conditions.geojson"),
		OHGOIngestInterval:       getEnvAsDuration("OHGO_INGEST_INTERVAL", time.Minute),
		DriveTexasIngestInterval: getEnvAsDuration("DRIVETEXAS_INGEST_INTERVAL", 2*time.Minute),
		FetchTimeout:             getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchMaxRetries:          getEnvAsInt("FETCH_MAX_RETRIES", 3),
		FetchRetryBaseDelay:      getEnvAsDuration("FETCH_RETRY_BASE_DELAY", 500*time.Millisecond),
		IngestCycleTimeout:       getEnvAsDuration("INGEST_CYCLE_TIMEOUT", 2*time.Minute),
		WriteConflictRetries:     getEnvAsInt("WRITE_CONFLICT_RETRIES", 2),
		ActiveCountCacheTTL:      getEnvAsDuration("ACTIVE_COUNT_CACHE_TTL", 30*time.Second),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
