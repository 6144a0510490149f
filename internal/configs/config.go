package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

type DBconfig struct {
	URL      string
	MaxConns int32
}

// RabbitMQConfig: пустой URL отключает публикацию событий о заявках
type RabbitMQConfig struct {
	URL string
}

type SessionConfig struct {
	Store           string
	IdleTTL         time.Duration
	JanitorInterval time.Duration
	SecureCookie    bool
}

type HTTPConfig struct {
	Port           string
	AllowedOrigins []string
}

// RateLimitConfig - N запросов за Interval
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

type InquiryConfig struct {
	RateLimit          RateLimitConfig
	PhoneDefaultRegion string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	HTTP         HTTPConfig
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	Session      SessionConfig
	Inquiry      InquiryConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из окружения; .env необязателен
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: .env file not found (path: %v), using process environment", envPath)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "rental-search-service")
	cfg.HTTP.Port = getEnvAsString("PORT", "8080")
	cfg.HTTP.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = int32(getEnvAsInt("DATABASE_MAX_CONNS", 10))

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.Session.Store = strings.ToLower(getEnvAsString("SESSION_STORE", SessionStoreMemory))
	if cfg.Session.Store != SessionStoreMemory && cfg.Session.Store != SessionStorePostgres {
		return nil, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStorePostgres, cfg.Session.Store)
	}
	cfg.Session.IdleTTL = getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute)
	cfg.Session.JanitorInterval = getEnvAsDuration("SESSION_JANITOR_INTERVAL", time.Minute)
	cfg.Session.SecureCookie = getEnvAsBool("SESSION_COOKIE_SECURE", false)

	rateLimit, err := ParseRateLimit(getEnvAsString("INQUIRY_RATE_LIMIT", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("INQUIRY_RATE_LIMIT: %w", err)
	}
	cfg.Inquiry.RateLimit = rateLimit
	cfg.Inquiry.PhoneDefaultRegion = strings.ToUpper(getEnvAsString("PHONE_DEFAULT_REGION", "IN"))

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

// ParseRateLimit разбирает строку вида "5/min". Пустая строка или "0" отключают лимит.
func ParseRateLimit(s string) (RateLimitConfig, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return RateLimitConfig{}, nil
	}

	countStr, unit, ok := strings.Cut(s, "/")
	if !ok {
		return RateLimitConfig{}, fmt.Errorf("expected format N/sec|min|hour, got %q", s)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil || count < 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count in %q", s)
	}

	var interval time.Duration
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "s", "sec", "second":
		interval = time.Second
	case "m", "min", "minute":
		interval = time.Minute
	case "h", "hour":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unknown rate limit unit in %q", s)
	}

	if count == 0 {
		return RateLimitConfig{}, nil
	}
	return RateLimitConfig{Requests: count, Interval: interval}, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt логирует предупреждение, если значение есть, но не парсится
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil || d <= 0 {
		log.Printf("Warning: Environment variable %s (value: %s) is not a positive duration. Using default value: %s\n", key, valStr, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList читает список через запятую, пустые элементы пропускаются
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
