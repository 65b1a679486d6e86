package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends.
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	API     APIConfig
	Session SessionConfig
	Routes  RoutesConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	MetricsEnabled        bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// APIConfig points at the remote GymFlow REST API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig controls browser sessions and their persisted credentials.
type SessionConfig struct {
	CookieName   string
	CookieSecure bool
	Storage      string
	KeyPrefix    string
	TTLHours     int
	IdleMinutes  int
	SweepSeconds int
}

// RoutesConfig names the routes the guards redirect to.
type RoutesConfig struct {
	Login        string
	AdminLanding string
	UserLanding  string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	storage := strings.ToLower(getEnv("SESSION_STORAGE", StorageRedis))
	if storage != StorageRedis && storage != StorageMemory {
		return nil, fmt.Errorf("invalid SESSION_STORAGE %q", storage)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "gymflow-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			MetricsEnabled:        getEnvAsBool("METRICS_ENABLED", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:5000/api"), "/"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "gymflow_sid"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			Storage:      storage,
			KeyPrefix:    getEnv("SESSION_KEY_PREFIX", "gymflow:portal"),
			TTLHours:     getEnvAsInt("SESSION_TTL_HOURS", 24*7),
			IdleMinutes:  getEnvAsInt("SESSION_IDLE_MINUTES", 30),
			SweepSeconds: getEnvAsInt("SESSION_SWEEP_SECONDS", 60),
		},
		Routes: RoutesConfig{
			Login:        getEnv("ROUTE_LOGIN", "/login"),
			AdminLanding: getEnv("ROUTE_ADMIN_LANDING", "/admin/dashboard"),
			UserLanding:  getEnv("ROUTE_USER_LANDING", "/dashboard"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call API timeout, zero meaning none.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// TTL bounds how long persisted credentials live in storage.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 0
	}
	return time.Duration(s.TTLHours) * time.Hour
}

// IdleTimeout is how long an untouched in-memory session survives the sweeper.
func (s SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleMinutes) * time.Minute
}

// SweepInterval is the sweeper tick.
func (s SessionConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
