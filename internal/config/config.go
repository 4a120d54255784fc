package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service. It is built once at
// startup and handed to components at construction; nothing reads the
// environment after Load returns.
type Config struct {
	App      AppConfig
	Directus DirectusConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Throttle ThrottleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DirectusConfig holds the upstream backend connection values. AdminToken is a
// static token for a backend account allowed to read users/roles and write the
// profile collection; every upstream call except the credential exchange itself
// is authenticated with it.
type DirectusConfig struct {
	BaseURL        string
	AdminToken     string
	StudentRoleID  string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token parameters. The three TTLs cover the three
// issuance paths: plain login, login with remember-me, and registration.
type AuthConfig struct {
	JWTSecret        string
	SessionTTLHours  int
	RememberTTLHours int
	RegisterTTLHours int
}

// ThrottleConfig bounds repeated login failures per email and client address.
type ThrottleConfig struct {
	Enabled       bool
	MaxFailures   int
	WindowMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "engage-auth"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Directus: DirectusConfig{
			BaseURL:        getEnv("DIRECTUS_BASE_URL", "http://127.0.0.1:8055"),
			AdminToken:     os.Getenv("DIRECTUS_ADMIN_TOKEN"),
			StudentRoleID:  os.Getenv("DIRECTUS_STUDENT_ROLE_ID"),
			TimeoutSeconds: getEnvAsInt("DIRECTUS_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTTLHours:  getEnvAsInt("AUTH_SESSION_TTL_HOURS", 24),
			RememberTTLHours: getEnvAsInt("AUTH_REMEMBER_TTL_HOURS", 720),
			RegisterTTLHours: getEnvAsInt("AUTH_REGISTER_TTL_HOURS", 168),
		},
		Throttle: ThrottleConfig{
			Enabled:       getEnvAsBool("LOGIN_THROTTLE_ENABLED", true),
			MaxFailures:   getEnvAsInt("LOGIN_THROTTLE_MAX_FAILURES", 5),
			WindowMinutes: getEnvAsInt("LOGIN_THROTTLE_WINDOW_MINUTES", 15),
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

// Timeout returns the upstream HTTP client timeout.
func (d DirectusConfig) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Window returns the throttle window duration.
func (t ThrottleConfig) Window() time.Duration {
	if t.WindowMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(t.WindowMinutes) * time.Minute
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
