package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Triage       TriageConfig
	Intake       IntakeConfig
	Notification NotificationConfig
	Seed         SeedConfig
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

// PostgresConfig holds DB connection values. An empty DSN switches the
// service onto the in-memory stores.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior. Encoding is "json" or "console".
type LoggerConfig struct {
	Level    string
	Encoding string
}

// TriageConfig governs the classification call and its policy gates.
type TriageConfig struct {
	ClassifierURL          string
	ClassifyTimeoutSeconds int
	AutoResolveThreshold   float64
}

// IntakeConfig tunes intake-side behavior.
type IntakeConfig struct {
	DedupTTLSeconds int
	SuggestionLimit int
}

// NotificationConfig holds outbound notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// SeedConfig controls the idempotent bootstrap run at startup.
type SeedConfig struct {
	Enabled       bool
	AdminEmail    string
	AdminName     string
	AdminPassword string
	BcryptCost    int
	SeedKB        bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	threshold := getEnvAsFloat("TRIAGE_AUTO_RESOLVE_THRESHOLD", 0.8)
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("TRIAGE_AUTO_RESOLVE_THRESHOLD must be in [0,1], got %v", threshold)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-intake"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Triage: TriageConfig{
			ClassifierURL:          getEnv("CLASSIFIER_URL", ""),
			ClassifyTimeoutSeconds: getEnvAsInt("CLASSIFY_TIMEOUT_SECONDS", 5),
			AutoResolveThreshold:   threshold,
		},
		Intake: IntakeConfig{
			DedupTTLSeconds: getEnvAsInt("INTAKE_DEDUP_TTL_SECONDS", 120),
			SuggestionLimit: getEnvAsInt("INTAKE_SUGGESTION_LIMIT", 3),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Seed: SeedConfig{
			Enabled:       getEnvAsBool("SEED_ENABLED", true),
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@helpdesk.local"),
			AdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
			BcryptCost:    getEnvAsInt("SEED_BCRYPT_COST", 12),
			SeedKB:        getEnvAsBool("SEED_KB_FIXTURES", true),
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

// ClassifyTimeout returns the bounded timeout for scoring-service calls.
func (t TriageConfig) ClassifyTimeout() time.Duration {
	if t.ClassifyTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(t.ClassifyTimeoutSeconds) * time.Second
}

// DedupTTL returns the lifetime of delivery-guard keys.
func (i IntakeConfig) DedupTTL() time.Duration {
	if i.DedupTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(i.DedupTTLSeconds) * time.Second
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

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
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
