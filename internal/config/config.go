package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
	JWT      JWTConfig
	PunchAPI PunchAPIConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// CacheTTLSeconds bounds staleness of read-through repository caches.
	CacheTTLSeconds int
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// PunchAPIConfig holds the time-clock provider API configuration.
type PunchAPIConfig struct {
	BaseURL  string
	Token    string
	PageSize int
	// MaxPages bounds the pagination loop regardless of what the provider
	// reports in its total-pages metadata.
	MaxPages int
}

// EngineConfig holds the reconciliation policy values. The late-start cutoff
// varies per deployment, so it is configuration rather than a constant.
type EngineConfig struct {
	ToleranceMinutes       int
	AlertThresholdMinutes  int
	ExpectedWeekdayMinutes int
	SaturdayMinutes        int
	ApprenticeMinutes      int
	LateStartCutoff        string // "HH:MM"
	EveningCutoff          string // "HH:MM"
	UTCOffsetHours         int    // fixed offset, no DST
	ExtraHolidays          []string

	IngestIntervalMinutes int
	ReconcileHour         int // local hour the daily reconciler is gated to
	WeeklySummaryWeekday  int // 0 = Sunday ... 6 = Saturday
	WeeklySummaryHour     int
}

func Load() (*Config, error) {
	// A missing .env file is fine in production; values come from the
	// environment there.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "pontocerto"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	redisPort, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Host:            getEnv("REDIS_HOST", "localhost"),
		Port:            redisPort,
		Password:        getEnv("REDIS_PASSWORD", ""),
		DB:              redisDB,
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 120),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.PunchAPI = PunchAPIConfig{
		BaseURL:  getEnv("PUNCH_API_BASE_URL", ""),
		Token:    getEnv("PUNCH_API_TOKEN", ""),
		PageSize: getEnvInt("PUNCH_API_PAGE_SIZE", 200),
		MaxPages: getEnvInt("PUNCH_API_MAX_PAGES", 100),
	}

	config.Engine = EngineConfig{
		ToleranceMinutes:       getEnvInt("TOLERANCE_MINUTES", 10),
		AlertThresholdMinutes:  getEnvInt("ALERT_THRESHOLD_MINUTES", 11),
		ExpectedWeekdayMinutes: getEnvInt("EXPECTED_WEEKDAY_MINUTES", 480),
		SaturdayMinutes:        getEnvInt("EXPECTED_SATURDAY_MINUTES", 240),
		ApprenticeMinutes:      getEnvInt("EXPECTED_APPRENTICE_MINUTES", 240),
		LateStartCutoff:        getEnv("LATE_START_CUTOFF", "10:00"),
		EveningCutoff:          getEnv("EVENING_CUTOFF", "17:00"),
		UTCOffsetHours:         getEnvInt("UTC_OFFSET_HOURS", -3),
		ExtraHolidays:          getEnvSlice("EXTRA_HOLIDAYS"),
		IngestIntervalMinutes:  getEnvInt("INGEST_INTERVAL_MINUTES", 5),
		ReconcileHour:          getEnvInt("RECONCILE_HOUR", 23),
		WeeklySummaryWeekday:   getEnvInt("WEEKLY_SUMMARY_WEEKDAY", 5),
		WeeklySummaryHour:      getEnvInt("WEEKLY_SUMMARY_HOUR", 18),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.PunchAPI.BaseURL == "" {
		return fmt.Errorf("PUNCH_API_BASE_URL is required")
	}
	if c.Engine.ToleranceMinutes < 0 || c.Engine.AlertThresholdMinutes < 0 {
		return fmt.Errorf("tolerance and alert threshold must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RedisAddr returns the Redis host:port address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
