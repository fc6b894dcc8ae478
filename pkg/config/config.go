package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/internship-compliance-api/internal/engine"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the single process-wide configuration. The compliance thresholds
// live here exactly once and are passed explicitly into every engine call;
// there is no second copy to keep in sync.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Dashboard DashboardConfig
	Letters   LettersConfig
	Exports   ExportsConfig

	// Compliance holds the calculation engine thresholds, overridable per
	// environment and at runtime through the configuration API.
	Compliance engine.Config
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// LettersConfig controls joining-letter storage and validation.
type LettersConfig struct {
	StorageDir       string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// ExportsConfig configures asynchronous compliance export generation.
type ExportsConfig struct {
	Enabled           bool
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("DASHBOARD_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	maxLetterSize := v.GetInt64("LETTERS_MAX_FILE_SIZE")
	if maxLetterSize <= 0 {
		maxLetterSize = 5 * 1024 * 1024
	}
	cfg.Letters = LettersConfig{
		StorageDir:       v.GetString("LETTERS_STORAGE_DIR"),
		SignedURLSecret:  v.GetString("LETTERS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("LETTERS_SIGNED_URL_TTL"), 30*time.Minute),
		MaxFileSizeBytes: maxLetterSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("LETTERS_ALLOWED_MIME_TYPES")),
	}

	cfg.Exports = ExportsConfig{
		Enabled:           v.GetBool("ENABLE_EXPORTS"),
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
	}

	cfg.Compliance = engine.Config{
		MinDaysForInclusion:    v.GetInt("COMPLIANCE_MIN_DAYS_FOR_INCLUSION"),
		ReportDueDay:           v.GetInt("COMPLIANCE_REPORT_DUE_DAY"),
		VisitDueOnMonthEnd:     v.GetBool("COMPLIANCE_VISIT_DUE_ON_MONTH_END"),
		VisitDueDay:            v.GetInt("COMPLIANCE_VISIT_DUE_DAY"),
		MinInternshipWeeks:     v.GetInt("COMPLIANCE_MIN_INTERNSHIP_WEEKS"),
		MaxInternshipMonths:    v.GetInt("COMPLIANCE_MAX_INTERNSHIP_MONTHS"),
		MissingReportGraceDays: v.GetInt("COMPLIANCE_MISSING_REPORT_GRACE_DAYS"),
		ExcellentMin:           v.GetInt("COMPLIANCE_TIER_EXCELLENT_MIN"),
		GoodMin:                v.GetInt("COMPLIANCE_TIER_GOOD_MIN"),
		WarningMin:             v.GetInt("COMPLIANCE_TIER_WARNING_MIN"),
		CriticalMin:            v.GetInt("COMPLIANCE_TIER_CRITICAL_MIN"),
	}
	// Bad thresholds are rejected at load time, never clamped.
	if err := cfg.Compliance.Validate(); err != nil {
		return nil, fmt.Errorf("invalid compliance configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "internship_compliance")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DASHBOARD_CACHE_ENABLED", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("LETTERS_STORAGE_DIR", "./letters")
	v.SetDefault("LETTERS_SIGNED_URL_SECRET", "dev_letters_secret")
	v.SetDefault("LETTERS_SIGNED_URL_TTL", "30m")
	v.SetDefault("LETTERS_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("LETTERS_ALLOWED_MIME_TYPES", "application/pdf,image/jpeg,image/png")

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)

	def := engine.DefaultConfig()
	v.SetDefault("COMPLIANCE_MIN_DAYS_FOR_INCLUSION", def.MinDaysForInclusion)
	v.SetDefault("COMPLIANCE_REPORT_DUE_DAY", def.ReportDueDay)
	v.SetDefault("COMPLIANCE_VISIT_DUE_ON_MONTH_END", def.VisitDueOnMonthEnd)
	v.SetDefault("COMPLIANCE_VISIT_DUE_DAY", def.VisitDueDay)
	v.SetDefault("COMPLIANCE_MIN_INTERNSHIP_WEEKS", def.MinInternshipWeeks)
	v.SetDefault("COMPLIANCE_MAX_INTERNSHIP_MONTHS", def.MaxInternshipMonths)
	v.SetDefault("COMPLIANCE_MISSING_REPORT_GRACE_DAYS", def.MissingReportGraceDays)
	v.SetDefault("COMPLIANCE_TIER_EXCELLENT_MIN", def.ExcellentMin)
	v.SetDefault("COMPLIANCE_TIER_GOOD_MIN", def.GoodMin)
	v.SetDefault("COMPLIANCE_TIER_WARNING_MIN", def.WarningMin)
	v.SetDefault("COMPLIANCE_TIER_CRITICAL_MIN", def.CriticalMin)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
