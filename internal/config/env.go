package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceMySQL  = "mysql"
	DataSourceMemory = "memory"
)

type Env struct {
	AppAddr    string
	GinMode    string
	DataSource string
	MySQLDSN   string
	// Create missing tables at startup (MySQL only).
	DBEnsureSchema bool

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	ListCacheTTL     time.Duration
	ListCacheJanitor time.Duration
	MaxPageSize      int

	// Zero or negative disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// Empty means any origin.
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
	LogFile   string

	// Optional administrator account created at startup when both are set.
	AdminUser     string
	AdminPassword string
}

// LoadDotEnv reads .env into the process environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadEnv reads configuration from the environment, applying defaults for unset keys.
// Malformed values are reported together.
func LoadEnv() (Env, error) {
	var errs []error
	env := Env{
		AppAddr:            getString("APP_ADDR", ":8080"),
		GinMode:            getString("GIN_MODE", ""),
		DataSource:         strings.ToLower(getString("DATA_SOURCE", DataSourceMySQL)),
		MySQLDSN:           getString("MYSQL_DSN", "root:@tcp(127.0.0.1:3306)/boardgamelist?parseTime=true&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"),
		DBEnsureSchema:     getBool("DB_ENSURE_SCHEMA", true, &errs),
		JWTSecret:          getString("JWT_SECRET", ""),
		JWTIssuer:          getString("JWT_ISSUER", "boardgamelist"),
		JWTAudience:        getString("JWT_AUDIENCE", "boardgamelist"),
		JWTTTL:             getDuration("JWT_TTL", time.Hour, &errs),
		ListCacheTTL:       getDuration("LIST_CACHE_TTL", 30*time.Second, &errs),
		ListCacheJanitor:   getDuration("LIST_CACHE_JANITOR", time.Minute, &errs),
		MaxPageSize:        getInt("MAX_PAGE_SIZE", 100, &errs),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 20, &errs),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 40, &errs),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
		LogLevel:           getString("LOG_LEVEL", "info"),
		LogFormat:          getString("LOG_FORMAT", "json"),
		LogFile:            getString("LOG_FILE", ""),
		AdminUser:          getString("ADMIN_USER", ""),
		AdminPassword:      getString("ADMIN_PASSWORD", ""),
	}

	switch env.DataSource {
	case DataSourceMySQL, DataSourceMemory:
	default:
		errs = append(errs, fmt.Errorf("DATA_SOURCE: unsupported value %q", env.DataSource))
	}
	if env.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if env.MaxPageSize < 1 {
		errs = append(errs, fmt.Errorf("MAX_PAGE_SIZE: must be positive, got %d", env.MaxPageSize))
	}
	return env, errors.Join(errs...)
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func getInt(key string, def int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func getFloat(key string, def float64, errs *[]error) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func getBool(key string, def bool, errs *[]error) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
