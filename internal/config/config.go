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
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ApprovalTransactional = "transactional"
	ApprovalSequential    = "sequential"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   PolicyConfig
	Backup   BackupConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
	SSEExpiration    time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	LogFile     string
	CORSOrigins []string
}

// PolicyConfig seeds the lock settings on first start and tunes the approval workflow
type PolicyConfig struct {
	LockDate          int
	LimitHour         int
	Timezone          string
	ApprovalMode      string
	ReconcileInterval time.Duration
}

type BackupConfig struct {
	Dir string
	// Interval schedules automatic snapshots. Zero disables them.
	Interval time.Duration
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	config.Database = DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", DriverPostgres),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "chamcong"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
	}

	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	accessExp, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	sseExp, err := getEnvDuration("JWT_SSE_EXPIRATION_TIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExp,
		SSEExpiration:    sseExp,
	}

	lockDate, err := getEnvInt("POLICY_LOCK_DATE", 2)
	if err != nil {
		return nil, err
	}
	limitHour, err := getEnvInt("POLICY_LIMIT_HOUR", 10)
	if err != nil {
		return nil, err
	}
	reconcile, err := getEnvDuration("RECONCILE_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	config.Policy = PolicyConfig{
		LockDate:          lockDate,
		LimitHour:         limitHour,
		Timezone:          getEnv("POLICY_TIMEZONE", "Asia/Ho_Chi_Minh"),
		ApprovalMode:      getEnv("APPROVAL_MODE", ApprovalTransactional),
		ReconcileInterval: reconcile,
	}

	backupInterval, err := getEnvDuration("BACKUP_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	config.Backup = BackupConfig{
		Dir:      getEnv("BACKUP_DIR", "backups"),
		Interval: backupInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Policy.LockDate < 1 || c.Policy.LockDate > 31 {
		return fmt.Errorf("POLICY_LOCK_DATE must be between 1 and 31")
	}
	if c.Policy.LimitHour < 0 || c.Policy.LimitHour > 23 {
		return fmt.Errorf("POLICY_LIMIT_HOUR must be between 0 and 23")
	}
	if _, err := time.LoadLocation(c.Policy.Timezone); err != nil {
		return fmt.Errorf("invalid POLICY_TIMEZONE: %w", err)
	}
	if c.Policy.ApprovalMode != ApprovalTransactional && c.Policy.ApprovalMode != ApprovalSequential {
		return fmt.Errorf("APPROVAL_MODE must be %q or %q", ApprovalTransactional, ApprovalSequential)
	}
	return nil
}

// Location returns the policy timezone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Policy.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
