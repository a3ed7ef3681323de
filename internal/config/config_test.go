package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 2, cfg.Policy.LockDate)
	assert.Equal(t, 10, cfg.Policy.LimitHour)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Policy.Timezone)
	assert.Equal(t, ApprovalTransactional, cfg.Policy.ApprovalMode)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 5*time.Minute, cfg.JWT.SSEExpiration)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location().String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APPROVAL_MODE", ApprovalSequential)
	t.Setenv("POLICY_LIMIT_HOUR", "9")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.vn, https://b.vn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ApprovalSequential, cfg.Policy.ApprovalMode)
	assert.Equal(t, 9, cfg.Policy.LimitHour)
	assert.Equal(t, []string{"https://a.vn", "https://b.vn"}, cfg.App.CORSOrigins)
	assert.Equal(t, "postgres://postgres:pw@db:5432/chamcong?sslmode=disable", cfg.DatabaseURL())
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("APP_PORT", "eighty")

	_, err := Load()
	assert.ErrorContains(t, err, "APP_PORT")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: DriverMemory},
			JWT:      JWTConfig{Secret: "s"},
			Policy:   PolicyConfig{LockDate: 2, LimitHour: 10, Timezone: "UTC", ApprovalMode: ApprovalTransactional},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DB_DRIVER"},
		{"postgres without password", func(c *Config) { c.Database.Driver = DriverPostgres }, "DB_PASSWORD"},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET_KEY"},
		{"lock date", func(c *Config) { c.Policy.LockDate = 32 }, "POLICY_LOCK_DATE"},
		{"limit hour", func(c *Config) { c.Policy.LimitHour = 24 }, "POLICY_LIMIT_HOUR"},
		{"timezone", func(c *Config) { c.Policy.Timezone = "Mars/Base" }, "POLICY_TIMEZONE"},
		{"approval mode", func(c *Config) { c.Policy.ApprovalMode = "eventual" }, "APPROVAL_MODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
