package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "workout_plans"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"

[production]
host = "0.0.0.0"
port = 9000
log_level = "debug"
logs_path = "/var/log/workout-plan-api.log"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "workout_plans"
redis_host = "redis"
redis_port = "6379"
prometheus_metrics_host = "0.0.0.0"
prometheus_metrics_port = "2112"
access_token_ttl_minutes = 15
refresh_token_ttl_hours = 72
login_rate_limit_allowed_per_min = 5
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "workout_plans", cfg.PostgresDBName)
	assert.True(t, cfg.LogToStdout)

	// defaults applied when not set
	assert.Equal(t, 30, cfg.AccessTokenTTLMinutes)
	assert.Equal(t, 24*7, cfg.RefreshTokenTTLHours)
	assert.Equal(t, 15, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 15, cfg.AccessTokenTTLMinutes)
	assert.Equal(t, 72, cfg.RefreshTokenTTLHours)
	assert.Equal(t, 5, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}
