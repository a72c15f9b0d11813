package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
[database]
driver = "memory"

[notifications]
console = true

[student_service]
url = "http://students.local"

[lesson_service]
url = "http://lessons.local"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.Interval())
	assert.Equal(t, 4, cfg.Scheduler.Workers)
	assert.Equal(t, 500, cfg.Scheduler.BatchSize)
	assert.Equal(t, uint64(3), cfg.Booking.MaxRetries)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 64, cfg.Events.Buffer)
	assert.Equal(t, 100, cfg.Events.RetryBaseMs)
	assert.Equal(t, uint64(3), cfg.Events.MaxRetries)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("SENDGRID_API_KEY", "sg-key")

	body := minimal + `
[server]
http_port = 8000

[notifications.sendgrid]
enabled = true
api_key = "from-file"
from_email = "noreply@school.ch"
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "sg-key", cfg.Notifications.SendGrid.APIKey)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")

	_, err := Load(writeConfig(t, minimal))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"postgres without host", func(c *Config) { c.Database.Driver = DriverPostgres }},
		{"twilio without credentials", func(c *Config) { c.Notifications.Twilio.Enabled = true }},
		{"telegram without token", func(c *Config) { c.Notifications.Telegram.Enabled = true }},
		{"no email channel", func(c *Config) { c.Notifications.Console = false }},
		{"no lesson service", func(c *Config) { c.LessonService.URL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, minimal))
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "credits", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=credits sslmode=disable", d.DSN())
}
