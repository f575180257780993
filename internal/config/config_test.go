package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("ACTIVITY_CONFIG_PATH", "")
	t.Setenv("ACTIVITY_TIMEZONE", "")
	t.Setenv("ACTIVITY_WORK_WINDOW", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Africa/Lagos", cfg.Slot.Timezone)
	assert.Equal(t, slot.DefaultWindow, cfg.Slot.WorkWindow)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Contains(t, cfg.DatabaseURL(), "postgres://postgres:secret@")
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)
}

func TestLoad_FileOverlayThenEnv(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "activity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  cors_origins: ["https://portal.example.com"]
slot:
  timezone: Europe/London
  work_window: "09:00-18:00"
`), 0o600))
	t.Setenv("ACTIVITY_CONFIG_PATH", path)
	t.Setenv("ACTIVITY_TIMEZONE", "Africa/Lagos")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://portal.example.com"}, cfg.App.CORSOrigins)
	assert.Equal(t, slot.Window{Start: 18, End: 36}, cfg.Slot.WorkWindow)
	// env wins over the file
	assert.Equal(t, "Africa/Lagos", cfg.Slot.Timezone)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET_KEY": ""}},
		{"missing db password", map[string]string{"DB_PASSWORD": ""}},
		{"unknown timezone", map[string]string{"ACTIVITY_TIMEZONE": "Mars/Olympus"}},
		{"window off boundary", map[string]string{"ACTIVITY_WORK_WINDOW": "08:15-17:00"}},
		{"inverted window", map[string]string{"ACTIVITY_WORK_WINDOW": "17:00-08:00"}},
		{"bad port", map[string]string{"APP_PORT": "eighty"}},
		{"pool min above max", map[string]string{"DB_MAX_CONNS": "2", "DB_MIN_CONNS": "4"}},
		{"missing config file", map[string]string{"ACTIVITY_CONFIG_PATH": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
