package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "jwt:\n  secret: s3cret\n"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "./data/addoc.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "123456", cfg.Admin.InitialPassword)
	assert.Equal(t, "./backups", cfg.Backup.Path)
	assert.Equal(t, cfg.Backup.Path, cfg.Backup.TempDir)
	assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:5173")
	assert.True(t, cfg.File.IsImageType(".PNG"))
	assert.False(t, cfg.File.IsImageType("exe"))
}

func TestLoadFileEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
jwt:
  secret: from-file
  expire_minutes: 5
activity:
  timezone: UTC
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("ACTIVITY_TIMEZONE", "UTC")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadFileValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadFile(writeConfig(t, "server:\n  port: 8000\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = LoadFile(writeConfig(t, "jwt:\n  secret: x\ndatabase:\n  driver: oracle\n"))
	assert.ErrorContains(t, err, "oracle")

	_, err = LoadFile(writeConfig(t, "jwt:\n  secret: x\nactivity:\n  timezone: Mars/Olympus\n"))
	assert.ErrorContains(t, err, "activity.timezone")

	_, err = LoadFile(writeConfig(t, "jwt: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFileMissingUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-only")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.JWT.Secret)
}
