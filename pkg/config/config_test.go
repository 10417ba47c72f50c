package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Geo.Timeout)
	assert.Equal(t, 1000, cfg.History.BufferSize)
	assert.True(t, cfg.History.AsyncTracking)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  port: 9090
database:
  driver: sqlite
  sqlite_path: /tmp/history.db
geo:
  timeout: 500ms
history:
  retention_days: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("PDFOPS_SERVER__PORT", "7070")
	t.Setenv("PDFOPS_HISTORY__ASYNC_TRACKING", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/history.db", cfg.Database.SQLitePath)
	assert.Equal(t, 500*time.Millisecond, cfg.Geo.Timeout)
	assert.Equal(t, 30, cfg.History.RetentionDays)
	assert.False(t, cfg.History.AsyncTracking)
	// 未指定の値はデフォルトのまま
	assert.Equal(t, "http://ip-api.com", cfg.Geo.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Driver = "sqlite"; c.Database.SQLitePath = "" }, wantErr: true},
		{name: "zero buffer", mutate: func(c *Config) { c.History.BufferSize = 0 }, wantErr: true},
		{name: "negative retention", mutate: func(c *Config) { c.History.RetentionDays = -1 }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "history.buffer_size", envKey("PDFOPS_HISTORY__BUFFER_SIZE"))
	assert.Equal(t, "server.port", envKey("PDFOPS_SERVER__PORT"))
}
