package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendXLSX, s.Store.Backend)
	assert.Equal(t, "Quadro_de_cargas.xlsx", s.Store.Path)
	assert.Equal(t, 8080, s.Server.Port)
	assert.True(t, s.Sizing.Strict)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Empty(t, s.Log.File)
	assert.Equal(t, 10, s.Log.MaxSize)
	assert.Equal(t, 3, s.Log.MaxBackups)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	content := `store:
  backend: sqlite
  sqlite_path: panels.db
log:
  level: debug
  format: json
server:
  port: 9090
sizing:
  strict: false
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	s, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, s.Store.Backend)
	assert.Equal(t, "panels.db", s.Store.SQLitePath)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
	assert.Equal(t, 9090, s.Server.Port)
	assert.False(t, s.Sizing.Strict)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOPANEL_STORE_PATH", "obra.xlsx")
	t.Setenv("GOPANEL_SERVER_PORT", "7000")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "obra.xlsx", s.Store.Path)
	assert.Equal(t, 7000, s.Server.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	s := &Settings{}
	s.Store.Backend = "csv"
	require.Error(t, s.Validate())

	s.Store.Backend = BackendXLSX
	s.Store.Path = ""
	require.Error(t, s.Validate())
}

func TestLoadLogFileFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOPANEL_LOG_FILE", "logs/gopanel.log")
	t.Setenv("GOPANEL_LOG_MAX_BACKUPS", "5")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "logs/gopanel.log", s.Log.File)
	assert.Equal(t, 5, s.Log.MaxBackups)
}
