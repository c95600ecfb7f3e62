package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "uml-project-data", cfg.Storage.Key)
}

func TestLoad_YAML(t *testing.T) {
	p := write(t, "umlweb.yaml", `
storage:
  driver: redis
  redis_addr: cache:6379
  redis_db: 2
http:
  addr: ":9000"
  cors_origins: ["https://app.example"]
log:
  level: debug
  pretty: true
`)
	cfg, err := Load(p, envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.Equal(t, "umlweb:", cfg.Storage.RedisPrefix, "untouched keys keep defaults")
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://app.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_TOML(t *testing.T) {
	p := write(t, "umlweb.toml", `
[storage]
driver = "sqlite"
sqlite_path = "/var/lib/umlweb.db"
`)
	cfg, err := Load(p, envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/umlweb.db", cfg.Storage.SQLitePath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := write(t, "umlweb.yaml", "storage:\n  driver: redis\n  redis_db: 2\n")
	cfg, err := Load(p, envOf(map[string]string{
		"UMLWEB_STORAGE_DRIVER":    "memory",
		"UMLWEB_REDIS_DB":          "5",
		"UMLWEB_LOG_PRETTY":        "true",
		"UMLWEB_HTTP_CORS_ORIGINS": "https://a.example,https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Storage.RedisDB)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		env  map[string]string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }, nil},
		{"unknown extension", func(t *testing.T) string { return write(t, "umlweb.json", "{}") }, nil},
		{"broken yaml", func(t *testing.T) string { return write(t, "umlweb.yaml", "storage: [") }, nil},
		{"unknown key", func(t *testing.T) string { return write(t, "umlweb.yaml", "storage:\n  colour: red\n") }, nil},
		{"unknown driver", func(*testing.T) string { return "" }, map[string]string{"UMLWEB_STORAGE_DRIVER": "tape"}},
		{"postgres without dsn", func(*testing.T) string { return "" }, map[string]string{"UMLWEB_STORAGE_DRIVER": "postgres"}},
		{"bad level", func(*testing.T) string { return "" }, map[string]string{"UMLWEB_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t), envOf(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Discover(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "umlweb.toml"), nil, 0644))
	assert.Equal(t, filepath.Join(dir, "umlweb.toml"), Discover(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "umlweb.yaml"), nil, 0644))
	assert.Equal(t, filepath.Join(dir, "umlweb.yaml"), Discover(dir))
}
