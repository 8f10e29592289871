package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
port = 9609
mode = "debug"

[postgres]
host = "127.0.0.1"
port = "5432"
user = "messenger"
password = "secret"
dbname = "messenger"
max_idle_conns = 5
max_open_conns = 50

[redis]
host = "127.0.0.1"
port = 6379
db = 3

[kafka]
brokers = ["127.0.0.1:9092"]
topic = "messenger.events"

[identity]
base_url = "http://localhost:9507"
timeout_ms = 1500
cache_ttl_sec = 120

[jwt]
secret = "test-secret"

[logging]
level = "debug"
format = "console"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9609, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "messenger", cfg.Postgres.DBName)
	assert.Equal(t, []string{"127.0.0.1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "messenger.events", cfg.Kafka.Topic)
	assert.Equal(t, "http://localhost:9507", cfg.Identity.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Identity.Timeout())
	assert.Equal(t, 2*time.Minute, cfg.Identity.CacheTTL())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[postgres]\nhost = \"db\"\n"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 3*time.Second, cfg.Identity.Timeout())
	assert.Equal(t, 5*time.Minute, cfg.Identity.CacheTTL())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
