package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sentry-worker.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"SENTRY_DSN", "SENTRY_RELEASE", "SENTRY_DIST", "SENTRY_ENVIRONMENT", "SENTRY_SERVER_NAME"} {
		t.Setenv(key, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
dsn = "https://key@o1.ingest.example.com/7"
release = "v1.0.0"
dist = "3"
environment = "staging"
server_name = "worker-a"

[tags]
region = "eu"
queue = "jobs"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		DSN:         "https://key@o1.ingest.example.com/7",
		Release:     "v1.0.0",
		Dist:        "3",
		Environment: "staging",
		ServerName:  "worker-a",
		Tags:        map[string]string{"region": "eu", "queue": "jobs"},
	}, cfg)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
dsn = "https://key@o1.ingest.example.com/7"
release = "v1.0.0"
server_name = "worker-a"
`)
	t.Setenv("SENTRY_DSN", "https://other@o2.ingest.example.com/8")
	t.Setenv("SENTRY_ENVIRONMENT", "production")
	t.Setenv("SENTRY_SERVER_NAME", "worker-b")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://other@o2.ingest.example.com/8", cfg.DSN)
	assert.Equal(t, "v1.0.0", cfg.Release)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "worker-b", cfg.ServerName)
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENTRY_RELEASE", "v2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Config{Release: "v2"}, cfg)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `dsn = `))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `dns = "typo"`))
	assert.ErrorContains(t, err, `unknown config key "dns"`)
}
