package dsn

import (
	"bytes"
	"testing"

	"github.com/sthembisoo/sentry-worker/utils/sentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDSN(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCmdDSN()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDSN(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	out, err := runDSN(t, "https://123@456.ingest.example.com/789")
	require.NoError(t, err)
	assert.Equal(t, `Host:       456.ingest.example.com
Project:    789
Public key: 123
Store URL:  https://456.ingest.example.com/api/789/store/
`, out)
}

func TestDSNFromEnv(t *testing.T) {
	t.Setenv("SENTRY_DSN", "https://abc@o1.ingest.example.com/5")

	out, err := runDSN(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Store URL:  https://o1.ingest.example.com/api/5/store/")
}

func TestDSNErrors(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	_, err := runDSN(t)
	assert.ErrorContains(t, err, "dsn required")

	_, err = runDSN(t, "https://host/1")
	assert.ErrorIs(t, err, sentry.ErrInvalidDSN)
}
