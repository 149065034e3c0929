package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultServerURL, cfg.Client.URL)
	assert.Equal(t, DefaultReconnectSeconds, cfg.Client.ReconnectSeconds)
	assert.Equal(t, 3*time.Second, cfg.Client.ReconnectDelay())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, DefaultServerURL, cfg.Client.URL)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
client:
  url: "ws://example.test:8080/ws"
  reconnect_seconds: 5
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "ws://example.test:8080/ws", cfg.Client.URL)
	assert.Equal(t, 5*time.Second, cfg.Client.ReconnectDelay())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server: [\n"},
		{"empty addr", "server:\n  addr: \"\"\n"},
		{"zero delay", "client:\n  reconnect_seconds: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskpilot.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
