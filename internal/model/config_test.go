package model

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.Server.BaseURL)
	assert.Equal(t, "/ws", cfg.Server.WebSocketPath)
	assert.Equal(t, 2, cfg.Display.StatusPollIntervalSec)
}

func TestSaveAndLoadConfigRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &AppConfig{
		Server: ServerConfig{
			BaseURL:       "https://taskflow.example.com/api",
			WebSocketPath: "/push",
		},
		Display: DisplayConfig{
			StatusPollIntervalSec: 7,
		},
	}
	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStatusPollInterval(t *testing.T) {
	assert.Equal(t, 7*time.Second, DisplayConfig{StatusPollIntervalSec: 7}.StatusPollInterval())
	assert.Equal(t, 2*time.Second, DisplayConfig{}.StatusPollInterval())
	assert.Equal(t, 2*time.Second, DisplayConfig{StatusPollIntervalSec: -1}.StatusPollInterval())
}

func TestWebSocketURL(t *testing.T) {
	cases := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:8080/api", "/ws", "ws://localhost:8080/api/ws"},
		{"https://taskflow.example.com/api/", "/ws", "wss://taskflow.example.com/api/ws"},
	}
	for _, tc := range cases {
		s := ServerConfig{BaseURL: tc.base, WebSocketPath: tc.path}
		assert.Equal(t, tc.want, s.WebSocketURL())
	}
}
