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
	path := filepath.Join(t.TempDir(), "ecoip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.True(t, cfg.Server.EnableRefresh)
	assert.Zero(t, cfg.Server.WriteTimeout)
	assert.Equal(t, 2, cfg.Lookup.Quorum)
	assert.Len(t, cfg.Lookup.Providers, 4)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, int64(12500), cfg.Page.Stats.AnimalsSaved)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  address: "127.0.0.1:9000"
lookup:
  quorum: 1
  timeout: 5s
  providers:
    - name: local
      type: http
      url: http://127.0.0.1:9999/ip
    - name: stun
      type: stun
      address: stun.example.net:3478
page:
  locale: zh-CN
  stats:
    animals_saved: 1
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 1, cfg.Lookup.Quorum)
	assert.Equal(t, 5*time.Second, cfg.Lookup.Timeout)
	require.Len(t, cfg.Lookup.Providers, 2)
	assert.Equal(t, "plain", cfg.Lookup.Providers[0].Format)
	assert.Equal(t, "zh-CN", cfg.Page.Locale)
	assert.Equal(t, int64(1), cfg.Page.Stats.AnimalsSaved)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ecoip/dev", cfg.Lookup.UserAgent)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  address: \":8081\"\n")
	t.Setenv("ECOIP_SERVER_ADDRESS", ":9090")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad provider type", "lookup:\n  providers:\n    - name: x\n      type: smoke\n"},
		{"http without url", "lookup:\n  providers:\n    - name: x\n      type: http\n"},
		{"duplicate names", "lookup:\n  providers:\n    - {name: x, type: http, url: 'http://a'}\n    - {name: x, type: http, url: 'http://b'}\n"},
		{"bad locale", "page:\n  locale: '!!'\n"},
		{"bad log level", "log:\n  level: chatty\n"},
		{"geoip without database", "geoip:\n  enabled: true\n"},
		{"cache without addr", "cache:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
