package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	old := os.Args
	os.Args = []string{"server"}
	defer func() { os.Args = old }()

	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenValidityDuration)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	old := os.Args
	os.Args = []string{"server", "-a", ":9999", "-t", "5", "-m", "a@x.com,b@x.com"}
	defer func() { os.Args = old }()

	cfg := LoadConfig()

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.AdminEmails)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"endpoint_addr_http": ":7777",
		"database_dsn": "postgres://u:p@h:5432/db",
		"secret_key": "k",
		"access_token_validity_duration": "30m"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	old := os.Args
	os.Args = []string{"server", "-c", path}
	defer func() { os.Args = old }()

	cfg := LoadConfig()

	assert.Equal(t, ":7777", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@h:5432/db", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
}
