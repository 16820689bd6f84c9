package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen = "0.0.0.0:8080"

[pterodactyl]
domain = "https://panel.example.com"
client_key = "ptlc_secret"

[relay]
session_timeout = "8s"
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", c.Listen)
	assert.Equal(t, "https://panel.example.com", c.Pterodactyl.Domain)
	assert.Equal(t, 8*time.Second, c.Relay.SessionTimeout)
	// Defaults survive a partial file.
	assert.Equal(t, 5*time.Second, c.Relay.CommandWait)
	assert.Equal(t, "file:prism.db", c.Database.DSN)
}

func TestLoadRequiresPanelSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prism.toml")
	require.NoError(t, os.WriteFile(path, []byte(`listen = ":1"`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pterodactyl.domain")
}
