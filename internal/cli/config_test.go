package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{
		URL:      "https://erp.example.com",
		Database: "production",
		Username: "integration",
		Password: "secret",
	}
	require.NoError(t, cfg.WriteConfig(path))

	require.NoError(t, LoadConfig(path))
	loaded := GetConfig()
	require.NotNil(t, loaded)
	assert.Equal(t, cfg.URL, loaded.URL)
	assert.Equal(t, cfg.Database, loaded.Database)
	assert.Equal(t, cfg.Username, loaded.Username)
	assert.Equal(t, cfg.Password, loaded.Password)
	assert.False(t, loaded.ConfirmWrites)
}

func TestLoadConfigMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{URL: "https://erp.example.com"}
	require.NoError(t, cfg.WriteConfig(path))

	err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfigBadURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{
		URL:      "not a url",
		Database: "db",
		Username: "u",
		Password: "p",
	}
	require.NoError(t, cfg.WriteConfig(path))
	assert.Error(t, LoadConfig(path))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ODOO_URL", "https://erp.example.com")
	t.Setenv("ODOO_DB", "production")
	t.Setenv("ODOO_USER", "integration")
	t.Setenv("ODOO_PASSWORD", "secret")

	require.NoError(t, LoadConfigFromEnv())
	loaded := GetConfig()
	require.NotNil(t, loaded)
	assert.Equal(t, "production", loaded.Database)
	assert.Equal(t, "integration", loaded.Username)
}

func TestRequiresConfig(t *testing.T) {
	root := rootCmd

	find := func(name string) *cobra.Command {
		t.Helper()
		for _, c := range root.Commands() {
			if c.Name() == name {
				return c
			}
		}
		t.Fatalf("command %s not registered", name)
		return nil
	}

	assert.False(t, requiresConfig(find("version")))
	assert.True(t, requiresConfig(find("search")))

	// doctest only needs a server when it actually runs blocks
	doctest := find("doctest")
	require.NoError(t, doctest.Flags().Set("list", "true"))
	assert.False(t, requiresConfig(doctest))
	require.NoError(t, doctest.Flags().Set("list", "false"))
	assert.True(t, requiresConfig(doctest))
}

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// missing file is a zero state, not an error
	state, err := LoadSession()
	require.NoError(t, err)
	assert.Zero(t, state.UID)

	require.NoError(t, SaveSession(SessionState{
		UID:      7,
		Database: "production",
		Username: "integration",
		URL:      "https://erp.example.com",
	}))

	state, err = LoadSession()
	require.NoError(t, err)
	assert.Equal(t, int64(7), state.UID)
	assert.Equal(t, "production", state.Database)
	assert.Equal(t, "integration", state.Username)
	assert.NotEmpty(t, state.LoginAt)

	require.NoError(t, ClearSession())
	state, err = LoadSession()
	require.NoError(t, err)
	assert.Zero(t, state.UID)
}
