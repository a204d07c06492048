package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/api"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/mcp"
)

func TestServeCmd_Flags(t *testing.T) {
	for _, name := range []string{"addr", "rps", "burst"} {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "127.0.0.1:8080", serveCmd.Flags().Lookup("addr").DefValue)
}

func TestServe_RequiresServices(t *testing.T) {
	setupTestServices(t)
	Configure(Config{})

	_, err := execute(t, "serve")

	assert.ErrorIs(t, err, api.ErrMissingLocateService)
}

func TestServe_SettingsError(t *testing.T) {
	svc := setupTestServices(t)
	svc.settings.err = errors.New("unreadable")

	_, err := execute(t, "serve")

	assert.EqualError(t, err, "failed to get settings: unreadable")
}

func TestMCPServeCmd_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServe_RequiresServices(t *testing.T) {
	setupTestServices(t)
	Configure(Config{})

	_, err := execute(t, "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingLocateService)
}

func TestStoredLocateSettings(t *testing.T) {
	svc := setupTestServices(t)
	svc.settings.settings.Locate.Window = 9

	got, err := storedLocateSettings()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9.0, got.Window)

	Configure(Config{})
	got, err = storedLocateSettings()
	require.NoError(t, err)
	assert.Nil(t, got)
}
