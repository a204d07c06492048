package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_HomeEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(HomeEnv, tmpDir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("reference.catalog", "/data/maps.yaml"))
	require.NoError(t, store.Set("locate.threads", 4))
	require.NoError(t, store.Set("locate.threshold.identity", 97.5))
	require.NoError(t, store.Set("locate.show_unmapped", true))
	require.NoError(t, store.Set("locate.maps", []string{"barke", "morex"}))

	assert.Equal(t, "/data/maps.yaml", store.GetString("reference.catalog"))
	assert.Equal(t, 4, store.GetInt("locate.threads"))
	assert.Equal(t, 97.5, store.GetFloat("locate.threshold.identity"))
	assert.True(t, store.GetBool("locate.show_unmapped"))
	assert.Equal(t, []string{"barke", "morex"}, store.GetStringSlice("locate.maps"))
}

func TestConfigStore_MissingKeysReturnZeroValues(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
	assert.Zero(t, store.GetFloat("nope"))
	assert.False(t, store.GetBool("nope"))
	assert.Nil(t, store.GetStringSlice("nope"))
}

func TestConfigStore_WrongTypeReturnsZeroValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("locate.sort", "cm"))

	assert.Zero(t, store.GetInt("locate.sort"))
	assert.Zero(t, store.GetFloat("locate.sort"))
	assert.False(t, store.GetBool("locate.sort"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("locate.threshold.identity", 99.0))
	require.NoError(t, store.Set("locate.selection", "best_global"))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[locate]")
	assert.Contains(t, string(data), "[locate.threshold]")
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("locate.threshold.coverage", 90.0))
	require.NoError(t, first.Set("locate.threads", 8))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 90.0, second.GetFloat("locate.threshold.coverage"))
	assert.Equal(t, 8, second.GetInt("locate.threads"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[locate]
selection = "db"
window = 2

[locate.threshold]
identity = 98
coverage = 95.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "db", store.GetString("locate.selection"))
	assert.Equal(t, 2.0, store.GetFloat("locate.window"))
	assert.Equal(t, 98.0, store.GetFloat("locate.threshold.identity"))
	assert.Equal(t, 95.5, store.GetFloat("locate.threshold.coverage"))
}

func TestConfigStore_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0o600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("locate.window", 5.0))

	err = store.Set("locate.window.size", 2.0)

	assert.Error(t, err)
}

func TestFlattenAndNest(t *testing.T) {
	flat := map[string]any{}
	flatten(map[string]any{
		"server": map[string]any{"addr": ":8080"},
		"top":    true,
	}, "", flat)
	assert.Equal(t, map[string]any{"server.addr": ":8080", "top": true}, flat)

	tree, err := nest(flat)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"server": map[string]any{"addr": ":8080"}, "top": true}, tree)
}
