package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmap-cli/internal/logger"
)

func TestRootCmd_Commands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"locate", "watch", "tui", "maps", "import", "settings", "serve", "mcp", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestStartRun_Verbose(t *testing.T) {
	prev := verbose
	t.Cleanup(func() {
		verbose = prev
		logger.SetVerbose(prev)
	})

	verbose = true
	require.NoError(t, startRun(nil, nil))
	assert.True(t, logger.IsVerbose())
}

func TestStartRun_UnknownProfile(t *testing.T) {
	prev := profileMode
	t.Cleanup(func() { profileMode = prev })

	profileMode = "gpu"

	assert.EqualError(t, startRun(nil, nil), `unknown profile mode "gpu" (want cpu or mem)`)
}

func TestStartRun_Profile(t *testing.T) {
	prev := profileMode
	t.Cleanup(func() { profileMode = prev })
	t.Chdir(t.TempDir())

	profileMode = "mem"
	require.NoError(t, startRun(nil, nil))
	assert.NotNil(t, profiler)

	require.NoError(t, stopRun(nil, nil))
	assert.Nil(t, profiler)
}

func TestSetVersion(t *testing.T) {
	prev := version
	t.Cleanup(func() { version = prev })

	SetVersion("")
	assert.Equal(t, prev, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
