package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsoleOnly(t *testing.T) {
	session, err := New(false)
	require.NoError(t, err)
	defer session.Close()

	assert.NotNil(t, session.Logger)
	assert.NotEmpty(t, session.ID)
	assert.Empty(t, session.Path, "no log file without debug mode")
}

func TestNewDebugWritesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	session, err := New(true)
	require.NoError(t, err)
	defer session.Close()

	require.NotEmpty(t, session.Path)
	assert.True(t, strings.Contains(session.Path, filepath.Join(".browserpilot", "logs")))
	assert.Contains(t, filepath.Base(session.Path), session.ID[:8])

	session.Logger.Debug("probe record")
	session.Close()

	data, err := os.ReadFile(session.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "probe record")
	assert.Contains(t, string(data), session.ID)
}

func TestNewDistinctSessionIDs(t *testing.T) {
	a, err := New(false)
	require.NoError(t, err)
	defer a.Close()
	b, err := New(false)
	require.NoError(t, err)
	defer b.Close()

	assert.NotEqual(t, a.ID, b.ID)
}
