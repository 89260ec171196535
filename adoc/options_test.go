package adoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, SafeModeUnsafe, o.SafeMode)
	assert.True(t, o.Setext)
	assert.Equal(t, uint(64), o.IncludeDepthLimit)
	assert.NotNil(t, o.Log)
	assert.NotNil(t, o.ReadFile)
}

func TestSilentDiscardsLogOutput(t *testing.T) {
	o := NewOptions().Silent()
	o.Log.Print("should not panic or be observable")
}

func TestLoadDefaultsParsesSafeModeAndAttributes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	content := "safe_mode: server\nattributes:\n  edition: second\n  revdate:\n    value: \"2024-01-01\"\n    hard: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	o := NewOptions()
	require.NoError(t, o.LoadDefaults(path))
	assert.Equal(t, SafeModeServer, o.SafeMode)

	edition, ok := o.DocumentAttributes["edition"]
	require.True(t, ok)
	assert.Equal(t, StringAttr("second"), edition.Value)
	assert.False(t, edition.Hard)

	revdate, ok := o.DocumentAttributes["revdate"]
	require.True(t, ok)
	assert.Equal(t, StringAttr("2024-01-01"), revdate.Value)
	assert.True(t, revdate.Hard)
}

func TestLoadDefaultsRejectsInvalidSafeMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("safe_mode: bogus\n"), 0o644))

	o := NewOptions()
	assert.Error(t, o.LoadDefaults(path))
}
