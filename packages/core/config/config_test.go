package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/xhrmock/packages/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, 0, c.Timeout)
	assert.Equal(t, loop.DefaultMaxTasks, c.MaxTasks)
	assert.False(t, c.GetVerbose())
	assert.False(t, c.GetNoColor())
	assert.True(t, c.IsDefault())
}

func TestFindAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	data := `{"timeout": 250, "fixtures": ["routes.yaml", "/abs/more.yaml"], "envFiles": [".env"], "headers": {"X-App": "demo"}, "verbose": true}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xhrmockrc"), []byte(data), 0644))

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, c.TimeoutDuration())
	assert.Equal(t, []string{filepath.Join(dir, "routes.yaml"), "/abs/more.yaml"}, c.Fixtures)
	assert.Equal(t, []string{filepath.Join(dir, ".env")}, c.EnvFiles)
	assert.Equal(t, "demo", c.Headers["X-App"])
	assert.True(t, c.GetVerbose())
	assert.False(t, c.GetNoColor())
	assert.Equal(t, loop.DefaultMaxTasks, c.MaxTasks)
	assert.False(t, c.IsDefault())
}

func TestFindAndLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xhrmock.config.json"), []byte(`{"timeout": 2}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xhrmock.config.json"), []byte(`{"timeout": 1}`), 0644))

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Timeout)
}

func TestFindAndLoadConfigMissing(t *testing.T) {
	c, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, c.IsDefault())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"timeout": `), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	negative := filepath.Join(dir, "negative.json")
	require.NoError(t, os.WriteFile(negative, []byte(`{"timeout": -1}`), 0644))
	_, err = LoadConfig(negative)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := &Config{
		Timeout: 10,
		Headers: map[string]string{"A": "1", "B": "2"},
		Verbose: BoolPtr(true),
	}
	other := &Config{
		Timeout:  20,
		Fixtures: []string{"x.yaml"},
		Headers:  map[string]string{"B": "3"},
		NoColor:  BoolPtr(true),
	}

	merged := base.Merge(other)

	assert.Equal(t, 20, merged.Timeout)
	assert.Equal(t, []string{"x.yaml"}, merged.Fixtures)
	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, merged.Headers)
	assert.True(t, merged.GetVerbose())
	assert.True(t, merged.GetNoColor())

	// base is untouched
	assert.Equal(t, "2", base.Headers["B"])
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xhrmock.config.json")
	c := DefaultConfig()
	c.Timeout = 5
	require.NoError(t, c.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Timeout)
}
