package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarsShadowProcessEnv(t *testing.T) {
	t.Setenv("XHRMOCK_TEST_TOKEN", "from-process")
	t.Setenv("XHRMOCK_TEST_REGION", "eu")

	v := NewVars()
	v.Set("XHRMOCK_TEST_TOKEN", "from-vars")

	got, ok := v.Lookup("XHRMOCK_TEST_TOKEN")
	assert.True(t, ok)
	assert.Equal(t, "from-vars", got)

	got, ok = v.Lookup("XHRMOCK_TEST_REGION")
	assert.True(t, ok)
	assert.Equal(t, "eu", got)

	_, ok = v.Lookup("XHRMOCK_TEST_UNSET")
	assert.False(t, ok)
}

func TestNilVarsReadsProcessEnv(t *testing.T) {
	t.Setenv("XHRMOCK_TEST_TOKEN", "abc")

	var v *Vars
	got, ok := v.Lookup("XHRMOCK_TEST_TOKEN")
	assert.True(t, ok)
	assert.Equal(t, "abc", got)
	assert.Equal(t, 0, v.Len())
}

func TestVarsLoadFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(first, []byte("A=1\nB=2\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("B=3\n"), 0644))

	v := NewVars()
	require.NoError(t, v.LoadFile(first))
	require.NoError(t, v.LoadFile(second))

	assert.Equal(t, 2, v.Len())
	b, _ := v.Lookup("B")
	assert.Equal(t, "3", b)

	assert.Error(t, v.LoadFile(filepath.Join(dir, "missing")))
}
