package toolchain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/engine/toolchain"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}
}

func TestAccumulate_NoOpWhenDirectoriesAreMissing(t *testing.T) {
	env := toolchain.NewEnvFrom([]string{"PATH=/usr/bin", "CPPFLAGS=-DX", "LDFLAGS=-lm"})
	before := env.Environ()

	toolchain.AccumulateAll(env, t.TempDir())

	assert.Equal(t, before, env.Environ())
}

func TestAccumulate_PrependsToExistingValues(t *testing.T) {
	pkg := t.TempDir()
	mkdirs(t, pkg, "bin", "include", "lib/pkgconfig", "share/aclocal")

	env := toolchain.NewEnvFrom([]string{
		"PATH=/usr/bin",
		"CPPFLAGS=-DX",
		"LDFLAGS=-lm",
		"PKG_CONFIG_PATH=/usr/lib/pkgconfig",
	})
	toolchain.AccumulateBin(env, pkg)
	toolchain.AccumulateInclude(env, pkg)
	toolchain.AccumulateLib(env, pkg)
	toolchain.AccumulatePkgConfig(env, pkg)
	toolchain.AccumulateAclocal(env, pkg)

	lib := filepath.Join(pkg, "lib")
	assert.Equal(t, filepath.Join(pkg, "bin")+":/usr/bin", env.Get("PATH"))
	assert.Equal(t, "-I"+filepath.Join(pkg, "include")+" -DX", env.Get("CPPFLAGS"))
	assert.Equal(t, "-L"+lib+" -Wl,-rpath,"+lib+" -lm", env.Get("LDFLAGS"))
	assert.Equal(t, filepath.Join(lib, "pkgconfig")+":/usr/lib/pkgconfig", env.Get("PKG_CONFIG_PATH"))
	assert.Equal(t, filepath.Join(pkg, "share", "aclocal"), env.Get("ACLOCAL_PATH"))
}

func TestAccumulate_Deterministic(t *testing.T) {
	pkg := t.TempDir()
	mkdirs(t, pkg, "bin")

	a := toolchain.NewEnvFrom([]string{"PATH=/usr/bin"})
	b := toolchain.NewEnvFrom([]string{"PATH=/usr/bin"})
	toolchain.AccumulateBin(a, pkg)
	toolchain.AccumulateBin(b, pkg)

	assert.Equal(t, a.Environ(), b.Environ())
}

func TestAccumulateXDG(t *testing.T) {
	pkg := t.TempDir()
	mkdirs(t, pkg, "share/doc")
	env := toolchain.NewEnv()

	toolchain.AccumulateXDG(env, pkg)
	_, ok := env.Lookup("XDG_DATA_DIRS")
	assert.False(t, ok)

	mkdirs(t, pkg, "share/gir-1.0")
	toolchain.AccumulateXDG(env, pkg)
	assert.Equal(t, filepath.Join(pkg, "share"), env.Get("XDG_DATA_DIRS"))
}

func TestEnv_SetUnsetAppend(t *testing.T) {
	env := toolchain.NewEnvFrom([]string{"A=1", "malformed", "=x"})
	env.Append("A", "2", " ")
	env.Append("B", "", " ")
	env.Set("C", "3")
	env.Unset("C")

	assert.Equal(t, []string{"A=1 2"}, env.Environ())
}
