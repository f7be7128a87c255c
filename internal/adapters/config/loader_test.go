package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/adapters/config"
	"go.trai.ch/xcpkg/internal/core/domain"
)

func TestLoader_DefaultHome(t *testing.T) {
	userHome := t.TempDir()

	cfg, err := config.NewLoaderWithEnv(map[string]string{}, userHome).Load()
	require.NoError(t, err)

	home := filepath.Join(userHome, ".xcpkg")
	assert.Equal(t, home, cfg.Layout.Home)
	assert.Equal(t, filepath.Join(home, "installed"), cfg.Layout.Installed)
	assert.Equal(t, filepath.Join(home, "native"), cfg.Layout.Native)
	assert.Zero(t, cfg.Jobs)
}

func TestLoader_HomeOverride(t *testing.T) {
	home := t.TempDir()

	cfg, err := config.NewLoaderWithEnv(map[string]string{config.EnvHome: home}, "/nonexistent").Load()
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Layout.Home)
}

func TestLoader_EnvFile(t *testing.T) {
	home := t.TempDir()
	content := "XCPKG_JOBS=3\nXCPKG_FORMULA_REPOS=official-core,extra\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, domain.EnvFileName), []byte(content), 0o600))

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := config.NewLoaderWithEnv(map[string]string{config.EnvHome: home}, "").Load()
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Jobs)
		assert.Equal(t, []string{"official-core", "extra"}, cfg.FormulaRepos)
	})

	t.Run("process environment wins", func(t *testing.T) {
		cfg, err := config.NewLoaderWithEnv(map[string]string{
			config.EnvHome: home,
			config.EnvJobs: "8",
		}, "").Load()
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Jobs)
	})
}

func TestLoader_InvalidJobs(t *testing.T) {
	_, err := config.NewLoaderWithEnv(map[string]string{
		config.EnvHome: t.TempDir(),
		config.EnvJobs: "many",
	}, "").Load()
	require.Error(t, err)
	assert.Equal(t, domain.KindArgument, domain.KindOf(err))
}

func TestLoader_MissingHome(t *testing.T) {
	_, err := config.NewLoaderWithEnv(map[string]string{}, "").Load()
	require.ErrorIs(t, err, domain.ErrEnvironment)
}
