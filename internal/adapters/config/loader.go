// Package config resolves the xcpkg home directory and runtime settings.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// EnvHome overrides the home directory.
	EnvHome = "XCPKG_HOME"
	// EnvJobs sets the default build parallelism.
	EnvJobs = "XCPKG_JOBS"
	// EnvFormulaRepos restricts formula lookups to a comma or space separated list of repositories.
	EnvFormulaRepos = "XCPKG_FORMULA_REPOS"
)

// Loader resolves the runtime configuration from the process environment and
// the optional <home>/xcpkg.env file. Process variables take precedence.
type Loader struct {
	getenv   func(string) string
	userHome func() (string, error)
}

// NewLoader creates a Loader reading the real process environment.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv, userHome: os.UserHomeDir}
}

// NewLoaderWithEnv creates a Loader over an explicit environment.
func NewLoaderWithEnv(env map[string]string, userHome string) *Loader {
	return &Loader{
		getenv:   func(k string) string { return env[k] },
		userHome: func() (string, error) { return userHome, nil },
	}
}

// Load returns the resolved configuration.
func (l *Loader) Load() (*domain.Config, error) {
	home := l.getenv(EnvHome)
	if home == "" {
		userHome, err := l.userHome()
		if err != nil || userHome == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrEnvironment, "HOME is not set"), "variable", "HOME")
		}
		home = filepath.Join(userHome, domain.HomeDirName)
	}

	home, err := filepath.Abs(home)
	if err != nil {
		return nil, domain.IOError("failed to resolve home directory", home, err)
	}

	file, err := readEnvFile(filepath.Join(home, domain.EnvFileName))
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		if v := l.getenv(key); v != "" {
			return v
		}
		return file[key]
	}

	cfg := &domain.Config{Layout: domain.NewLayout(home)}

	if jobs := lookup(EnvJobs); jobs != "" {
		n, err := strconv.Atoi(jobs)
		if err != nil || n < 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrArgument, "XCPKG_JOBS must be a non-negative integer"), "value", jobs)
		}
		cfg.Jobs = n
	}

	if repos := lookup(EnvFormulaRepos); repos != "" {
		cfg.FormulaRepos = strings.FieldsFunc(repos, func(r rune) bool { return r == ',' || r == ' ' })
	}

	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrArgument, "failed to parse settings file"), "path", path)
	}
	return values, nil
}
