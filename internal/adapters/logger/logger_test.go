package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/adapters/logger"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected buffer and colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	lg.Info("fetching zlib")
	lg.Warn("zlib already installed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "⇒ fetching zlib\n")
	assert.Contains(t, out, "! zlib already installed\n")
}

func TestLogger_SetVerbosity(t *testing.T) {
	t.Run("debug shows diagnostics", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.SetVerbosity(domain.VerbosityDebug)
		lg.Debug("ls -la output")
		assert.Contains(t, buf.String(), "ls -la output")
	})

	t.Run("quiet hides progress but keeps warnings", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.SetVerbosity(domain.VerbosityQuiet)
		lg.Info("progress")
		lg.Warn("warning")
		lg.Error(errors.New("boom"))

		out := buf.String()
		assert.NotContains(t, out, "progress")
		assert.Contains(t, out, "warning")
		assert.Contains(t, out, "boom")
	})
}

func TestLogger_Error_Chain(t *testing.T) {
	lg, buf := newTestLogger(t)

	err := zerr.With(zerr.Wrap(
		zerr.Wrap(errors.New("connection refused"), "failed to fetch src"),
		"failed to install package",
	), "package", "zlib")
	lg.Error(err)

	want := strings.Join([]string{
		"✗ Error: failed to install package (package=zlib)",
		"",
		"  Caused by:",
		"    → failed to fetch src",
		"    → connection refused",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_Error_IOError(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(domain.IOError("failed to create directory", "/x", os.ErrPermission))

	out := buf.String()
	assert.Contains(t, out, "Error: failed to create directory (path=/x)")
	assert.Contains(t, out, "→ filesystem operation failed")
	assert.Contains(t, out, "      permission denied")
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.Wrap(domain.ErrChecksumMismatch, "failed to fetch src"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"kind":"checksum"`)
	assert.NotContains(t, out, "✗")
}

func TestCollectErrorEntries(t *testing.T) {
	err := zerr.With(zerr.Wrap(zerr.New("root"), "outer"), "key", 1)

	entries := logger.CollectErrorEntries(err)
	require.Len(t, entries, 2)
	assert.Equal(t, "outer", logger.EntryMessage(entries[0]))
	assert.Equal(t, map[string]any{"key": 1}, logger.EntryMetadata(entries[0]))
	assert.Equal(t, "root", logger.EntryMessage(entries[1]))
}

func TestCollectErrorEntries_EmptyMessageMergesMetadata(t *testing.T) {
	// zerr.With on a plain error wraps it with an empty message.
	err := zerr.Wrap(zerr.With(errors.New("exit status 2"), "exit_code", 2), "make failed")

	entries := logger.CollectErrorEntries(err)
	require.Len(t, entries, 2)
	assert.Equal(t, "make failed", logger.EntryMessage(entries[0]))
	assert.Equal(t, 2, logger.EntryMetadata(entries[0])["exit_code"])
	assert.Equal(t, "exit status 2", logger.EntryMessage(entries[1]))
}

func TestPrettyHandler_ColorsFollowTheEnvironment(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")

	var colored bytes.Buffer
	slog.New(logger.NewPrettyHandler(&colored, nil)).Warn("zlib already installed")
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "! zlib already installed")

	t.Setenv("NO_COLOR", "1")
	var plain bytes.Buffer
	slog.New(logger.NewPrettyHandler(&plain, nil)).Error("two\n  lines")
	assert.Equal(t, "✗ two\n  lines\n", plain.String())
}
