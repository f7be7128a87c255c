package shell_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/adapters/shell"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestExecutor_LogsEveryLine(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var lines []string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		lines = append(lines, msg)
	}).AnyTimes()

	var out bytes.Buffer
	err := shell.NewExecutor(log).Run(context.Background(),
		ports.ShellLine("echo one; echo two; printf three"), &out, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, lines)
	assert.Contains(t, out.String(), "two")
}

func TestExecutor_UsesCommandEnvAndDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var lines []string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		lines = append(lines, msg)
	}).AnyTimes()

	dir := t.TempDir()
	cmd := ports.ShellLine(`echo "$XCPKG_TEST_VAR"; pwd`)
	cmd.Env = []string{"XCPKG_TEST_VAR=hello", "PATH=/usr/bin:/bin"}
	cmd.Dir = dir

	require.NoError(t, shell.NewExecutor(log).Run(context.Background(), cmd, nil, nil))

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "hello", lines[0])
	assert.Equal(t, want, lines[1])
}

func TestExecutor_NonZeroExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	err := shell.NewExecutor(log).Run(context.Background(), ports.ShellLine("exit 3"), nil, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrProcess)
	assert.Equal(t, domain.KindProcess, domain.KindOf(err))
	assert.Equal(t, 3, shell.ExitCode(err))
}

func TestExecutor_Signaled(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	err := shell.NewExecutor(log).Run(context.Background(), ports.ShellLine("kill -TERM $$"), nil, nil)
	require.ErrorIs(t, err, domain.ErrProcess)
	assert.Equal(t, -1, shell.ExitCode(err))
}

func TestExecutor_ContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := shell.NewExecutor(log).Run(ctx, ports.ShellLine("sleep 10"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrProcess)
}

func TestExecutor_EmptyCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	err := shell.NewExecutor(log).Run(context.Background(), ports.Command{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrArgument)
}

func TestExecutor_MissingBinary(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	err := shell.NewExecutor(log).Run(context.Background(),
		ports.Command{Argv: []string{"xcpkg-definitely-missing-tool"}}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrProcess)
}

func TestResolveEnvironment(t *testing.T) {
	env := shell.ResolveEnvironment(
		[]string{"HOME=/home/u", "SECRET=x", "PATH=/bin"},
		[]string{"PATH=/opt/bin", "CC=clang"},
	)

	assert.ElementsMatch(t, []string{"HOME=/home/u", "PATH=/opt/bin", "CC=clang"}, env)
}
