package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/app"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/core/ports/mocks"
	"go.trai.ch/xcpkg/internal/engine/planner"
	"go.uber.org/mock/gomock"
)

type harness struct {
	app       *app.App
	cfg       *domain.Config
	resolver  *mocks.MockDependencyResolver
	store     *mocks.MockInstalledStore
	builder   *mocks.MockPackageBuilder
	natives   *mocks.MockNativeInstaller
	formulas  *mocks.MockFormulaStore
	vcs       *mocks.MockVCS
	locker    *mocks.MockLocker
	sysinfo   *mocks.MockSystemInfoProvider
	telemetry *mocks.MockTelemetry
	logger    *mocks.MockLogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		cfg:       &domain.Config{Layout: domain.NewLayout(t.TempDir())},
		resolver:  mocks.NewMockDependencyResolver(ctrl),
		store:     mocks.NewMockInstalledStore(ctrl),
		builder:   mocks.NewMockPackageBuilder(ctrl),
		natives:   mocks.NewMockNativeInstaller(ctrl),
		formulas:  mocks.NewMockFormulaStore(ctrl),
		vcs:       mocks.NewMockVCS(ctrl),
		locker:    mocks.NewMockLocker(ctrl),
		sysinfo:   mocks.NewMockSystemInfoProvider(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	h.logger.EXPECT().SetVerbosity(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	h.sysinfo.EXPECT().Snapshot().Return(domain.SystemInfo{NCPU: 6}, nil).AnyTimes()

	h.app = app.New(h.cfg, h.resolver, planner.New(h.store, h.logger), h.builder, h.natives,
		h.formulas, h.vcs, h.locker, h.sysinfo, h.telemetry, h.logger)
	h.app.SetIDGenerator(func() string { return "session-1" })
	return h
}

func (h *harness) sessionDir() string {
	return h.cfg.Layout.SessionDir("session-1")
}

var iphone = domain.Platform{Name: "iPhoneOS", Version: "12.0", Arch: "arm64"}

func resolution(order ...string) *domain.Resolution {
	set := domain.NewPackageSet()
	closures := map[string][]string{}
	for i, name := range order {
		set.Add(&domain.Formula{Name: name, Version: "1.0", DepPkg: order[:i]})
		closures[name] = append([]string(nil), order[:i]...)
	}
	return &domain.Resolution{Root: order[len(order)-1], Set: set, Order: order, Closures: closures}
}

func TestInstall_BuildsMissingPackagesInOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.resolver.EXPECT().Resolve(ctx, "libpng", iphone).Return(resolution("zlib", "libpng"), nil)
	h.store.EXPECT().Lookup(iphone, "zlib").Return("/installed/zlib", true)
	h.store.EXPECT().Lookup(iphone, "libpng").Return("", false)

	vertex := mocks.NewMockVertex(gomock.NewController(t))
	vertex.EXPECT().Cached()
	h.telemetry.EXPECT().Record(ctx, "zlib").Return(ctx, vertex)

	var got domain.BuildRequest
	h.builder.EXPECT().Build(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req domain.BuildRequest) error {
		got = req
		assert.DirExists(t, req.SessionDir)
		return nil
	})

	err := h.app.Install(ctx, "libpng", domain.InstallOptions{Target: iphone})
	require.NoError(t, err)

	assert.Equal(t, "libpng", got.Formula.Name)
	assert.Equal(t, []string{"zlib"}, got.Closure)
	assert.Equal(t, 6, got.Options.Jobs)
	assert.Equal(t, h.sessionDir(), got.SessionDir)
	assert.NoDirExists(t, h.sessionDir())
}

func TestInstall_ConfiguredJobsWin(t *testing.T) {
	h := newHarness(t)
	h.cfg.Jobs = 3
	ctx := context.Background()

	h.resolver.EXPECT().Resolve(ctx, "zlib", iphone).Return(resolution("zlib"), nil)
	h.store.EXPECT().Lookup(iphone, "zlib").Return("", false)
	h.builder.EXPECT().Build(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req domain.BuildRequest) error {
		assert.Equal(t, 3, req.Options.Jobs)
		return nil
	})

	require.NoError(t, h.app.Install(ctx, "zlib", domain.InstallOptions{Target: iphone}))
}

func TestInstall_ForceRebuildsInstalledPackages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.resolver.EXPECT().Resolve(ctx, "libpng", iphone).Return(resolution("zlib", "libpng"), nil)

	var built []string
	h.builder.EXPECT().Build(ctx, gomock.Any()).Times(2).DoAndReturn(func(_ context.Context, req domain.BuildRequest) error {
		built = append(built, req.Formula.Name)
		assert.Equal(t, 2, req.Options.Jobs)
		return nil
	})

	err := h.app.Install(ctx, "libpng", domain.InstallOptions{Target: iphone, Force: true, Jobs: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"zlib", "libpng"}, built)
}

func TestInstall_FirstFailureAborts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.resolver.EXPECT().Resolve(ctx, "libpng", iphone).Return(resolution("zlib", "libpng"), nil)
	h.builder.EXPECT().Build(ctx, gomock.Any()).Return(domain.ErrProcess)

	err := h.app.Install(ctx, "libpng", domain.InstallOptions{Target: iphone, Force: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInstallFailed)
	assert.ErrorIs(t, err, domain.ErrProcess)
	assert.Equal(t, domain.KindProcess, domain.KindOf(err))
	assert.NoDirExists(t, h.sessionDir())
}

func TestInstall_FailureKeepsSessionOnlyWhenAsked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.resolver.EXPECT().Resolve(ctx, "zlib", iphone).Return(resolution("zlib"), nil)
	h.builder.EXPECT().Build(ctx, gomock.Any()).Return(domain.ErrProcess)

	err := h.app.Install(ctx, "zlib", domain.InstallOptions{Target: iphone, Force: true, KeepSession: true})
	require.ErrorIs(t, err, domain.ErrInstallFailed)
	assert.DirExists(t, h.sessionDir())
}

func TestInstall_DryRunBuildsNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.resolver.EXPECT().Resolve(ctx, "libpng", iphone).Return(resolution("zlib", "libpng"), nil)
	h.store.EXPECT().Lookup(iphone, "zlib").Return("/installed/zlib", true)
	h.store.EXPECT().Lookup(iphone, "libpng").Return("", false)

	require.NoError(t, h.app.Install(ctx, "libpng", domain.InstallOptions{Target: iphone, DryRun: true}))
	assert.NoDirExists(t, h.sessionDir())
}

func TestInstall_ResolutionErrorIsReturned(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.resolver.EXPECT().Resolve(ctx, "nope", iphone).Return(nil, domain.ErrFormulaNotFound)

	err := h.app.Install(ctx, "nope", domain.InstallOptions{Target: iphone})
	assert.ErrorIs(t, err, domain.ErrFormulaNotFound)
	assert.Equal(t, domain.KindFormula, domain.KindOf(err))
}

func TestInstall_RejectsBadArguments(t *testing.T) {
	h := newHarness(t)

	err := h.app.Install(context.Background(), " ", domain.InstallOptions{Target: iphone})
	assert.ErrorIs(t, err, domain.ErrArgument)

	err = h.app.Install(context.Background(), "zlib", domain.InstallOptions{})
	assert.ErrorIs(t, err, domain.ErrArgument)

	_, err = h.app.Deps(context.Background(), "", iphone)
	assert.ErrorIs(t, err, domain.ErrArgument)

	_, err = h.app.Native(context.Background(), nil, false)
	assert.ErrorIs(t, err, domain.ErrArgument)
}

func TestDeps_ReturnsResolution(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	want := resolution("zlib", "libpng")

	h.resolver.EXPECT().Resolve(ctx, "libpng", iphone).Return(want, nil)

	got, err := h.app.Deps(ctx, "libpng", iphone)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestNative_EnsuresInSessionDirectory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.natives.EXPECT().Ensure(ctx, h.sessionDir(), []string{"automake"}).
		Return([]string{"/native/m4", "/native/autoconf", "/native/automake"}, nil)

	dirs, err := h.app.Native(ctx, []string{"automake"}, false)
	require.NoError(t, err)
	assert.Len(t, dirs, 3)
	assert.NoDirExists(t, h.sessionDir())
}

func TestNative_KeepSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.natives.EXPECT().Ensure(ctx, h.sessionDir(), []string{"m4"}).Return([]string{"/native/m4"}, nil)

	_, err := h.app.Native(ctx, []string{"m4"}, true)
	require.NoError(t, err)
	assert.DirExists(t, h.sessionDir())
}

func TestUpdate_SyncsUnpinnedRepositories(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repos := h.cfg.Layout.Repos

	h.formulas.EXPECT().Repositories().Return([]domain.Repository{
		{Name: "core", Dir: filepath.Join(repos, "core"), URL: "https://example.com/core.git", Branch: "master"},
		{Name: "local", Dir: filepath.Join(repos, "local")},
		{Name: "mine", Dir: filepath.Join(repos, "mine"), URL: "https://example.com/mine.git", Branch: "main", Pinned: true},
		{Name: "broken", Dir: filepath.Join(repos, "broken"), URL: "https://example.com/broken.git", Branch: "main"},
	}, nil)

	vertex := mocks.NewMockVertex(gomock.NewController(t))
	vertex.EXPECT().Complete(gomock.Any()).Times(2)
	h.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).Return(ctx, vertex).Times(2)

	lock := mocks.NewMockLock(gomock.NewController(t))
	lock.EXPECT().Unlock().Return(nil).Times(2)
	h.locker.EXPECT().Lock(filepath.Join(repos, "core.lock")).Return(lock, nil)
	h.locker.EXPECT().Lock(filepath.Join(repos, "broken.lock")).Return(lock, nil)

	h.vcs.EXPECT().Sync(ctx, ports.GitSyncRequest{
		Dir:            filepath.Join(repos, "core"),
		URL:            "https://example.com/core.git",
		Ref:            "master",
		FallbackBranch: "master",
		Depth:          1,
	}).Return(nil)
	h.vcs.EXPECT().Sync(ctx, gomock.Any()).Return(domain.ErrGit)

	err := h.app.Update(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGit)
}

func TestUpdate_LockFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.formulas.EXPECT().Repositories().Return([]domain.Repository{
		{Name: "core", Dir: "/repos/core", URL: "https://example.com/core.git", Branch: "master"},
	}, nil)
	vertex := mocks.NewMockVertex(gomock.NewController(t))
	vertex.EXPECT().Complete(gomock.Any())
	h.telemetry.EXPECT().Record(gomock.Any(), "update core").Return(ctx, vertex)
	h.locker.EXPECT().Lock(gomock.Any()).Return(nil, domain.ErrLockFailed)

	assert.ErrorIs(t, h.app.Update(ctx), domain.ErrLockFailed)
}

func TestInstall_SessionDirectoryFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Dir(h.cfg.Layout.Run), domain.DirPerm))
	require.NoError(t, os.WriteFile(h.cfg.Layout.Run, nil, domain.FilePerm))

	h.resolver.EXPECT().Resolve(ctx, "zlib", iphone).Return(resolution("zlib"), nil)
	h.store.EXPECT().Lookup(iphone, "zlib").Return("", false)

	err := h.app.Install(ctx, "zlib", domain.InstallOptions{Target: iphone})
	assert.ErrorIs(t, err, domain.ErrIO)
}
