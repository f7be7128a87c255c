// Package native builds the tools that run on the build machine itself.
//
// Native packages are compiled from source once per machine into
// <home>/native/<id> and published under <home>/native/<name>. A package whose
// receipt records the expected source sha is reused without rebuilding.
package native

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/engine/toolchain"
	"go.trai.ch/zerr"
)

var _ ports.NativeInstaller = (*Installer)(nil)

// ContextBuilder assembles the build machine context.
type ContextBuilder interface {
	Native(ctx context.Context, spec toolchain.Spec) (toolchain.BuildContext, error)
}

// Installer implements ports.NativeInstaller.
type Installer struct {
	layout     domain.Layout
	jobs       int
	catalog    Catalog
	store      ports.InstalledStore
	locker     ports.Locker
	downloader ports.Downloader
	extractor  ports.Extractor
	executor   ports.Executor
	contexts   ContextBuilder
	telemetry  ports.Telemetry
	logger     ports.Logger
	lookPath   func(string) (string, error)
}

// NewInstaller creates a new Installer.
func NewInstaller(
	cfg *domain.Config,
	catalog Catalog,
	store ports.InstalledStore,
	locker ports.Locker,
	downloader ports.Downloader,
	extractor ports.Extractor,
	executor ports.Executor,
	contexts ContextBuilder,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Installer {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Installer{
		layout:     cfg.Layout,
		jobs:       jobs,
		catalog:    catalog,
		store:      store,
		locker:     locker,
		downloader: downloader,
		extractor:  extractor,
		executor:   executor,
		contexts:   contexts,
		telemetry:  telemetry,
		logger:     logger,
		lookPath:   exec.LookPath,
	}
}

// Ensure installs the named tools and their native dependencies when missing.
// Names outside the catalog must already be on PATH. The returned directories
// are ordered with dependencies first.
func (i *Installer) Ensure(ctx context.Context, sessionDir string, names []string) ([]string, error) {
	wanted, err := i.partition(names)
	if err != nil {
		return nil, err
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	pkgs, err := i.catalog.Expand(wanted)
	if err != nil {
		return nil, err
	}

	lock, err := i.locker.Lock(filepath.Join(i.layout.Native, domain.LockFileName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	installed := make(map[string]string, len(pkgs))
	dirs := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir, err := i.ensure(ctx, sessionDir, pkg, installed, dirs)
		if err != nil {
			return nil, err
		}
		installed[pkg.Name] = dir
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// partition returns the catalog entries among names and checks the rest are on PATH.
func (i *Installer) partition(names []string) ([]string, error) {
	var wanted []string
	for _, name := range names {
		id := name
		if alias, ok := catalogAliases[name]; ok {
			id = alias
		}
		if _, ok := i.catalog[id]; ok {
			wanted = append(wanted, id)
			continue
		}

		bin := name
		if alias, ok := binaryAliases[name]; ok {
			bin = alias
		}
		path, err := i.lookPath(bin)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrNativeToolMissing, "tool is neither buildable nor on PATH"), "tool", name)
		}
		i.logger.Debug("using " + name + " from " + path)
	}
	return wanted, nil
}

func (i *Installer) ensure(
	ctx context.Context,
	sessionDir string,
	pkg domain.NativePackage,
	installed map[string]string,
	dirs []string,
) (string, error) {
	ctx, vertex := i.telemetry.Record(ctx, "native "+pkg.Name)

	if sha, dir, ok := i.store.NativeReceipt(pkg.Name); ok && sha == pkg.SHA {
		i.logger.Debug(pkg.Name + " already installed at " + dir)
		vertex.Cached()
		return dir, nil
	}

	i.logger.Info("installing native package " + pkg.Name)
	dir, err := i.install(ctx, sessionDir, pkg, installed, dirs, vertex)
	vertex.Complete(err)
	return dir, err
}

func (i *Installer) install(
	ctx context.Context,
	sessionDir string,
	pkg domain.NativePackage,
	installed map[string]string,
	dirs []string,
	vertex ports.Vertex,
) (string, error) {
	work := filepath.Join(sessionDir, "native", pkg.Name)
	if err := os.RemoveAll(work); err != nil {
		return "", domain.IOError("failed to clean native working directory", work, err)
	}
	src := filepath.Join(work, "src")
	if err := os.MkdirAll(src, domain.DirPerm); err != nil {
		return "", domain.IOError("failed to create native working directory", src, err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	archive, err := i.downloader.Fetch(ctx, pkg.Resource(), i.layout.Downloads)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to fetch native package"), "package", pkg.Name)
	}
	if err := i.extractor.Extract(src, archive, ports.ExtractOptions{}); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to unpack native package"), "package", pkg.Name)
	}

	bc, err := i.contexts.Native(ctx, toolchain.Spec{
		Options:    domain.InstallOptions{Jobs: i.jobs},
		NativeDirs: dirs,
	})
	if err != nil {
		return "", err
	}

	prefix := filepath.Join(i.layout.Native, i.store.NewID(pkg.Name))
	build := domain.NativeBuild{Prefix: prefix, Jobs: i.jobs, DepDirs: make(map[string]string, len(pkg.Deps))}
	for _, dep := range pkg.Deps {
		build.DepDirs[dep] = installed[dep]
	}

	for _, argv := range Steps(pkg, build) {
		cmd := ports.Command{Argv: argv, Env: bc.Environ(), Dir: src}
		if err := i.executor.Run(ctx, cmd, vertex.Stdout(), vertex.Stderr()); err != nil {
			_ = os.RemoveAll(prefix)
			return "", zerr.With(zerr.Wrap(err, "native build step failed"), "package", pkg.Name)
		}
	}

	if err := i.store.WriteNativeReceipt(prefix, pkg.SHA); err != nil {
		_ = os.RemoveAll(prefix)
		return "", err
	}
	if err := i.store.Publish(i.layout.NativeLink(pkg.Name), prefix); err != nil {
		_ = os.RemoveAll(prefix)
		return "", err
	}
	return prefix, nil
}
