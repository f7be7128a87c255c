// Package pipeline drives one package through fetch, build and install.
//
// A Driver run moves through the states Created, Fetching, Patching,
// Preparing, Building and Finalizing. Each state is recorded as a telemetry
// vertex; the first failure moves the run to Failed and removes the
// incomplete installation directory. The stable name symlink is published
// last, so a package is only ever visible as installed when every phase
// succeeded.
package pipeline

import (
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/engine/toolchain"
	"go.trai.ch/zerr"
)

//go:embed runner.sh
var runnerScript []byte

var _ ports.PackageBuilder = (*Driver)(nil)

// ContextBuilder assembles build contexts.
type ContextBuilder interface {
	Native(ctx context.Context, spec toolchain.Spec) (toolchain.BuildContext, error)
	Target(ctx context.Context, spec toolchain.Spec) (toolchain.BuildContext, error)
}

// Driver implements ports.PackageBuilder.
type Driver struct {
	layout     domain.Layout
	builder    string
	store      ports.InstalledStore
	downloader ports.Downloader
	extractor  ports.Extractor
	vcs        ports.VCS
	executor   ports.Executor
	natives    ports.NativeInstaller
	contexts   ContextBuilder
	sysinfo    ports.SystemInfoProvider
	telemetry  ports.Telemetry
	logger     ports.Logger
	now        func() time.Time

	runnerOnce sync.Once
	runnerErr  error
}

// New creates a new Driver. builder identifies this program in receipts.
func New(
	layout domain.Layout,
	builder string,
	store ports.InstalledStore,
	downloader ports.Downloader,
	extractor ports.Extractor,
	vcs ports.VCS,
	executor ports.Executor,
	natives ports.NativeInstaller,
	contexts ContextBuilder,
	sysinfo ports.SystemInfoProvider,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Driver {
	return &Driver{
		layout:     layout,
		builder:    builder,
		store:      store,
		downloader: downloader,
		extractor:  extractor,
		vcs:        vcs,
		executor:   executor,
		natives:    natives,
		contexts:   contexts,
		sysinfo:    sysinfo,
		telemetry:  telemetry,
		logger:     logger,
		now:        time.Now,
	}
}

// run is the state of one package build.
type run struct {
	d   *Driver
	req domain.BuildRequest

	state      domain.State
	work       WorkTree
	installDir string
	script     string
	nativeDirs []string
	target     toolchain.BuildContext
}

// Build runs every phase for req.Formula.
func (d *Driver) Build(ctx context.Context, req domain.BuildRequest) error {
	if req.Formula == nil {
		return zerr.Wrap(domain.ErrArgument, "build request has no formula")
	}
	if req.SessionDir == "" {
		return zerr.With(zerr.Wrap(domain.ErrArgument, "build request has no session directory"), "package", req.Formula.Name)
	}

	r := &run{d: d, req: req, state: domain.StateCreated}
	ctx, vertex := d.telemetry.Record(ctx, req.Formula.Name)
	err := r.execute(ctx)
	vertex.Complete(err)
	return err
}

type phase struct {
	state domain.State
	run   func(ctx context.Context, vertex ports.Vertex) error
}

func (r *run) execute(ctx context.Context) error {
	name := r.req.Formula.Name
	phases := []phase{
		{domain.StateCreated, r.create},
		{domain.StateFetching, r.fetch},
		{domain.StatePatching, r.patch},
		{domain.StatePreparing, r.prepare},
		{domain.StateBuilding, r.build},
		{domain.StateFinalizing, r.finalize},
	}

	for _, p := range phases {
		r.state = p.state
		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}
		r.d.logger.Debug(name + ": " + p.state.String())

		phaseCtx, vertex := r.d.telemetry.Record(ctx, name+" "+p.state.String())
		vertex.Log(name + ": entering " + p.state.String())
		err := p.run(phaseCtx, vertex)
		vertex.Complete(err)
		if err != nil {
			return r.fail(err)
		}
	}

	r.state = domain.StateDone
	if !r.req.Options.KeepSession {
		if err := os.RemoveAll(r.work.Root); err != nil {
			r.d.logger.Warn("failed to remove working directory " + r.work.Root)
		}
	}
	r.d.logger.Info(name + " installed to " + r.installDir)
	return nil
}

func (r *run) fail(err error) error {
	failed := r.state
	r.state = domain.StateFailed
	if r.installDir != "" {
		_ = os.RemoveAll(r.installDir)
	}
	err = zerr.Wrap(err, "failed to install package")
	err = zerr.With(err, "package", r.req.Formula.Name)
	return zerr.With(err, "state", failed.String())
}

// create allocates the work tree and installation directory, makes the native
// tools available and writes the build configuration.
func (r *run) create(ctx context.Context, _ ports.Vertex) error {
	d, f := r.d, r.req.Formula
	target := r.req.Options.Target

	if err := d.installRunner(); err != nil {
		return err
	}

	r.work = NewWorkTree(r.req.SessionDir, f.Name)
	if err := r.work.Create(); err != nil {
		return err
	}
	r.installDir = filepath.Join(d.layout.InstalledRoot(target), d.store.NewID(f.Name))

	dirs, err := d.natives.Ensure(ctx, r.req.SessionDir, nativeRequirements(f))
	if err != nil {
		return err
	}
	r.nativeDirs = dirs

	deps := make([]Dependency, 0, len(r.req.Closure))
	depDirs := make([]string, 0, len(r.req.Closure))
	for _, name := range r.req.Closure {
		dir := d.layout.InstalledLink(target, name)
		deps = append(deps, Dependency{Name: name, Dir: dir})
		depDirs = append(depDirs, dir)
	}

	r.target, err = d.contexts.Target(ctx, toolchain.Spec{
		Formula:    f,
		Platform:   target,
		Options:    r.req.Options,
		WorkDir:    r.work.Root,
		Deps:       depDirs,
		NativeDirs: r.nativeDirs,
	})
	if err != nil {
		return err
	}

	info, err := d.sysinfo.Snapshot()
	if err != nil {
		return err
	}

	r.script = filepath.Join(r.work.Root, domain.ConfigScriptName)
	script := RenderScript(ScriptInput{
		Formula:    f,
		Native:     info.NativePlatform(),
		Target:     target,
		Sysroot:    r.target.Toolchain.SYSROOT,
		Layout:     d.layout,
		SessionDir: r.req.SessionDir,
		Work:       r.work,
		InstallDir: r.installDir,
		Options:    r.req.Options,
		Jobs:       buildJobs(f, r.req.Options),
		Closure:    r.req.Closure,
		Deps:       deps,
	})
	if err := os.WriteFile(r.script, script, domain.FilePerm); err != nil {
		return domain.IOError("failed to write build configuration", r.script, err)
	}
	return nil
}

// patch runs the native pre-build and the patch phase.
func (r *run) patch(ctx context.Context, vertex ports.Vertex) error {
	f := r.req.Formula
	if f.Do12345 != "" {
		native, err := r.d.contexts.Native(ctx, toolchain.Spec{
			Formula:    f,
			Options:    r.req.Options,
			WorkDir:    r.work.Root,
			NativeDirs: r.nativeDirs,
		})
		if err != nil {
			return err
		}
		if err := r.runPhase(ctx, vertex, native, "native"); err != nil {
			return err
		}
	}
	if f.DoPatch != "" {
		return r.runPhase(ctx, vertex, r.target, "patch")
	}
	return nil
}

func (r *run) prepare(ctx context.Context, vertex ports.Vertex) error {
	if r.req.Formula.Prepare == "" {
		return nil
	}
	return r.runPhase(ctx, vertex, r.target, "prepare")
}

// build runs the install body. A dofetch-only package has none and ships
// whatever dofetch left in the installation directory.
func (r *run) build(ctx context.Context, vertex ports.Vertex) error {
	if strings.TrimSpace(r.req.Formula.Install) == "" {
		if err := os.MkdirAll(r.installDir, domain.DirPerm); err != nil {
			return domain.IOError("failed to create installation directory", r.installDir, err)
		}
		return nil
	}
	return r.runPhase(ctx, vertex, r.target, "target")
}

// runPhase invokes the phase runner in mode with bc as the environment.
func (r *run) runPhase(ctx context.Context, vertex ports.Vertex, bc toolchain.BuildContext, mode string) error {
	cmd := ports.Command{
		Argv: []string{"/bin/sh", r.d.layout.RunnerScript(), mode},
		Env:  bc.With("XCPKG_CONFIG", r.script).Environ(),
		Dir:  r.work.Src,
	}
	if err := r.d.executor.Run(ctx, cmd, vertex.Stdout(), vertex.Stderr()); err != nil {
		return zerr.With(zerr.Wrap(err, "phase failed"), "phase", mode)
	}
	return nil
}

// installRunner writes the phase runner into the core directory once per Driver.
func (d *Driver) installRunner() error {
	d.runnerOnce.Do(func() {
		path := d.layout.RunnerScript()
		if current, err := os.ReadFile(path); err == nil && string(current) == string(runnerScript) { //nolint:gosec // path is inside the xcpkg home
			return
		}
		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			d.runnerErr = domain.IOError("failed to create core directory", filepath.Dir(path), err)
			return
		}
		if err := os.WriteFile(path, runnerScript, 0o755); err != nil { //nolint:gosec // the runner is executable
			d.runnerErr = domain.IOError("failed to install phase runner", path, err)
		}
	})
	return d.runnerErr
}

func buildJobs(f *domain.Formula, opts domain.InstallOptions) int {
	if !f.Parallel || opts.Jobs <= 0 {
		return 1
	}
	return opts.Jobs
}

// nativeRequirements lists the native tools a formula needs: its dep_upp
// entries followed by the tools implied by its build systems.
func nativeRequirements(f *domain.Formula) []string {
	set := domain.NewOrderedSet()
	for _, name := range f.DepUpp {
		set.Add(name)
	}
	bs := f.BuildSystems
	if bs.Autogen || bs.Autotools {
		set.Add("autoconf")
		set.Add("automake")
		set.Add("libtool")
	}
	if bs.Configure || bs.CMake || bs.Meson {
		set.Add("pkg-config")
	}
	if bs.Configure || bs.GMake {
		set.Add("gmake")
	}
	for _, entry := range []struct {
		on   bool
		tool string
	}{
		{bs.CMake, "cmake"},
		{bs.Meson, "meson"},
		{bs.Ninja, "ninja"},
		{bs.Cargo, "cargo"},
		{bs.Golang, "go"},
		{bs.XMake, "xmake"},
		{bs.GN, "gn"},
	} {
		if entry.on {
			set.Add(entry.tool)
		}
	}
	return set.Slice()
}
