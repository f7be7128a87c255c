// Package app implements the xcpkg use cases on top of the engines.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

// Planner turns a resolution into install steps.
type Planner interface {
	Plan(res *domain.Resolution, platform domain.Platform, force bool) ([]domain.Step, error)
}

// App represents the main application logic.
type App struct {
	cfg       *domain.Config
	resolver  ports.DependencyResolver
	planner   Planner
	builder   ports.PackageBuilder
	natives   ports.NativeInstaller
	formulas  ports.FormulaStore
	vcs       ports.VCS
	locker    ports.Locker
	sysinfo   ports.SystemInfoProvider
	telemetry ports.Telemetry
	logger    ports.Logger
	newID     func() string
}

// New creates a new App instance.
func New(
	cfg *domain.Config,
	resolver ports.DependencyResolver,
	planner Planner,
	builder ports.PackageBuilder,
	natives ports.NativeInstaller,
	formulas ports.FormulaStore,
	vcs ports.VCS,
	locker ports.Locker,
	sysinfo ports.SystemInfoProvider,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		cfg:       cfg,
		resolver:  resolver,
		planner:   planner,
		builder:   builder,
		natives:   natives,
		formulas:  formulas,
		vcs:       vcs,
		locker:    locker,
		sysinfo:   sysinfo,
		telemetry: telemetry,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Install resolves, plans and builds a package together with its dependencies.
// The first failing package aborts the installation.
func (a *App) Install(ctx context.Context, name string, opts domain.InstallOptions) error {
	a.logger.SetVerbosity(opts.Verbosity)

	if strings.TrimSpace(name) == "" {
		return zerr.Wrap(domain.ErrArgument, "package name is required")
	}
	if opts.Target.IsZero() {
		return zerr.Wrap(domain.ErrArgument, "target platform is required")
	}
	opts.Jobs = a.jobs(opts.Jobs)

	res, err := a.resolver.Resolve(ctx, name, opts.Target)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve dependencies")
	}

	steps, err := a.planner.Plan(res, opts.Target, opts.Force)
	if err != nil {
		return zerr.Wrap(err, "failed to plan installation")
	}

	if opts.DryRun {
		for _, step := range steps {
			if step.Action == domain.ActionSkip {
				a.logger.Info(step.Formula.Name + " is already installed")
				continue
			}
			a.logger.Info("would build " + step.Formula.Name + " " + step.Formula.Version + " for " + opts.Target.String())
		}
		return nil
	}

	session, cleanup, err := a.session(opts.KeepSession)
	if err != nil {
		return err
	}

	for _, step := range steps {
		if step.Action == domain.ActionSkip {
			_, vertex := a.telemetry.Record(ctx, step.Formula.Name)
			vertex.Cached()
			continue
		}

		err := a.builder.Build(ctx, domain.BuildRequest{
			Formula:    step.Formula,
			Closure:    step.Closure,
			Set:        res.Set,
			Options:    opts,
			SessionDir: session,
		})
		if err != nil {
			cleanup()
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrInstallFailed, err), "installation failed"), "package", step.Formula.Name)
		}
	}

	cleanup()
	return nil
}

// Deps resolves a package and returns the resolution without building anything.
func (a *App) Deps(ctx context.Context, name string, target domain.Platform) (*domain.Resolution, error) {
	if strings.TrimSpace(name) == "" {
		return nil, zerr.Wrap(domain.ErrArgument, "package name is required")
	}
	if target.IsZero() {
		return nil, zerr.Wrap(domain.ErrArgument, "target platform is required")
	}
	res, err := a.resolver.Resolve(ctx, name, target)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve dependencies")
	}
	return res, nil
}

// Native makes sure the named build-machine tools are available and returns their directories.
func (a *App) Native(ctx context.Context, names []string, keepSession bool) ([]string, error) {
	if len(names) == 0 {
		return nil, zerr.Wrap(domain.ErrArgument, "at least one native package is required")
	}

	session, cleanup, err := a.session(keepSession)
	if err != nil {
		return nil, err
	}

	dirs, err := a.natives.Ensure(ctx, session, names)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to install native packages")
	}
	cleanup()
	return dirs, nil
}

// Update synchronizes every formula repository that is not pinned.
// A failing repository does not stop the others.
func (a *App) Update(ctx context.Context) error {
	repos, err := a.formulas.Repositories()
	if err != nil {
		return zerr.Wrap(err, "failed to list formula repositories")
	}

	var errs []error
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case repo.Pinned:
			a.logger.Info(repo.Name + " is pinned, skipping")
			continue
		case repo.URL == "":
			a.logger.Warn(repo.Name + " has no url, skipping")
			continue
		}
		if err := a.updateRepo(ctx, repo); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) updateRepo(ctx context.Context, repo domain.Repository) (err error) {
	ctx, vertex := a.telemetry.Record(ctx, "update "+repo.Name)
	defer func() { vertex.Complete(err) }()

	lock, err := a.locker.Lock(filepath.Join(a.cfg.Layout.Repos, repo.Name+domain.LockFileName))
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}()

	err = a.vcs.Sync(ctx, ports.GitSyncRequest{
		Dir:            repo.Dir,
		URL:            repo.URL,
		Ref:            repo.Branch,
		FallbackBranch: repo.Branch,
		Depth:          1,
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to update formula repository"), "repository", repo.Name)
	}
	a.logger.Info(repo.Name + " updated")
	return nil
}

// session creates a fresh scratch directory. The returned cleanup removes it
// unless keep is set.
func (a *App) session(keep bool) (string, func(), error) {
	dir := a.cfg.Layout.SessionDir(a.newID())
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", nil, domain.IOError("failed to create session directory", dir, err)
	}
	cleanup := func() {
		if keep {
			a.logger.Info("session directory kept at " + dir)
			return
		}
		if err := os.RemoveAll(dir); err != nil {
			a.logger.Warn("failed to remove session directory " + dir + ": " + err.Error())
		}
	}
	return dir, cleanup, nil
}

func (a *App) jobs(requested int) int {
	if requested > 0 {
		return requested
	}
	if a.cfg.Jobs > 0 {
		return a.cfg.Jobs
	}
	info, err := a.sysinfo.Snapshot()
	if err == nil && info.NCPU > 0 {
		return info.NCPU
	}
	return 1
}
