// Package planner turns a resolution into an ordered installation plan.
package planner

import (
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

// Planner decides which resolved packages need to be built.
type Planner struct {
	store  ports.InstalledStore
	logger ports.Logger
}

// New creates a new Planner.
func New(store ports.InstalledStore, logger ports.Logger) *Planner {
	return &Planner{store: store, logger: logger}
}

// Plan returns one step per resolved package, dependencies first. Packages
// already installed for platform are skipped unless force is set.
func (p *Planner) Plan(res *domain.Resolution, platform domain.Platform, force bool) ([]domain.Step, error) {
	if res == nil || res.Set == nil {
		return nil, zerr.Wrap(domain.ErrArgument, "nothing to plan")
	}

	steps := make([]domain.Step, 0, len(res.Order))
	for _, name := range res.Order {
		f, ok := res.Set.Get(name)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrArgument, "package missing from the resolved set"), "package", name)
		}

		if !force {
			if dir, installed := p.store.Lookup(platform, name); installed {
				p.logger.Info(name + " already installed, skipping")
				steps = append(steps, domain.Step{Action: domain.ActionSkip, Formula: f, InstalledDir: dir})
				continue
			}
		}

		steps = append(steps, domain.Step{Action: domain.ActionBuild, Formula: f, Closure: res.Closures[name]})
	}
	return steps, nil
}
