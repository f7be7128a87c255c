// Package resolver expands a root package into the set of formulas it
// transitively depends on and orders them for installation.
package resolver

import (
	"context"
	"strings"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DependencyResolver = (*Resolver)(nil)

// Resolver implements ports.DependencyResolver on top of a formula store.
type Resolver struct {
	store  ports.FormulaStore
	logger ports.Logger
}

// New creates a new Resolver.
func New(store ports.FormulaStore, logger ports.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve loads every formula reachable from root through dep_pkg edges.
//
// Discovery uses an explicit work stack. A name that is already resolved is
// not loaded again; it is moved to the end of the set's ordering hint.
func (r *Resolver) Resolve(ctx context.Context, root string, platform domain.Platform) (*domain.Resolution, error) {
	if strings.TrimSpace(root) == "" {
		return nil, zerr.Wrap(domain.ErrArgument, "package name must not be empty")
	}

	set := domain.NewPackageSet()
	stack := []string{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := set.Get(name); ok {
			set.Touch(name)
			continue
		}

		f, err := r.store.Load(ctx, name, platform)
		if err != nil {
			return nil, err
		}
		set.Add(f)
		r.logger.Debug("resolved " + name)

		for _, dep := range f.DepPkg {
			if dep == f.Name {
				return nil, zerr.With(zerr.Wrap(domain.ErrSelfDependency, "dep_pkg lists the package itself"), "package", name)
			}
			stack = append(stack, dep)
		}
	}

	order, err := installOrder(set, root)
	if err != nil {
		return nil, err
	}

	closures := make(map[string][]string, len(order))
	for _, name := range order {
		closures[name] = Closure(set, name)
	}

	return &domain.Resolution{
		Root:     root,
		Set:      set,
		Order:    order,
		Closures: closures,
	}, nil
}

const (
	unvisited = iota
	visiting
	visited
)

type frame struct {
	name string
	next int
}

// installOrder returns a post-order walk from root so that every package
// follows all of its dependencies. A back edge is a dependency cycle.
func installOrder(set *domain.PackageSet, root string) ([]string, error) {
	state := make(map[string]int, set.Len())
	order := make([]string, 0, set.Len())

	state[root] = visiting
	stack := []frame{{name: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		f, _ := set.Get(top.name)

		if top.next < len(f.DepPkg) {
			dep := f.DepPkg[top.next]
			top.next++

			switch state[dep] {
			case visiting:
				return nil, cycleError(stack, dep)
			case unvisited:
				state[dep] = visiting
				stack = append(stack, frame{name: dep})
			}
			continue
		}

		state[top.name] = visited
		order = append(order, top.name)
		stack = stack[:len(stack)-1]
	}
	return order, nil
}

func cycleError(stack []frame, dep string) error {
	start := 0
	for i, fr := range stack {
		if fr.name == dep {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, fr := range stack[start:] {
		path = append(path, fr.name)
	}
	path = append(path, dep)
	return zerr.With(zerr.Wrap(domain.ErrDependencyCycle, "dependency cycle"), "cycle", strings.Join(path, " -> "))
}

// Closure returns every transitive dependency of name, deduplicated, in
// order of discovery. Names missing from set contribute no further edges.
func Closure(set *domain.PackageSet, name string) []string {
	f, ok := set.Get(name)
	if !ok {
		return nil
	}

	seen := domain.NewOrderedSet()
	stack := pushReversed(nil, f.DepPkg)
	for len(stack) > 0 {
		dep := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if dep == name || !seen.Add(dep) {
			continue
		}
		if df, ok := set.Get(dep); ok {
			stack = pushReversed(stack, df.DepPkg)
		}
	}
	return seen.Slice()
}

func pushReversed(stack, names []string) []string {
	for i := len(names) - 1; i >= 0; i-- {
		stack = append(stack, names[i])
	}
	return stack
}
