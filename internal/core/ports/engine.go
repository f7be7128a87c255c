package ports

import (
	"context"

	"go.trai.ch/xcpkg/internal/core/domain"
)

// DependencyResolver expands a root package into its resolved dependency set.
//
//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type DependencyResolver interface {
	Resolve(ctx context.Context, root string, platform domain.Platform) (*domain.Resolution, error)
}

// PackageBuilder drives one package through the build pipeline.
type PackageBuilder interface {
	Build(ctx context.Context, req domain.BuildRequest) error
}

// NativeInstaller makes native build tools available.
type NativeInstaller interface {
	// Ensure installs the named tools and their native dependencies when
	// missing and returns the directories to add to the search paths.
	Ensure(ctx context.Context, sessionDir string, names []string) ([]string, error)
}
