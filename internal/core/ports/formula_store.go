package ports

import (
	"context"

	"go.trai.ch/xcpkg/internal/core/domain"
)

// FormulaStore loads package formulas from the configured repositories.
//
//go:generate mockgen -source=formula_store.go -destination=mocks/mock_formula_store.go -package=mocks
type FormulaStore interface {
	// Load returns the formula of name for the platform.
	// It fails with domain.ErrFormulaNotFound or domain.ErrFormulaInvalid.
	Load(ctx context.Context, name string, platform domain.Platform) (*domain.Formula, error)

	// Repositories lists the formula repositories in lookup order.
	Repositories() ([]domain.Repository, error)
}
