package formula

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/config"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
)

// NodeID is the unique identifier for the formula store Graft node.
const NodeID graft.ID = "adapter.formula_store"

func init() {
	graft.Register(graft.Node[ports.FormulaStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.FormulaStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg), nil
		},
	})
}
