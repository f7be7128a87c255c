package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/config"
	"go.trai.ch/xcpkg/internal/adapters/fs"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
)

// NodeID is the unique identifier for the installed store Graft node.
const NodeID graft.ID = "adapter.installed_store"

func init() {
	graft.Register(graft.Node[ports.InstalledStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.InstalledStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.Layout, hasher), nil
		},
	})
}
