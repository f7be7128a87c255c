package sdk

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/shell"
	"go.trai.ch/xcpkg/internal/core/ports"
)

// NodeID is the unique identifier for the SDK locator Graft node.
const NodeID graft.ID = "adapter.sdk"

func init() {
	graft.Register(graft.Node[ports.SDKLocator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.SDKLocator, error) {
			exec, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocator(exec), nil
		},
	})
}
