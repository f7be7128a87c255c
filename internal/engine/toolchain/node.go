package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/sdk"
	"go.trai.ch/xcpkg/internal/adapters/sysinfo"
	"go.trai.ch/xcpkg/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain builder Graft node.
const NodeID graft.ID = "engine.toolchain"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{sdk.NodeID, sysinfo.NodeID},
		Run: func(ctx context.Context) (*Builder, error) {
			locator, err := graft.Dep[ports.SDKLocator](ctx)
			if err != nil {
				return nil, err
			}
			info, err := graft.Dep[ports.SystemInfoProvider](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(locator, info), nil
		},
	})
}
