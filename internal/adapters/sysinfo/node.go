package sysinfo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/core/ports"
)

// NodeID is the unique identifier for the system info Graft node.
const NodeID graft.ID = "adapter.sysinfo"

func init() {
	graft.Register(graft.Node[ports.SystemInfoProvider]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SystemInfoProvider, error) {
			return NewProvider(), nil
		},
	})
}
