package fetch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/fs"
	"go.trai.ch/xcpkg/internal/adapters/lock"
	"go.trai.ch/xcpkg/internal/adapters/logger"
	"go.trai.ch/xcpkg/internal/core/ports"
)

// NodeID is the unique identifier for the downloader Graft node.
const NodeID graft.ID = "adapter.downloader"

func init() {
	graft.Register(graft.Node[ports.Downloader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{lock.NodeID, fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Downloader, error) {
			locker, err := graft.Dep[ports.Locker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDownloader(locker, hasher, log), nil
		},
	})
}
