package native

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/archive"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/fetch"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/lock"               //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/engine/toolchain"
)

// NodeID is the unique identifier for the native installer Graft node.
const NodeID graft.ID = "engine.native"

func init() {
	graft.Register(graft.Node[ports.NativeInstaller]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cas.NodeID,
			lock.NodeID,
			fetch.NodeID,
			archive.NodeID,
			shell.NodeID,
			toolchain.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.NativeInstaller, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.InstalledStore](ctx)
			if err != nil {
				return nil, err
			}
			locker, err := graft.Dep[ports.Locker](ctx)
			if err != nil {
				return nil, err
			}
			downloader, err := graft.Dep[ports.Downloader](ctx)
			if err != nil {
				return nil, err
			}
			extractor, err := graft.Dep[ports.Extractor](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			contexts, err := graft.Dep[*toolchain.Builder](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInstaller(cfg, DefaultCatalog(), store, locker, downloader, extractor, executor, contexts, telemetry, log), nil
		},
	})
}
