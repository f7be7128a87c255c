package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/archive"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/fetch"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/git"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/sysinfo"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xcpkg/internal/build"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/engine/native"
	"go.trai.ch/xcpkg/internal/engine/toolchain"
)

// NodeID is the unique identifier for the pipeline driver Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[ports.PackageBuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cas.NodeID,
			fetch.NodeID,
			archive.NodeID,
			git.NodeID,
			shell.NodeID,
			native.NodeID,
			toolchain.NodeID,
			sysinfo.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (ports.PackageBuilder, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.InstalledStore](ctx)
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
	vcs, err := graft.Dep[ports.VCS](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}
	natives, err := graft.Dep[ports.NativeInstaller](ctx)
	if err != nil {
		return nil, err
	}
	contexts, err := graft.Dep[*toolchain.Builder](ctx)
	if err != nil {
		return nil, err
	}
	info, err := graft.Dep[ports.SystemInfoProvider](ctx)
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

	return New(
		cfg.Layout, "xcpkg "+build.Version,
		store, downloader, extractor, vcs, executor, natives, contexts,
		info, telemetry, log,
	), nil
}
