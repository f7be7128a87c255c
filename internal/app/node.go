package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xcpkg/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/xcpkg/internal/adapters/formula"            //nolint:depguard // Wired in app layer
	"go.trai.ch/xcpkg/internal/adapters/git"                //nolint:depguard // Wired in app layer
	"go.trai.ch/xcpkg/internal/adapters/lock"               //nolint:depguard // Wired in app layer
	"go.trai.ch/xcpkg/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/xcpkg/internal/adapters/sysinfo"            //nolint:depguard // Wired in app layer
	"go.trai.ch/xcpkg/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/engine/native"
	"go.trai.ch/xcpkg/internal/engine/pipeline"
	"go.trai.ch/xcpkg/internal/engine/planner"
	"go.trai.ch/xcpkg/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			resolver.NodeID,
			planner.NodeID,
			pipeline.NodeID,
			native.NodeID,
			formula.NodeID,
			git.NodeID,
			lock.NodeID,
			sysinfo.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	res, err := graft.Dep[ports.DependencyResolver](ctx)
	if err != nil {
		return nil, err
	}
	plan, err := graft.Dep[*planner.Planner](ctx)
	if err != nil {
		return nil, err
	}
	builder, err := graft.Dep[ports.PackageBuilder](ctx)
	if err != nil {
		return nil, err
	}
	natives, err := graft.Dep[ports.NativeInstaller](ctx)
	if err != nil {
		return nil, err
	}
	formulas, err := graft.Dep[ports.FormulaStore](ctx)
	if err != nil {
		return nil, err
	}
	vcs, err := graft.Dep[ports.VCS](ctx)
	if err != nil {
		return nil, err
	}
	locker, err := graft.Dep[ports.Locker](ctx)
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
	return New(cfg, res, plan, builder, natives, formulas, vcs, locker, info, telemetry, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
