// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/xcpkg/internal/adapters/archive"
	_ "go.trai.ch/xcpkg/internal/adapters/cas"
	_ "go.trai.ch/xcpkg/internal/adapters/config"
	_ "go.trai.ch/xcpkg/internal/adapters/fetch"
	_ "go.trai.ch/xcpkg/internal/adapters/formula"
	_ "go.trai.ch/xcpkg/internal/adapters/fs"
	_ "go.trai.ch/xcpkg/internal/adapters/git"
	_ "go.trai.ch/xcpkg/internal/adapters/lock"
	_ "go.trai.ch/xcpkg/internal/adapters/logger"
	_ "go.trai.ch/xcpkg/internal/adapters/sdk"
	_ "go.trai.ch/xcpkg/internal/adapters/shell"
	_ "go.trai.ch/xcpkg/internal/adapters/sysinfo"
	_ "go.trai.ch/xcpkg/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/xcpkg/internal/app"
	_ "go.trai.ch/xcpkg/internal/engine/native"
	_ "go.trai.ch/xcpkg/internal/engine/pipeline"
	_ "go.trai.ch/xcpkg/internal/engine/planner"
	_ "go.trai.ch/xcpkg/internal/engine/resolver"
	_ "go.trai.ch/xcpkg/internal/engine/toolchain"
)
