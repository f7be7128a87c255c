package ports

import "go.trai.ch/xcpkg/internal/core/domain"

// SystemInfoProvider describes the build machine.
//
//go:generate mockgen -source=sysinfo.go -destination=mocks/mock_sysinfo.go -package=mocks
type SystemInfoProvider interface {
	Snapshot() (domain.SystemInfo, error)
}
