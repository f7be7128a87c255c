// Package sysinfo describes the build machine.
package sysinfo

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

var _ ports.SystemInfoProvider = (*Provider)(nil)

// Provider reads the machine description once and serves the cached snapshot afterwards.
type Provider struct {
	once sync.Once
	info domain.SystemInfo
	err  error
}

// NewProvider creates a new Provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Snapshot returns the machine description.
func (p *Provider) Snapshot() (domain.SystemInfo, error) {
	p.once.Do(func() {
		p.info, p.err = read()
	})
	return p.info, p.err
}

func read() (domain.SystemInfo, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return domain.SystemInfo{}, zerr.Wrap(err, "uname failed")
	}

	return domain.SystemInfo{
		OS:        runtime.GOOS,
		Arch:      domain.NormalizeArch(cString(uts.Machine[:])),
		OSVersion: cString(uts.Release[:]),
		NCPU:      runtime.NumCPU(),
		UID:       os.Geteuid(),
		GID:       os.Getegid(),
	}, nil
}

func cString(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s
}
