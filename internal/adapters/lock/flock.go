// Package lock provides advisory file locks shared between xcpkg processes.
package lock

import (
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

var _ ports.Locker = (*Locker)(nil)

// Locker takes exclusive flock(2) locks.
type Locker struct{}

// NewLocker creates a new Locker.
func NewLocker() *Locker {
	return &Locker{}
}

// Lock blocks until an exclusive lock on path is held.
func (l *Locker) Lock(path string) (ports.Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, domain.IOError("failed to create lock directory", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, domain.FilePerm) //nolint:gosec // lock files live in xcpkg directories
	if err != nil {
		return nil, domain.IOError("failed to open lock file", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrLockFailed, err), "flock failed"), "path", path)
	}

	return &fileLock{f: f}, nil
}

type fileLock struct {
	f *os.File
}

func (l *fileLock) Unlock() error {
	if l.f == nil {
		return nil
	}
	defer func() { l.f = nil }()

	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		_ = l.f.Close()
		return domain.IOError("failed to release lock", l.f.Name(), err)
	}
	return l.f.Close()
}
