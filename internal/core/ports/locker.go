package ports

// Lock is a held advisory lock.
type Lock interface {
	Unlock() error
}

// Locker takes exclusive advisory file locks.
//
//go:generate mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks
type Locker interface {
	// Lock blocks until the lock on path is held. The file is created if missing.
	Lock(path string) (Lock, error)
}
