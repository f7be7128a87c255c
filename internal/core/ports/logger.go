package ports

import "go.trai.ch/xcpkg/internal/core/domain"

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// SetVerbosity changes which levels are emitted.
	SetVerbosity(v domain.Verbosity)
}
