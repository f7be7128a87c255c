package ports

import (
	"context"

	"go.trai.ch/xcpkg/internal/core/domain"
)

// Downloader fetches and verifies remote archives.
//
//go:generate mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks
type Downloader interface {
	// Fetch downloads res into destDir and returns the local path.
	//
	// The content is verified against res.SHA before it is moved to its final
	// name. On mismatch no file is left at the final path and the error is
	// domain.ErrChecksumMismatch.
	Fetch(ctx context.Context, res domain.Resource, destDir string) (string, error)
}
