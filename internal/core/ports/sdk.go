package ports

import "context"

// SDKLocator finds platform SDKs.
//
//go:generate mockgen -source=sdk.go -destination=mocks/mock_sdk.go -package=mocks
type SDKLocator interface {
	// SDKPath returns the sysroot of the lowercased SDK name.
	// It fails with domain.ErrSDKNotFound.
	SDKPath(ctx context.Context, sdk string) (string, error)
}
