package ports

import "context"

// GitSyncRequest describes the checkout to produce.
type GitSyncRequest struct {
	Dir string
	URL string
	Ref string
	// Commit pins the checkout. It is fetched directly and, when the server
	// refuses unadvertised objects, from the full history of Ref.
	Commit string
	// FallbackRef is fetched when Ref is empty.
	FallbackRef string
	// FallbackBranch is the local branch the checkout is placed on.
	FallbackBranch string
	// Depth limits history; 0 fetches everything.
	Depth int
}

// VCS synchronizes git checkouts.
//
//go:generate mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type VCS interface {
	Sync(ctx context.Context, req GitSyncRequest) error
}
