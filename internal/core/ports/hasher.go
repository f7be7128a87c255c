package ports

// Hasher computes content digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the hex sha256 of the file content.
	HashFile(path string) (string, error)
	// HashString returns a 64 character hex digest of s.
	HashString(s string) string
}
