// Package fs provides content hashing over the local filesystem.
package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"lukechampine.com/blake3"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher verifies downloads with sha256 and derives identifiers with blake3.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile returns the hex sha256 of a file's content.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", domain.IOError("failed to open file", path, err)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := sha256.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", domain.IOError("failed to hash file content", path, err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}

// HashString returns the hex blake3-256 of s.
func (h *Hasher) HashString(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
