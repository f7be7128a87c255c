package ports

import "go.trai.ch/xcpkg/internal/core/domain"

// InstalledStore manages content-addressed installation directories.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type InstalledStore interface {
	// NewID returns a fresh content-addressed directory name for name.
	NewID(name string) string

	// Lookup resolves the stable symlink of an installed package. It reports
	// false unless the link points at a directory holding a receipt.
	Lookup(platform domain.Platform, name string) (string, bool)

	// Publish points link at target, replacing whatever exists at link.
	Publish(link, target string) error

	// WriteReceipt writes the receipt into the metadata directory of installDir.
	WriteReceipt(installDir string, receipt domain.Receipt) error

	// WriteManifest records every path below installDir into its metadata directory.
	WriteManifest(installDir string) error

	// NativeReceipt returns the recorded source sha and directory of a native package.
	NativeReceipt(name string) (sha, dir string, ok bool)

	// WriteNativeReceipt records the source sha of a native package installed at dir.
	WriteNativeReceipt(dir, sha string) error
}
