package ports

// ExtractOptions tunes archive extraction.
type ExtractOptions struct {
	PreserveTimestamps bool
	Verbose            bool
}

// Extractor unpacks archives.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract unpacks archivePath into destDir, dispatching on the file extension.
	// Files that are not archives are copied into destDir.
	Extract(destDir, archivePath string, opts ExtractOptions) error
}
