package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrArgument is returned when a required input is empty or malformed.
	ErrArgument = zerr.New("invalid argument")

	// ErrInvalidPlatform is returned when a target specification is not of the form <os>-<version>-<arch>.
	ErrInvalidPlatform = zerr.New("invalid target platform, expected <os>-<version>-<arch>")

	// ErrUnknownNativePackage is returned when a native package is not present in the catalog.
	ErrUnknownNativePackage = zerr.New("unknown native package")

	// ErrFormulaNotFound is returned when no repository provides a formula for a package.
	ErrFormulaNotFound = zerr.New("formula not found")

	// ErrFormulaInvalid is returned when a formula file cannot be parsed or fails validation.
	ErrFormulaInvalid = zerr.New("invalid formula")

	// ErrSelfDependency is returned when a package lists itself in dep_pkg.
	ErrSelfDependency = zerr.New("package depends on itself")

	// ErrDependencyCycle is returned when a package transitively depends on itself.
	ErrDependencyCycle = zerr.New("package already depends on itself")

	// ErrEnvironment is returned when a required environment variable or tool is missing.
	ErrEnvironment = zerr.New("environment is not usable")

	// ErrNativeToolMissing is returned when a native tool is neither in the catalog nor on PATH.
	ErrNativeToolMissing = zerr.New("native tool not found")

	// ErrSDKNotFound is returned when the platform SDK cannot be located.
	ErrSDKNotFound = zerr.New("sdk not found")

	// ErrIO is returned when a filesystem operation fails.
	ErrIO = zerr.New("filesystem operation failed")

	// ErrLockFailed is returned when an advisory lock cannot be acquired.
	ErrLockFailed = zerr.New("failed to acquire lock")

	// ErrChecksumMismatch is returned when downloaded content does not match the declared sha256.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrNetwork is returned when a resource cannot be downloaded from any of its locations.
	ErrNetwork = zerr.New("download failed")

	// ErrArchive is returned when an archive cannot be extracted.
	ErrArchive = zerr.New("archive extraction failed")

	// ErrGit is returned when a git checkout cannot be synchronized.
	ErrGit = zerr.New("git sync failed")

	// ErrProcess is returned when a subprocess exits non-zero, is signaled or is stopped.
	ErrProcess = zerr.New("process failed")

	// ErrMemory is returned when a buffer cannot grow any further.
	ErrMemory = zerr.New("out of memory")

	// ErrInstallFailed is returned by the install loop when a package could not be installed.
	ErrInstallFailed = zerr.New("installation failed")
)

// Kind classifies an error for reporting.
type Kind int

const (
	// KindUnknown is used for errors that carry none of the domain sentinels.
	KindUnknown Kind = iota
	KindArgument
	KindFormula
	KindEnvironment
	KindIO
	KindChecksum
	KindNetwork
	KindArchive
	KindProcess
	KindMemory
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindArgument:    "argument",
	KindFormula:     "formula",
	KindEnvironment: "environment",
	KindIO:          "io",
	KindChecksum:    "checksum",
	KindNetwork:     "network",
	KindArchive:     "archive",
	KindProcess:     "process",
	KindMemory:      "memory",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// kindTable is checked in order; more specific sentinels come first.
var kindTable = []struct {
	err  error
	kind Kind
}{
	{ErrChecksumMismatch, KindChecksum},
	{ErrNetwork, KindNetwork},
	{ErrArchive, KindArchive},
	{ErrProcess, KindProcess},
	{ErrGit, KindProcess},
	{ErrMemory, KindMemory},
	{ErrFormulaNotFound, KindFormula},
	{ErrFormulaInvalid, KindFormula},
	{ErrSelfDependency, KindFormula},
	{ErrDependencyCycle, KindFormula},
	{ErrEnvironment, KindEnvironment},
	{ErrNativeToolMissing, KindEnvironment},
	{ErrSDKNotFound, KindEnvironment},
	{ErrArgument, KindArgument},
	{ErrInvalidPlatform, KindArgument},
	{ErrUnknownNativePackage, KindArgument},
	{ErrIO, KindIO},
	{ErrLockFailed, KindIO},
}

// KindOf reports the kind of the first domain sentinel found in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	return KindUnknown
}

// IOError builds an ErrIO-class error for a failed filesystem operation.
// Both ErrIO and the underlying OS error remain reachable through errors.Is.
func IOError(op, path string, err error) error {
	return zerr.With(zerr.Wrap(errors.Join(ErrIO, err), op), "path", path)
}

// ArchiveErrorOffset separates archive failure codes from process exit codes.
const ArchiveErrorOffset = 70

// ArchiveError builds an ErrArchive-class error. The code is reported with ArchiveErrorOffset added.
func ArchiveError(archive string, code int, err error) error {
	wrapped := zerr.Wrap(errors.Join(ErrArchive, err), "failed to extract archive")
	wrapped = zerr.With(wrapped, "archive", archive)
	return zerr.With(wrapped, "code", ArchiveErrorOffset+code)
}
