package domain

import "path/filepath"

const (
	// HomeDirName is the default home directory name under the user's home.
	HomeDirName = ".xcpkg"

	// MetaDirName is the metadata directory inside an installed package.
	MetaDirName = ".xcpkg"

	// ReceiptFileName records the formula and provenance of an installation.
	ReceiptFileName = "receipt.txt"

	// ManifestFileName lists every installed path.
	ManifestFileName = "MANIFEST"

	// ConfigScriptName is the generated build configuration sourced by the runner.
	ConfigScriptName = "xcpkg-config.sh"

	// RunnerScriptName is the phase runner installed into the core directory.
	RunnerScriptName = "xcpkg-runner.sh"

	// EnvFileName is the optional settings file read from the home directory.
	EnvFileName = "xcpkg.env"

	// RepoConfigFileName describes a formula repository.
	RepoConfigFileName = "repo.yml"

	// LockFileName is the advisory lock file of a shared directory.
	LockFileName = ".lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout holds the on-disk locations used by xcpkg.
type Layout struct {
	Home      string
	Core      string
	Downloads string
	Installed string
	Native    string
	Repos     string
	Run       string
}

// NewLayout derives every location from the home directory.
func NewLayout(home string) Layout {
	return Layout{
		Home:      home,
		Core:      filepath.Join(home, "core"),
		Downloads: filepath.Join(home, "downloads"),
		Installed: filepath.Join(home, "installed"),
		Native:    filepath.Join(home, "native"),
		Repos:     filepath.Join(home, "repos.d"),
		Run:       filepath.Join(home, "run"),
	}
}

// InstalledRoot is the directory holding every package installed for a platform.
func (l Layout) InstalledRoot(p Platform) string {
	return filepath.Join(l.Installed, p.String())
}

// InstalledLink is the stable symlink of a package installed for a platform.
func (l Layout) InstalledLink(p Platform, name string) string {
	return filepath.Join(l.InstalledRoot(p), name)
}

// NativeLink is the stable symlink of a native package.
func (l Layout) NativeLink(name string) string {
	return filepath.Join(l.Native, name)
}

// SessionDir is the scratch directory of one invocation.
func (l Layout) SessionDir(id string) string {
	return filepath.Join(l.Run, id)
}

// RunnerScript is the path of the installed phase runner.
func (l Layout) RunnerScript() string {
	return filepath.Join(l.Core, RunnerScriptName)
}

// MetaDir returns the metadata directory of an installed package directory.
func MetaDir(installDir string) string {
	return filepath.Join(installDir, MetaDirName)
}

// Config is the resolved runtime configuration.
type Config struct {
	Layout Layout
	// Jobs is the default build parallelism, 0 selects the CPU count.
	Jobs int
	// FormulaRepos restricts formula lookups to these repository names when non-empty.
	FormulaRepos []string
}
