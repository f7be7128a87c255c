package domain

import "strings"

// Resolution is the outcome of dependency resolution for one root package.
type Resolution struct {
	Root string
	Set  *PackageSet
	// Order lists every package with its dependencies before it.
	Order []string
	// Closures maps each package to its recursive dependent closure.
	Closures map[string][]string
}

// StepAction tells the install loop what to do with a package.
type StepAction int

const (
	// ActionBuild builds and installs the package.
	ActionBuild StepAction = iota
	// ActionSkip leaves an existing installation in place.
	ActionSkip
)

func (a StepAction) String() string {
	if a == ActionSkip {
		return "skip"
	}
	return "build"
}

// Step is one entry of an installation plan.
type Step struct {
	Action  StepAction
	Formula *Formula
	Closure []string
	// InstalledDir is the existing installation of a skipped package.
	InstalledDir string
}

// Repository is a formula repository checked out under the repos directory.
type Repository struct {
	Name   string
	Dir    string
	URL    string
	Branch string
	Pinned bool
}

// EnvName converts a package name to the prefix of its per-dependency variables.
// Letters are upper-cased and every other non-alphanumeric character becomes '_'.
func EnvName(pkg string) string {
	var b strings.Builder
	b.Grow(len(pkg))
	for _, c := range pkg {
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteRune(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
