package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// LocalDirPrefix marks a src URL that points at a directory on the build machine.
const LocalDirPrefix = "dir://"

// Resource is a downloadable archive referenced by a formula.
type Resource struct {
	URL string
	// URI is an optional mirror tried when URL fails.
	URI string
	SHA string
}

// IsZero reports whether the resource is unset.
func (r Resource) IsZero() bool {
	return r.URL == ""
}

// IsLocalDir reports whether the resource refers to a local directory.
func (r Resource) IsLocalDir() bool {
	return strings.HasPrefix(r.URL, LocalDirPrefix)
}

// LocalPath returns the directory path of a dir:// resource.
func (r Resource) LocalPath() string {
	return strings.TrimPrefix(r.URL, LocalDirPrefix)
}

// GitSource describes a git checkout.
type GitSource struct {
	URL   string
	Ref   string
	SHA   string
	Depth int
}

// BuildSystems holds the non-exclusive build system selectors of a formula.
type BuildSystems struct {
	CMake     bool
	Configure bool
	Meson     bool
	Ninja     bool
	Cargo     bool
	Golang    bool
	GN        bool
	XMake     bool
	GMake     bool
	Autogen   bool
	Autotools bool
}

// Names returns the enabled build systems in a stable order.
func (b BuildSystems) Names() []string {
	var names []string
	for _, entry := range []struct {
		on   bool
		name string
	}{
		{b.Autogen, "autogen"},
		{b.Autotools, "autotools"},
		{b.Configure, "configure"},
		{b.CMake, "cmake"},
		{b.Meson, "meson"},
		{b.Ninja, "ninja"},
		{b.GMake, "gmake"},
		{b.XMake, "xmake"},
		{b.GN, "gn"},
		{b.Cargo, "cargo"},
		{b.Golang, "go"},
	} {
		if entry.on {
			names = append(names, entry.name)
		}
	}
	return names
}

// ParseBuildSystems reads a whitespace separated bsystem field.
func ParseBuildSystems(field string) BuildSystems {
	var b BuildSystems
	for _, token := range strings.Fields(field) {
		b.enable(token)
	}
	return b
}

// InferBuildSystems derives build systems from helper invocations in an install body.
func InferBuildSystems(install string) BuildSystems {
	var b BuildSystems
	for _, line := range strings.Split(install, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "cmakew":
			b.CMake = true
		case "configure":
			b.Configure = true
		case "mesonw":
			b.Meson = true
			b.Ninja = true
		case "ninjaw":
			b.Ninja = true
		case "cargow":
			b.Cargo = true
		case "gow":
			b.Golang = true
		case "xmakew":
			b.XMake = true
		case "gmakew":
			b.GMake = true
		case "gnw":
			b.GN = true
			b.Ninja = true
		}
	}
	return b
}

func (b *BuildSystems) enable(token string) {
	switch token {
	case "cmake", "cmake+gmake":
		b.CMake = true
	case "cmake+ninja":
		b.CMake = true
		b.Ninja = true
	case "configure":
		b.Configure = true
	case "autogen":
		b.Autogen = true
		b.Configure = true
	case "autotools":
		b.Autotools = true
		b.Configure = true
	case "meson":
		b.Meson = true
		b.Ninja = true
	case "ninja":
		b.Ninja = true
	case "cargo":
		b.Cargo = true
	case "go", "golang":
		b.Golang = true
	case "gn":
		b.GN = true
		b.Ninja = true
	case "xmake":
		b.XMake = true
	case "gmake", "make":
		b.GMake = true
	}
}

// Formula is the recipe for one package on one target platform.
type Formula struct {
	Name    string
	Version string
	Summary string
	License string
	WebURL  string

	Git GitSource
	Src Resource
	Fix Resource
	Res Resource

	DepPkg []string
	DepUpp []string
	DepPym []string
	DepPlm []string

	BuildSystems     BuildSystems
	BuildInSourceDir bool
	Parallel         bool

	CCFlags string
	XXFlags string
	PPFlags string
	LDFlags string

	DoFetch string
	Do12345 string
	DoPatch string
	Prepare string
	Install string
	DoTweak string

	// Path is the file the formula was read from.
	Path string
	// Raw is the unmodified formula text.
	Raw string
}

var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9+._@-]+$`)

// ValidPackageName reports whether name can be used as a package name.
func ValidPackageName(name string) bool {
	return packageNamePattern.MatchString(name)
}

// Validate checks the invariants a formula must satisfy before it can be built.
func (f *Formula) Validate() error {
	if !ValidPackageName(f.Name) {
		return zerr.With(zerr.Wrap(ErrFormulaInvalid, "package name contains invalid characters"), "package", f.Name)
	}
	if f.Src.IsZero() && f.Git.URL == "" && f.DoFetch == "" {
		return zerr.With(zerr.Wrap(ErrFormulaInvalid, "one of git_url, src_url or dofetch is required"), "package", f.Name)
	}
	if !f.Src.IsZero() && !f.Src.IsLocalDir() && f.Src.SHA == "" {
		return zerr.With(zerr.Wrap(ErrFormulaInvalid, "src_sha is required when src_url is set"), "package", f.Name)
	}
	for field, res := range map[string]Resource{"fix": f.Fix, "res": f.Res} {
		if !res.IsZero() && res.SHA == "" {
			return zerr.With(zerr.Wrap(ErrFormulaInvalid, field+"_sha is required when "+field+"_url is set"), "package", f.Name)
		}
	}
	for _, sha := range []string{f.Src.SHA, f.Fix.SHA, f.Res.SHA} {
		if sha != "" && !isSHA256(sha) {
			return zerr.With(zerr.With(zerr.Wrap(ErrFormulaInvalid, "sha256 must be 64 hex characters"), "package", f.Name), "sha", sha)
		}
	}
	if strings.TrimSpace(f.Install) == "" && strings.TrimSpace(f.DoFetch) == "" {
		return zerr.With(zerr.Wrap(ErrFormulaInvalid, "install is required unless dofetch provides the package"), "package", f.Name)
	}
	return nil
}

func isSHA256(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

// ParseList splits a whitespace separated dependency field.
func ParseList(field string) []string {
	return strings.Fields(field)
}
