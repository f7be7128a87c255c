package domain

// NativeBuildSystem selects how a native package is built.
type NativeBuildSystem int

const (
	// NativeConfigure runs ./configure, make and make install.
	NativeConfigure NativeBuildSystem = iota
	// NativeCMake runs a cmake configure, build and install.
	NativeCMake
	// NativePerlMakefile runs perl Makefile.PL, make and make install.
	NativePerlMakefile
)

func (b NativeBuildSystem) String() string {
	switch b {
	case NativeCMake:
		return "cmake"
	case NativePerlMakefile:
		return "perl-makefile"
	default:
		return "configure"
	}
}

// NativeBuild is the input of a NativeSteps hook.
type NativeBuild struct {
	Prefix string
	Jobs   int
	// DepDirs maps each native dependency to its installed directory.
	DepDirs map[string]string
}

// NativeSteps produces the command lines that build and install a native package.
type NativeSteps func(b NativeBuild) [][]string

// NativePackage describes a build-machine tool compiled from source once per machine.
type NativePackage struct {
	Name          string
	URL           string
	SHA           string
	Deps          []string
	BuildSystem   NativeBuildSystem
	ConfigureArgs []string
	// Override replaces the generic build steps when set.
	Override NativeSteps
}

// Resource returns the source archive of the package.
func (n NativePackage) Resource() Resource {
	return Resource{URL: n.URL, SHA: n.SHA}
}
