package native

import (
	"strconv"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Catalog is a fixed set of native packages addressed by name.
type Catalog map[string]domain.NativePackage

// NewCatalog indexes pkgs by name.
func NewCatalog(pkgs ...domain.NativePackage) Catalog {
	c := make(Catalog, len(pkgs))
	for _, p := range pkgs {
		c[p.Name] = p
	}
	return c
}

// catalogAliases map dep_upp spellings onto catalog entries.
var catalogAliases = map[string]string{
	"pkg-config":  "pkgconf",
	"XML-Parser":  "perl-XML-Parser",
	"libopenssl":  "openssl",
	"gm4":         "m4",
	"glibtool":    "libtool",
	"glibtoolize": "libtool",
}

// binaryAliases map dep_upp spellings onto executables searched on PATH.
var binaryAliases = map[string]string{
	"gmake":  "make",
	"gsed":   "sed",
	"gtar":   "tar",
	"golang": "go",
	"rust":   "cargo",
	"python": "python3",
}

// DefaultCatalog returns the tools xcpkg knows how to build for the build machine.
//
// TODO: re-check the sha256 values against the upstream release signatures
// whenever a version below is bumped.
func DefaultCatalog() Catalog {
	return NewCatalog(
		domain.NativePackage{
			Name: "m4",
			URL:  "https://ftp.gnu.org/gnu/m4/m4-1.4.19.tar.xz",
			SHA:  "63aede5c6d33b6d9b13511cd0be2cac046f2e70fd0a07aa9573a04a82783af96",
		},
		domain.NativePackage{
			Name: "autoconf",
			URL:  "https://ftp.gnu.org/gnu/autoconf/autoconf-2.72.tar.xz",
			SHA:  "ba885c1319578d6c94d46e9b0dceb4014caafe2490e437a0dbca3f270a223f5a",
			Deps: []string{"m4"},
		},
		domain.NativePackage{
			Name: "automake",
			URL:  "https://ftp.gnu.org/gnu/automake/automake-1.16.5.tar.xz",
			SHA:  "f01d58cd6d9d77fbdca9eb4bbd5ead1988228fdb73d6f7a201f5f8d6b118b469",
			Deps: []string{"autoconf"},
		},
		domain.NativePackage{
			Name:          "libtool",
			URL:           "https://ftp.gnu.org/gnu/libtool/libtool-2.4.7.tar.xz",
			SHA:           "4f7f217f057ce655ff22559ad221a0fd8ef84ad1fc5fcb6990cecc333aa1635d",
			Deps:          []string{"m4"},
			ConfigureArgs: []string{"--enable-ltdl-install"},
		},
		domain.NativePackage{
			Name:          "texinfo",
			URL:           "https://ftp.gnu.org/gnu/texinfo/texinfo-7.1.tar.xz",
			SHA:           "deeec9f19f159e046fdf8ad22231981806dac332cc372f1c763504ad82b30953",
			ConfigureArgs: []string{"--disable-nls"},
		},
		domain.NativePackage{
			Name: "help2man",
			URL:  "https://ftp.gnu.org/gnu/help2man/help2man-1.49.3.tar.xz",
			SHA:  "4d7e4fdef2eca6afe07a2682151cea78781e0a4e8f9622142d9f70c083a2fd4f",
		},
		domain.NativePackage{
			Name:          "expat",
			URL:           "https://github.com/libexpat/libexpat/releases/download/R_2_6_2/expat-2.6.2.tar.xz",
			SHA:           "ee14b4c5d8908b1bec37ad937607eab183d4d9806a08adee472c3c3121d27364",
			BuildSystem:   domain.NativeCMake,
			ConfigureArgs: []string{"-DEXPAT_BUILD_DOCS=OFF", "-DEXPAT_BUILD_TESTS=OFF", "-DEXPAT_BUILD_EXAMPLES=OFF", "-DEXPAT_SHARED_LIBS=OFF"},
		},
		domain.NativePackage{
			Name:        "perl-XML-Parser",
			URL:         "https://cpan.metacpan.org/authors/id/T/TO/TODDR/XML-Parser-2.46.tar.gz",
			SHA:         "d331332491c51cccfb4cb94ffc44f9cd73378e618498d4a37df9e043661c515d",
			Deps:        []string{"expat"},
			BuildSystem: domain.NativePerlMakefile,
			Override:    xmlParserSteps,
		},
		domain.NativePackage{
			Name: "intltool",
			URL:  "https://launchpad.net/intltool/trunk/0.51.0/+download/intltool-0.51.0.tar.gz",
			SHA:  "67c74d94196b153b774ab9f89b2fa6c6ba79352407037c8c14d5aeb334e959cd",
			Deps: []string{"perl-XML-Parser"},
		},
		domain.NativePackage{
			Name:          "pkgconf",
			URL:           "https://distfiles.ariadne.space/pkgconf/pkgconf-2.1.0.tar.xz",
			SHA:           "266d5861ee51c52bc710293a1d36622ae16d048d71ec56034a02eb9cf9677761",
			ConfigureArgs: []string{"--with-internal-pkgconfig-dir", "--disable-shared"},
		},
		domain.NativePackage{
			Name:     "openssl",
			URL:      "https://www.openssl.org/source/openssl-3.2.1.tar.gz",
			SHA:      "83c7329fe52c850677d75e5d0b0ca245309b97e8ecbcfdc1dfdc4ab9fac35b39",
			Override: opensslSteps,
		},
	)
}

func xmlParserSteps(b domain.NativeBuild) [][]string {
	expat := b.DepDirs["expat"]
	return [][]string{
		{
			"perl", "Makefile.PL",
			"INSTALL_BASE=" + b.Prefix,
			"EXPATLIBPATH=" + expat + "/lib",
			"EXPATINCPATH=" + expat + "/include",
		},
		{"make", "-j" + strconv.Itoa(b.Jobs)},
		{"make", "install"},
	}
}

func opensslSteps(b domain.NativeBuild) [][]string {
	return [][]string{
		{"./config", "--prefix=" + b.Prefix, "--openssldir=" + b.Prefix + "/etc/ssl", "--libdir=lib", "no-shared", "no-tests"},
		{"make", "-j" + strconv.Itoa(b.Jobs)},
		{"make", "install_sw"},
	}
}

// Steps returns the command lines that build pkg and install it into b.Prefix.
func Steps(pkg domain.NativePackage, b domain.NativeBuild) [][]string {
	if pkg.Override != nil {
		return pkg.Override(b)
	}
	jobs := strconv.Itoa(b.Jobs)

	switch pkg.BuildSystem {
	case domain.NativeCMake:
		configure := []string{
			"cmake", "-S", ".", "-B", "_build",
			"-DCMAKE_INSTALL_PREFIX=" + b.Prefix,
			"-DCMAKE_INSTALL_LIBDIR=lib",
			"-DCMAKE_BUILD_TYPE=Release",
		}
		return [][]string{
			append(configure, pkg.ConfigureArgs...),
			{"cmake", "--build", "_build", "--parallel", jobs},
			{"cmake", "--install", "_build"},
		}
	case domain.NativePerlMakefile:
		return [][]string{
			append([]string{"perl", "Makefile.PL", "INSTALL_BASE=" + b.Prefix}, pkg.ConfigureArgs...),
			{"make", "-j" + jobs},
			{"make", "install"},
		}
	default:
		return [][]string{
			append([]string{"./configure", "--prefix=" + b.Prefix}, pkg.ConfigureArgs...),
			{"make", "-j" + jobs},
			{"make", "install"},
		}
	}
}

// Expand returns the packages named by ids together with their native
// dependencies, each dependency before its dependents and every package once.
func (c Catalog) Expand(ids []string) ([]domain.NativePackage, error) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(c))
	var order []domain.NativePackage

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return zerr.With(zerr.Wrap(domain.ErrDependencyCycle, "native package depends on itself"), "package", id)
		}
		pkg, ok := c[id]
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrUnknownNativePackage, "not in the native catalog"), "package", id)
		}
		state[id] = visiting
		for _, dep := range pkg.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[id] = done
		order = append(order, pkg)
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}
