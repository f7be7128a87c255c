package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/xcpkg/internal/core/domain"
)

func TestArchiveExt(t *testing.T) {
	tests := map[string]string{
		"https://zlib.net/zlib-1.3.1.tar.gz":                      ".tgz",
		"libpng-1.6.43.TAR.XZ":                                    ".txz",
		"https://download.savannah.gnu.org/x/lzip-1.24.tar.lz":    ".tlz",
		"https://x/bzip2-1.0.8.tar.bz2":                           ".tbz2",
		"https://x/pkg.tbz":                                       ".tbz2",
		"https://x/zstd-1.5.5.tar.zst":                            ".tzst",
		"https://static.crates.io/crates/libc/libc-0.2.153.crate": ".crate",
		"https://x/archive.zip?download=1":                        ".zip",
		"https://x/source.tar#fragment":                           ".tar",
		"https://x/fix-build.diff":                                ".diff",
		"https://x/noext":                                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.ArchiveExt(in), in)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "z.tgz", domain.FileName("https://x/y/z.tgz?a=b"))
	assert.Equal(t, "z.tgz", domain.FileName("/y/z.tgz"))
}

func TestParseProfile(t *testing.T) {
	p, err := domain.ParseProfile("DEBUG")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProfileDebug, p)
	assert.Equal(t, "Debug", p.CMakeBuildType())

	p, err = domain.ParseProfile("")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProfileRelease, p)
	assert.Equal(t, "Release", p.CMakeBuildType())

	_, err = domain.ParseProfile("fast")
	assert.ErrorIs(t, err, domain.ErrArgument)
}

func TestNativeBuildSystem_String(t *testing.T) {
	assert.Equal(t, "configure", domain.NativeConfigure.String())
	assert.Equal(t, "cmake", domain.NativeCMake.String())
	assert.Equal(t, "perl-makefile", domain.NativePerlMakefile.String())
}
