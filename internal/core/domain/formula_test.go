package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/xcpkg/internal/core/domain"
)

const sha = "9a93b2b7dfdac77ceba5a558a580e74667dd6fede4585b91eefb60f03b72df23"

func validFormula() *domain.Formula {
	return &domain.Formula{
		Name:    "zlib",
		Version: "1.3.1",
		Src:     domain.Resource{URL: "https://zlib.net/zlib-1.3.1.tar.gz", SHA: sha},
		Install: "cmakew",
	}
}

func TestFormula_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *domain.Formula)
		ok     bool
	}{
		{name: "valid", mutate: func(*domain.Formula) {}, ok: true},
		{name: "git only", mutate: func(f *domain.Formula) {
			f.Src = domain.Resource{}
			f.Git = domain.GitSource{URL: "https://github.com/madler/zlib"}
		}, ok: true},
		{name: "local directory needs no sha", mutate: func(f *domain.Formula) {
			f.Src = domain.Resource{URL: "dir:///src/zlib"}
		}, ok: true},
		{name: "dofetch only", mutate: func(f *domain.Formula) {
			f.Src = domain.Resource{}
			f.DoFetch = "git clone --depth 1 https://example.com/zlib ."
		}, ok: true},
		{name: "bad name", mutate: func(f *domain.Formula) { f.Name = "zlib/../x" }},
		{name: "no source", mutate: func(f *domain.Formula) { f.Src = domain.Resource{} }},
		{name: "missing src sha", mutate: func(f *domain.Formula) { f.Src.SHA = "" }},
		{name: "missing fix sha", mutate: func(f *domain.Formula) { f.Fix = domain.Resource{URL: "https://x/fix.patch"} }},
		{name: "short sha", mutate: func(f *domain.Formula) { f.Src.SHA = "abc" }},
		{name: "upper-case sha", mutate: func(f *domain.Formula) { f.Src.SHA = strings.ToUpper(sha) }},
		{name: "empty install", mutate: func(f *domain.Formula) { f.Install = "  \n" }},
		{name: "dofetch provides the package", mutate: func(f *domain.Formula) {
			f.Install = ""
			f.DoFetch = `curl -fsSL https://example.com/tool.tar.gz | tar xz -C "$PACKAGE_INSTALL_DIR"`
		}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFormula()
			tt.mutate(f)
			err := f.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrFormulaInvalid)
			assert.Equal(t, domain.KindFormula, domain.KindOf(err))
		})
	}
}

func TestValidPackageName(t *testing.T) {
	for _, name := range []string{"zlib", "gtk+3", "libxml2", "c-ares", "python3.12", "foo_bar", "lib@2"} {
		assert.True(t, domain.ValidPackageName(name), name)
	}
	for _, name := range []string{"", "a b", "x/y", "$(rm)", "é"} {
		assert.False(t, domain.ValidPackageName(name), name)
	}
}

func TestParseBuildSystems(t *testing.T) {
	b := domain.ParseBuildSystems("autotools  cmake+ninja unknown")
	assert.Equal(t, []string{"autotools", "configure", "cmake", "ninja"}, b.Names())

	b = domain.ParseBuildSystems("meson gn golang make")
	assert.Equal(t, []string{"meson", "ninja", "gmake", "gn", "go"}, b.Names())

	assert.Empty(t, domain.ParseBuildSystems("").Names())
}

func TestInferBuildSystems(t *testing.T) {
	install := "cmakew -DBUILD_SHARED_LIBS=OFF\n  gmakew install\n\nmesonw\n# cargow is mentioned in a comment\necho gow\n"
	b := domain.InferBuildSystems(install)
	assert.Equal(t, []string{"cmake", "meson", "ninja", "gmake"}, b.Names())
}

func TestResource(t *testing.T) {
	local := domain.Resource{URL: "dir:///work/src"}
	assert.True(t, local.IsLocalDir())
	assert.Equal(t, "/work/src", local.LocalPath())
	assert.False(t, domain.Resource{URL: "https://x/y.tgz"}.IsLocalDir())
	assert.True(t, domain.Resource{}.IsZero())
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		"zlib":      "ZLIB",
		"libxml2":   "LIBXML2",
		"c-ares":    "C_ARES",
		"gtk+3":     "GTK_3",
		"lib.foo@2": "LIB_FOO_2",
		"OpenSSL":   "OPENSSL",
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.EnvName(in), in)
	}
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"zlib", "libpng"}, domain.ParseList(" zlib\tlibpng\n"))
	assert.Empty(t, domain.ParseList(""))
}
