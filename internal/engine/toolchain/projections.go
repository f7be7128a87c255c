package toolchain

import (
	"strconv"
	"strings"

	"go.trai.ch/xcpkg/internal/core/domain"
)

// cmakeAmbientVars are honoured by cmake from the environment and would let
// host configuration leak into a build.
var cmakeAmbientVars = []string{
	"CMAKE_PREFIX_PATH",
	"CMAKE_APPBUNDLE_PATH",
	"CMAKE_FRAMEWORK_PATH",
	"CMAKE_PROGRAM_PATH",
	"CMAKE_INCLUDE_PATH",
	"CMAKE_LIBRARY_PATH",
	"CMAKE_IGNORE_PATH",
	"CMAKE_TOOLCHAIN_FILE",
	"CMAKE_INSTALL_PREFIX",
	"CMAKE_OSX_ARCHITECTURES",
	"CMAKE_OSX_SYSROOT",
	"CMAKE_OSX_DEPLOYMENT_TARGET",
}

// ProjectCMake configures the cmake environment variables.
func ProjectCMake(env *Env, f *domain.Formula, opts domain.InstallOptions, jobs int) {
	for _, key := range cmakeAmbientVars {
		env.Unset(key)
	}

	generator := "Unix Makefiles"
	if f.BuildSystems.Ninja {
		generator = "Ninja"
	}
	env.Set("CMAKE_GENERATOR", generator)
	env.Set("CMAKE_BUILD_TYPE", opts.Profile.CMakeBuildType())
	env.Set("CMAKE_BUILD_PARALLEL_LEVEL", strconv.Itoa(jobs))

	export := "OFF"
	if opts.ExportCompileCommands {
		export = "ON"
	}
	env.Set("CMAKE_EXPORT_COMPILE_COMMANDS", export)
}

// ProjectGo mirrors the C flags for cgo and selects GOOS and GOARCH when cross compiling.
func ProjectGo(env *Env, target domain.Platform, cross bool) {
	env.Set("CGO_ENABLED", "1")
	env.Set("CGO_CFLAGS", env.Get("CFLAGS"))
	env.Set("CGO_CXXFLAGS", env.Get("CXXFLAGS"))
	env.Set("CGO_CPPFLAGS", env.Get("CPPFLAGS"))
	env.Set("CGO_LDFLAGS", env.Get("LDFLAGS"))
	env.Set("GOTOOLCHAIN", "local")

	if cross {
		env.Set("GOOS", target.GOOS())
		env.Set("GOARCH", target.GOARCH())
	} else {
		env.Unset("GOOS")
		env.Unset("GOARCH")
	}
}

// ProjectCargo configures rustc linking and the cc crate's HOST_/TARGET_ variables.
func ProjectCargo(env *Env, target domain.Platform, cross bool) {
	cc := env.Get("CC")

	var rustflags strings.Builder
	rustflags.WriteString("-Clinker=" + cc)
	for _, tok := range strings.Fields(env.Get("LDFLAGS")) {
		rustflags.WriteString(" -Clink-arg=" + tok)
	}
	env.Set("RUSTFLAGS", rustflags.String())

	triple := target.RustTarget()
	env.Set("CARGO_TARGET_"+strings.ToUpper(strings.ReplaceAll(triple, "-", "_"))+"_LINKER", cc)

	pairs := [][2]string{{"CC", "CC"}, {"CXX", "CXX"}, {"AR", "AR"}, {"CFLAGS", "CFLAGS"}, {"CXXFLAGS", "CXXFLAGS"}}
	if !cross {
		for _, p := range pairs {
			env.Unset("HOST_" + p[0])
			env.Unset("TARGET_" + p[0])
		}
		env.Unset("CARGO_BUILD_TARGET")
		return
	}

	env.Set("CARGO_BUILD_TARGET", triple)
	for _, p := range pairs {
		if v, ok := env.Lookup(p[1] + "_FOR_BUILD"); ok {
			env.Set("HOST_"+p[0], v)
		}
		env.Set("TARGET_"+p[0], env.Get(p[1]))
	}
}
