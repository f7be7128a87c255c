package toolchain

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

// baselineVars are copied from the host into every BuildContext.
var baselineVars = []string{"PATH", "HOME", "USER", "LOGNAME", "TERM", "TMPDIR", "LANG", "LC_ALL", "SHELL"}

// requiredVars must be present and non-empty in the host environment.
var requiredVars = []string{"PATH", "HOME"}

// Spec describes the package a BuildContext is assembled for.
type Spec struct {
	Formula  *domain.Formula
	Platform domain.Platform
	Options  domain.InstallOptions
	// WorkDir is the package working directory holding include, lib and bin.
	WorkDir string
	// Deps are the installed directories of the package's dependency closure.
	Deps []string
	// NativeDirs are installed native tool directories.
	NativeDirs []string
}

// Builder assembles BuildContexts.
type Builder struct {
	sdk      ports.SDKLocator
	sysinfo  ports.SystemInfoProvider
	environ  func() []string
	lookPath func(string) (string, error)
}

// NewBuilder creates a Builder reading the host environment.
func NewBuilder(sdk ports.SDKLocator, sysinfo ports.SystemInfoProvider) *Builder {
	return NewBuilderWith(sdk, sysinfo, os.Environ, exec.LookPath)
}

// NewBuilderWith creates a Builder with explicit host environment and tool lookup.
func NewBuilderWith(
	sdk ports.SDKLocator,
	sysinfo ports.SystemInfoProvider,
	environ func() []string,
	lookPath func(string) (string, error),
) *Builder {
	return &Builder{sdk: sdk, sysinfo: sysinfo, environ: environ, lookPath: lookPath}
}

func (b *Builder) baseline() (*Env, error) {
	host := NewEnvFrom(b.environ())
	env := NewEnv()
	for _, key := range baselineVars {
		if v, ok := host.Lookup(key); ok {
			env.Set(key, v)
		}
	}
	for _, key := range requiredVars {
		if env.Get(key) == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrEnvironment, "required environment variable is not set"), "variable", key)
		}
	}
	return env, nil
}

func (b *Builder) find(candidates ...string) string {
	for _, c := range candidates {
		if p, err := b.lookPath(c); err == nil {
			return p
		}
	}
	return ""
}

func (b *Builder) nativeToolchain(ctx context.Context, info domain.SystemInfo) (Toolchain, error) {
	tc := Toolchain{
		CC:      b.find("cc", "clang", "gcc"),
		CXX:     b.find("c++", "clang++", "g++"),
		AS:      b.find("as"),
		AR:      b.find("ar"),
		RANLIB:  b.find("ranlib"),
		LD:      b.find("ld"),
		NM:      b.find("nm"),
		STRIP:   b.find("strip"),
		OBJCOPY: b.find("objcopy"),
	}
	if tc.CC == "" {
		return tc, zerr.With(zerr.Wrap(domain.ErrNativeToolMissing, "no C compiler found"), "tool", "cc")
	}
	tc.CPP = tc.CC + " -E"

	if info.OS == "darwin" {
		sysroot, err := b.sdk.SDKPath(ctx, "macosx")
		if err != nil {
			return tc, err
		}
		tc.SYSROOT = sysroot
	}
	return tc, nil
}

func profileFlags(p domain.Profile) string {
	if p == domain.ProfileDebug {
		return "-O0 -g"
	}
	return "-Os"
}

func jobs(spec Spec) int {
	if spec.Formula != nil && !spec.Formula.Parallel {
		return 1
	}
	if spec.Options.Jobs > 0 {
		return spec.Options.Jobs
	}
	return 1
}

func setTools(env *Env, tc Toolchain, suffix string) {
	for _, kv := range [][2]string{
		{"CC", tc.CC}, {"CXX", tc.CXX}, {"CPP", tc.CPP}, {"AS", tc.AS}, {"AR", tc.AR},
		{"RANLIB", tc.RANLIB}, {"LD", tc.LD}, {"NM", tc.NM}, {"STRIP", tc.STRIP}, {"OBJCOPY", tc.OBJCOPY},
	} {
		if kv[1] != "" {
			env.Set(kv[0]+suffix, kv[1])
		}
	}
}

// Native assembles the context for tools that run on the build machine.
func (b *Builder) Native(ctx context.Context, spec Spec) (BuildContext, error) {
	env, err := b.baseline()
	if err != nil {
		return BuildContext{}, err
	}
	info, err := b.sysinfo.Snapshot()
	if err != nil {
		return BuildContext{}, err
	}
	tc, err := b.nativeToolchain(ctx, info)
	if err != nil {
		return BuildContext{}, err
	}

	setTools(env, tc, "")
	cflags := profileFlags(spec.Options.Profile)
	if tc.SYSROOT != "" {
		cflags += " -isysroot " + tc.SYSROOT
		env.Set("SDKROOT", tc.SYSROOT)
	}
	env.Set("CFLAGS", cflags)
	env.Set("CXXFLAGS", cflags)
	env.Set("CPPFLAGS", "")
	env.Set("LDFLAGS", "")

	for _, dir := range spec.NativeDirs {
		AccumulateAll(env, dir)
	}
	if spec.WorkDir != "" {
		AccumulateInclude(env, spec.WorkDir)
		AccumulateLib(env, spec.WorkDir)
	}
	for _, key := range []string{"CFLAGS", "CXXFLAGS", "CPPFLAGS", "LDFLAGS"} {
		env.Set(key+"_FOR_BUILD", env.Get(key))
	}
	setTools(env, tc, "_FOR_BUILD")
	env.Set("PKG_CONFIG", "pkg-config")
	env.Set("MAKEFLAGS", "-j"+strconv.Itoa(jobs(spec)))

	bc := newBuildContext(env, tc, info.NativePlatform(), false)
	if spec.Formula != nil {
		bc = project(bc, env, spec)
	}
	return bc, nil
}

// Target assembles the context for compiling spec.Formula for spec.Platform.
// Tools that must run on the build machine are exported as *_FOR_BUILD.
func (b *Builder) Target(ctx context.Context, spec Spec) (BuildContext, error) {
	if spec.Formula == nil {
		return BuildContext{}, zerr.Wrap(domain.ErrArgument, "target context requires a formula")
	}

	nativeSpec := spec
	nativeSpec.Formula = nil
	nativeSpec.WorkDir = ""
	native, err := b.Native(ctx, nativeSpec)
	if err != nil {
		return BuildContext{}, err
	}

	env, err := b.baseline()
	if err != nil {
		return BuildContext{}, err
	}

	cross := native.Platform.Name != spec.Platform.Name || native.Platform.Arch != spec.Platform.Arch
	tc := native.Toolchain
	tc.SYSROOT = ""

	var archFlags string
	if spec.Platform.IsApple() {
		sysroot, err := b.sdk.SDKPath(ctx, spec.Platform.SDKName())
		if err != nil {
			return BuildContext{}, err
		}
		tc.SYSROOT = sysroot
		if clang := b.find("clang"); clang != "" {
			tc.CC = clang
		}
		if clangxx := b.find("clang++"); clangxx != "" {
			tc.CXX = clangxx
		}
		tc.CPP = tc.CC + " -E"
		archFlags = "-isysroot " + sysroot + " " + spec.Platform.MinVersionFlag() + " -arch " + spec.Platform.Arch
		env.Set("SDKROOT", sysroot)
	} else if cross {
		archFlags = "--target=" + spec.Platform.ClangTarget()
	}

	setTools(env, tc, "")

	f := spec.Formula
	cflags := strings.TrimSpace(profileFlags(spec.Options.Profile) + " " + archFlags)
	env.Set("CFLAGS", cflags)
	env.Set("CXXFLAGS", cflags)
	env.Set("CPPFLAGS", "")
	env.Set("LDFLAGS", archFlags)
	env.Append("CFLAGS", f.CCFlags, " ")
	env.Append("CXXFLAGS", f.XXFlags, " ")
	env.Append("CPPFLAGS", f.PPFlags, " ")
	env.Append("LDFLAGS", f.LDFlags, " ")

	for _, dir := range spec.Deps {
		AccumulateInclude(env, dir)
		AccumulateLib(env, dir)
		AccumulatePkgConfig(env, dir)
		AccumulateAclocal(env, dir)
		AccumulateXDG(env, dir)
		if !cross {
			AccumulateBin(env, dir)
		}
	}
	AccumulateInclude(env, spec.WorkDir)
	AccumulateLib(env, spec.WorkDir)
	AccumulateBin(env, spec.WorkDir)

	for _, dir := range spec.NativeDirs {
		AccumulateBin(env, dir)
		AccumulateAclocal(env, dir)
		AccumulatePerl(env, dir)
	}

	for _, key := range []string{
		"CC", "CXX", "CPP", "AS", "AR", "RANLIB", "LD", "NM", "STRIP", "OBJCOPY",
		"CFLAGS", "CXXFLAGS", "CPPFLAGS", "LDFLAGS",
	} {
		if v, ok := native.Lookup(key); ok {
			env.Set(key+"_FOR_BUILD", v)
		}
	}

	pkgConfig := "pkg-config"
	if spec.Options.Static {
		pkgConfig += " --static"
	}
	env.Set("PKG_CONFIG", pkgConfig)
	if tc.SYSROOT != "" {
		env.Set("PKG_CONFIG_LIBDIR", filepath.Join(tc.SYSROOT, "usr", "lib", "pkgconfig"))
	}
	env.Set("MAKEFLAGS", "-j"+strconv.Itoa(jobs(spec)))

	bc := newBuildContext(env, tc, spec.Platform, cross)
	return project(bc, env, spec), nil
}

// project applies the projections selected by the formula's build systems.
func project(bc BuildContext, env *Env, spec Spec) BuildContext {
	bs := spec.Formula.BuildSystems
	if bs.CMake {
		ProjectCMake(env, spec.Formula, spec.Options, jobs(spec))
	}
	if bs.Golang {
		ProjectGo(env, bc.Platform, bc.Cross)
	}
	if bs.Cargo {
		ProjectCargo(env, bc.Platform, bc.Cross)
	}
	bc.env = env.clone()
	return bc
}
