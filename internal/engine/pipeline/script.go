package pipeline

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.trai.ch/xcpkg/internal/core/domain"
)

// Dependency is an installed package the build can link against.
type Dependency struct {
	Name string
	Dir  string
}

// ScriptInput is the resolved state captured by the build configuration script.
type ScriptInput struct {
	Formula    *domain.Formula
	Native     domain.Platform
	Target     domain.Platform
	Sysroot    string
	Layout     domain.Layout
	SessionDir string
	Work       WorkTree
	InstallDir string
	Options    domain.InstallOptions
	Jobs       int
	Closure    []string
	Deps       []Dependency
}

// RenderScript renders the build configuration sourced by the phase runner.
func RenderScript(in ScriptInput) []byte {
	f := in.Formula
	w := &scriptWriter{}

	w.comment("generated by xcpkg for " + f.Name + ", do not edit")

	w.section("build machine and target")
	w.vars(
		"NATIVE_PLATFORM_NAME", in.Native.Name,
		"NATIVE_PLATFORM_VERS", in.Native.Version,
		"NATIVE_PLATFORM_ARCH", in.Native.Arch,
		"TARGET_PLATFORM_SPEC", in.Target.String(),
		"TARGET_PLATFORM_NAME", in.Target.Name,
		"TARGET_PLATFORM_VERS", in.Target.Version,
		"TARGET_PLATFORM_ARCH", in.Target.Arch,
		"TARGET_CMAKE_SYSTEM_NAME", in.Target.CMakeSystemName(),
		"TARGET_SYSROOT", in.Sysroot,
	)

	w.section("paths")
	w.vars(
		"XCPKG_HOME", in.Layout.Home,
		"XCPKG_CORE_DIR", in.Layout.Core,
		"XCPKG_DOWNLOADS_DIR", in.Layout.Downloads,
		"XCPKG_SESSION_DIR", in.SessionDir,
		"PACKAGE_WORKING_DIR", in.Work.Root,
		"PACKAGE_SRC_DIR", in.Work.Src,
		"PACKAGE_FIX_DIR", in.Work.Fix,
		"PACKAGE_RES_DIR", in.Work.Res,
		"PACKAGE_BIN_DIR", in.Work.Bin,
		"PACKAGE_INC_DIR", in.Work.Include,
		"PACKAGE_LIB_DIR", in.Work.Lib,
		"PACKAGE_TMP_DIR", in.Work.Tmp,
		"PACKAGE_BSCRIPT_DIR", in.Work.Src,
		"PACKAGE_BCACHED_DIR", in.Work.BuildDir(f),
		"PACKAGE_INSTALLED_ROOT", in.Layout.InstalledRoot(in.Target),
		"PACKAGE_INSTALL_DIR", in.InstallDir,
		"PACKAGE_METADATA_DIR", domain.MetaDir(in.InstallDir),
	)

	w.section("options")
	w.vars(
		"BUILD_NJOBS", strconv.Itoa(in.Jobs),
		"LOG_LEVEL", logLevel(in.Options.Verbosity),
		"DRYRUN", flag(in.Options.DryRun),
		"PROFILE", string(in.Options.Profile),
		"LINK_STATIC", flag(in.Options.Static),
		"EXPORT_COMPILE_COMMANDS_JSON", flag(in.Options.ExportCompileCommands),
	)

	w.section("formula")
	w.vars(
		"PACKAGE_NAME", f.Name,
		"PACKAGE_VERSION", f.Version,
		"PACKAGE_SUMMARY", f.Summary,
		"PACKAGE_LICENSE", f.License,
		"PACKAGE_WEB_URL", f.WebURL,
		"PACKAGE_GIT_URL", f.Git.URL,
		"PACKAGE_GIT_REF", f.Git.Ref,
		"PACKAGE_GIT_SHA", f.Git.SHA,
		"PACKAGE_GIT_NTH", strconv.Itoa(f.Git.Depth),
		"PACKAGE_SRC_URL", f.Src.URL,
		"PACKAGE_SRC_URI", f.Src.URI,
		"PACKAGE_SRC_SHA", f.Src.SHA,
		"PACKAGE_FIX_URL", f.Fix.URL,
		"PACKAGE_FIX_URI", f.Fix.URI,
		"PACKAGE_FIX_SHA", f.Fix.SHA,
		"PACKAGE_RES_URL", f.Res.URL,
		"PACKAGE_RES_URI", f.Res.URI,
		"PACKAGE_RES_SHA", f.Res.SHA,
		"PACKAGE_DEP_PKG", strings.Join(f.DepPkg, " "),
		"PACKAGE_DEP_PKG_R", strings.Join(in.Closure, " "),
		"PACKAGE_DEP_UPP", strings.Join(f.DepUpp, " "),
		"PACKAGE_DEP_PYM", strings.Join(f.DepPym, " "),
		"PACKAGE_DEP_PLM", strings.Join(f.DepPlm, " "),
		"PACKAGE_BSYSTEM", strings.Join(f.BuildSystems.Names(), " "),
		"PACKAGE_BINBSTD", flag(f.BuildInSourceDir),
		"PACKAGE_PARALLEL", flag(f.Parallel),
		"PACKAGE_CCFLAGS", f.CCFlags,
		"PACKAGE_XXFLAGS", f.XXFlags,
		"PACKAGE_PPFLAGS", f.PPFlags,
		"PACKAGE_LDFLAGS", f.LDFlags,
	)

	if len(in.Deps) > 0 {
		w.section("dependencies")
		for _, dep := range in.Deps {
			prefix := domain.EnvName(dep.Name)
			w.vars(
				prefix+"_INSTALL_DIR", dep.Dir,
				prefix+"_INCLUDE_DIR", dep.Dir+"/include",
				prefix+"_LIBRARY_DIR", dep.Dir+"/lib",
			)
		}
	}

	for _, phase := range []struct{ name, body string }{
		{"dofetch", f.DoFetch},
		{"do12345", f.Do12345},
		{"dopatch", f.DoPatch},
		{"prepare", f.Prepare},
		{"dobuild", f.Install},
		{"dotweak", f.DoTweak},
	} {
		w.function(phase.name, phase.body)
	}

	return w.buf.Bytes()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func logLevel(v domain.Verbosity) string {
	switch v {
	case domain.VerbosityQuiet:
		return "0"
	case domain.VerbosityDebug:
		return "2"
	default:
		return "1"
	}
}

type scriptWriter struct {
	buf bytes.Buffer
}

func (w *scriptWriter) comment(text string) {
	w.buf.WriteString("# " + text + "\n")
}

func (w *scriptWriter) section(title string) {
	w.buf.WriteString("\n")
	w.comment(title)
}

// vars writes key/value pairs; values are quoted for /bin/sh.
func (w *scriptWriter) vars(kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		w.buf.WriteString(kv[i] + "=" + shellquote.Join(kv[i+1]) + "\n")
	}
}

// function writes body verbatim as a shell function. Empty bodies are skipped
// so the runner can test for the phase with `type`.
func (w *scriptWriter) function(name, body string) {
	body = strings.TrimRight(body, "\n")
	if strings.TrimSpace(body) == "" {
		return
	}
	w.buf.WriteString("\n" + name + "() {\n" + body + "\n}\n")
}
