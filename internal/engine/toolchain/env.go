// Package toolchain builds the per-package environment that compilers and
// build tools observe.
//
// Nothing here mutates the process environment. Each package gets a fresh
// BuildContext assembled from an allow-listed host baseline; variables are
// rendered only when a subprocess is started.
package toolchain

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Env is a mutable variable table used while a BuildContext is assembled.
type Env struct {
	vars map[string]string
}

// NewEnv creates an empty Env.
func NewEnv() *Env {
	return &Env{vars: make(map[string]string)}
}

// NewEnvFrom creates an Env from KEY=VALUE entries.
func NewEnvFrom(environ []string) *Env {
	env := NewEnv()
	for _, entry := range environ {
		if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
			env.vars[k] = v
		}
	}
	return env
}

// Get returns the value of key, or "" when unset.
func (e *Env) Get(key string) string {
	return e.vars[key]
}

// Lookup returns the value of key and whether it is set.
func (e *Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Set assigns key.
func (e *Env) Set(key, value string) {
	e.vars[key] = value
}

// Unset removes key.
func (e *Env) Unset(key string) {
	delete(e.vars, key)
}

// Prepend puts value in front of the current value of key, joined by sep.
// An unset or empty key is simply assigned.
func (e *Env) Prepend(key, value, sep string) {
	if cur := e.vars[key]; cur != "" {
		e.vars[key] = value + sep + cur
		return
	}
	e.vars[key] = value
}

// Append adds value after the current value of key, joined by sep.
func (e *Env) Append(key, value, sep string) {
	if value == "" {
		return
	}
	if cur := e.vars[key]; cur != "" {
		e.vars[key] = cur + sep + value
		return
	}
	e.vars[key] = value
}

// Environ renders the table as sorted KEY=VALUE entries.
func (e *Env) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func (e *Env) clone() map[string]string {
	out := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// AccumulateBin prepends <dir>/bin and <dir>/sbin to PATH when they exist.
func AccumulateBin(env *Env, dir string) {
	for _, sub := range []string{"sbin", "bin"} {
		if p := filepath.Join(dir, sub); isDir(p) {
			env.Prepend("PATH", p, ":")
		}
	}
}

// AccumulatePkgConfig prepends the pkg-config directories of dir to PKG_CONFIG_PATH.
func AccumulatePkgConfig(env *Env, dir string) {
	for _, sub := range []string{"share/pkgconfig", "lib/pkgconfig"} {
		if p := filepath.Join(dir, sub); isDir(p) {
			env.Prepend("PKG_CONFIG_PATH", p, ":")
		}
	}
}

// AccumulateAclocal prepends <dir>/share/aclocal to ACLOCAL_PATH.
func AccumulateAclocal(env *Env, dir string) {
	if p := filepath.Join(dir, "share", "aclocal"); isDir(p) {
		env.Prepend("ACLOCAL_PATH", p, ":")
	}
}

// AccumulateXDG prepends <dir>/share to XDG_DATA_DIRS when it holds
// gobject-introspection or mime data.
func AccumulateXDG(env *Env, dir string) {
	share := filepath.Join(dir, "share")
	if isDir(filepath.Join(share, "gir-1.0")) || isDir(filepath.Join(share, "mime")) {
		env.Prepend("XDG_DATA_DIRS", share, ":")
	}
}

// AccumulateInclude prepends -I<dir>/include to CPPFLAGS.
func AccumulateInclude(env *Env, dir string) {
	if p := filepath.Join(dir, "include"); isDir(p) {
		env.Prepend("CPPFLAGS", "-I"+p, " ")
	}
}

// AccumulateLib prepends -L<dir>/lib and an rpath entry to LDFLAGS.
func AccumulateLib(env *Env, dir string) {
	if p := filepath.Join(dir, "lib"); isDir(p) {
		env.Prepend("LDFLAGS", "-L"+p+" -Wl,-rpath,"+p, " ")
	}
}

// AccumulatePerl prepends the perl module directory of dir to PERL5LIB.
func AccumulatePerl(env *Env, dir string) {
	if p := filepath.Join(dir, "lib", "perl5"); isDir(p) {
		env.Prepend("PERL5LIB", p, ":")
	}
}

// AccumulateAll applies every accumulation function to dir.
func AccumulateAll(env *Env, dir string) {
	AccumulateBin(env, dir)
	AccumulatePkgConfig(env, dir)
	AccumulateAclocal(env, dir)
	AccumulateXDG(env, dir)
	AccumulateInclude(env, dir)
	AccumulateLib(env, dir)
	AccumulatePerl(env, dir)
}
