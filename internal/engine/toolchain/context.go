package toolchain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/xcpkg/internal/core/domain"
)

// Toolchain names the resolved compiler tools of a BuildContext.
type Toolchain struct {
	CC      string
	CXX     string
	CPP     string
	AS      string
	AR      string
	RANLIB  string
	LD      string
	NM      string
	STRIP   string
	OBJCOPY string
	SYSROOT string
}

// BuildContext is the environment of one package build phase.
type BuildContext struct {
	Toolchain Toolchain
	Platform  domain.Platform
	// Cross is set when Platform differs from the build machine.
	Cross bool

	env map[string]string
}

func newBuildContext(env *Env, tc Toolchain, platform domain.Platform, cross bool) BuildContext {
	return BuildContext{Toolchain: tc, Platform: platform, Cross: cross, env: env.clone()}
}

// Get returns the value of key.
func (c BuildContext) Get(key string) string {
	return c.env[key]
}

// Lookup returns the value of key and whether it is set.
func (c BuildContext) Lookup(key string) (string, bool) {
	v, ok := c.env[key]
	return v, ok
}

// With returns a copy of the context with key set to value.
func (c BuildContext) With(key, value string) BuildContext {
	env := make(map[string]string, len(c.env)+1)
	for k, v := range c.env {
		env[k] = v
	}
	env[key] = value
	c.env = env
	return c
}

// Environ renders the context as sorted KEY=VALUE entries.
func (c BuildContext) Environ() []string {
	out := make([]string, 0, len(c.env))
	for k, v := range c.env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Fingerprint is a short digest of the rendered environment.
func (c BuildContext) Fingerprint() string {
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(c.Environ(), "\n")), 16)
}
