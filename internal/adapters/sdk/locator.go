// Package sdk locates Apple platform SDKs with xcrun.
package sdk

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SDKLocator = (*Locator)(nil)

// Locator implements ports.SDKLocator. Results are memoized per SDK name.
type Locator struct {
	exec ports.Executor

	mu    sync.Mutex
	paths map[string]string
}

// NewLocator creates a new Locator.
func NewLocator(exec ports.Executor) *Locator {
	return &Locator{exec: exec, paths: make(map[string]string)}
}

// SDKPath returns the sysroot of sdk. An empty name means the build machine
// itself and yields an empty path.
func (l *Locator) SDKPath(ctx context.Context, sdk string) (string, error) {
	if sdk == "" {
		return "", nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if path, ok := l.paths[sdk]; ok {
		return path, nil
	}

	var out bytes.Buffer
	cmd := ports.Command{Argv: []string{"xcrun", "--sdk", sdk, "--show-sdk-path"}}
	if err := l.exec.Run(ctx, cmd, &out, nil); err != nil {
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrSDKNotFound, err), "xcrun failed"), "sdk", sdk)
	}

	path := lastLine(out.String())
	if path == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrSDKNotFound, "xcrun printed no sdk path"), "sdk", sdk)
	}
	l.paths[sdk] = path
	return path, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
