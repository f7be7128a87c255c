// Package git synchronizes git checkouts by driving the git command.
package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.VCS = (*Client)(nil)

const defaultBranch = "master"

// Client implements ports.VCS on top of an executor.
type Client struct {
	exec ports.Executor
	bin  string
}

// NewClient creates a new Client running the git binary found on PATH.
func NewClient(exec ports.Executor) *Client {
	return &Client{exec: exec, bin: "git"}
}

// Sync makes req.Dir a checkout of req.Commit, req.Ref or req.FallbackRef from req.URL.
func (c *Client) Sync(ctx context.Context, req ports.GitSyncRequest) error {
	if req.Dir == "" || req.URL == "" {
		return zerr.Wrap(domain.ErrArgument, "git sync requires a directory and a url")
	}

	ref := req.Ref
	if ref == "" {
		ref = req.FallbackRef
	}
	if ref == "" {
		ref = "HEAD"
	}
	branch := req.FallbackBranch
	if branch == "" {
		branch = defaultBranch
	}

	if err := os.MkdirAll(req.Dir, domain.DirPerm); err != nil {
		return domain.IOError("failed to create checkout directory", req.Dir, err)
	}

	var setup [][]string
	if _, err := os.Stat(filepath.Join(req.Dir, ".git")); errors.Is(err, os.ErrNotExist) {
		setup = append(setup,
			[]string{"init"},
			[]string{"remote", "add", "origin", req.URL},
		)
	} else {
		setup = append(setup, []string{"remote", "set-url", "origin", req.URL})
	}
	for _, args := range setup {
		if err := c.run(ctx, req.Dir, args); err != nil {
			return zerr.With(err, "url", req.URL)
		}
	}

	fetch := []string{"fetch", "--progress"}
	if req.Depth > 0 {
		fetch = append(fetch, "--depth="+strconv.Itoa(req.Depth))
	}
	checkout := "FETCH_HEAD"
	if req.Commit != "" {
		checkout = req.Commit
		if err := c.run(ctx, req.Dir, append(fetch, "origin", req.Commit)); err != nil {
			if err := c.run(ctx, req.Dir, []string{"fetch", "--progress", "origin", ref}); err != nil {
				return zerr.With(zerr.With(zerr.With(err, "url", req.URL), "ref", ref), "commit", req.Commit)
			}
		}
	} else if err := c.run(ctx, req.Dir, append(fetch, "origin", ref)); err != nil {
		return zerr.With(zerr.With(err, "url", req.URL), "ref", ref)
	}
	if err := c.run(ctx, req.Dir, []string{"checkout", "--progress", "--force", "-B", branch, checkout}); err != nil {
		return zerr.With(zerr.With(err, "url", req.URL), "ref", checkout)
	}

	if _, err := os.Stat(filepath.Join(req.Dir, ".gitmodules")); err == nil {
		args := []string{"submodule", "update", "--init", "--recursive"}
		if req.Depth > 0 {
			args = append(args, "--depth="+strconv.Itoa(req.Depth))
		}
		if err := c.run(ctx, req.Dir, args); err != nil {
			return zerr.With(err, "url", req.URL)
		}
	}
	return nil
}

func (c *Client) run(ctx context.Context, dir string, args []string) error {
	cmd := ports.Command{
		Argv: append([]string{c.bin, "-C", dir}, args...),
		Env:  []string{"GIT_TERMINAL_PROMPT=0"},
		Dir:  dir,
	}
	if err := c.exec.Run(ctx, cmd, nil, nil); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrGit, err), "git "+args[0]+" failed"), "dir", dir)
	}
	return nil
}
