package pipeline

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

type download struct {
	res  domain.Resource
	dest string
	path string
}

// fetch populates src, fix and res. Archives are downloaded concurrently and
// extracted one after another.
func (r *run) fetch(ctx context.Context, vertex ports.Vertex) error {
	d, f := r.d, r.req.Formula

	if f.Git.URL != "" {
		err := d.vcs.Sync(ctx, ports.GitSyncRequest{
			Dir:            r.work.Src,
			URL:            f.Git.URL,
			Ref:            f.Git.Ref,
			Commit:         f.Git.SHA,
			FallbackRef:    "HEAD",
			FallbackBranch: "master",
			Depth:          f.Git.Depth,
		})
		if err != nil {
			return err
		}
	}

	if f.Src.IsLocalDir() {
		if err := copyTree(f.Src.LocalPath(), r.work.Src); err != nil {
			return err
		}
	}

	var downloads []*download
	if !f.Src.IsZero() && !f.Src.IsLocalDir() && f.Git.URL == "" {
		downloads = append(downloads, &download{res: f.Src, dest: r.work.Src})
	}
	if !f.Fix.IsZero() {
		downloads = append(downloads, &download{res: f.Fix, dest: r.work.Fix})
	}
	if !f.Res.IsZero() {
		downloads = append(downloads, &download{res: f.Res, dest: r.work.Res})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, dl := range downloads {
		g.Go(func() error {
			path, err := d.downloader.Fetch(gctx, dl.res, d.layout.Downloads)
			if err != nil {
				return err
			}
			dl.path = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	opts := ports.ExtractOptions{
		PreserveTimestamps: true,
		Verbose:            r.req.Options.Verbosity == domain.VerbosityDebug,
	}
	for _, dl := range downloads {
		if err := d.extractor.Extract(dl.dest, dl.path, opts); err != nil {
			return err
		}
	}

	if f.DoFetch != "" {
		return r.runPhase(ctx, vertex, r.target, "fetch")
	}
	return nil
}

// copyTree copies the directory src into dst, keeping file modes and symlinks.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return domain.IOError("failed to read local source", src, err)
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrArgument, "local source is not a directory"), "path", src)
	}

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return domain.IOError("failed to walk local source", path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return domain.IOError("failed to relativize path", path, err)
		}
		target := filepath.Join(dst, rel)

		switch {
		case entry.IsDir():
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return domain.IOError("failed to create directory", target, err)
			}
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return domain.IOError("failed to read symlink", path, err)
			}
			if err := os.Symlink(link, target); err != nil {
				return domain.IOError("failed to create symlink", target, err)
			}
			return nil
		case entry.Type().IsRegular():
			return copyFile(path, target)
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // copying a user supplied tree
	if err != nil {
		return domain.IOError("failed to open file", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return domain.IOError("failed to stat file", src, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // destination is inside the work tree
	if err != nil {
		return domain.IOError("failed to create file", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return domain.IOError("failed to copy file", dst, err)
	}
	if err := out.Close(); err != nil {
		return domain.IOError("failed to close file", dst, err)
	}
	return nil
}
