// Package cas implements the content-addressed installation store.
//
// Every build installs into a fresh directory named by a digest. A stable
// symlink named after the package is then swung over to the new directory,
// so readers of the link never observe a half-populated tree.
package cas

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InstalledStore = (*Store)(nil)

// Store implements ports.InstalledStore on the local filesystem.
type Store struct {
	layout domain.Layout
	hasher ports.Hasher
	now    func() time.Time
	pid    int
}

// NewStore creates a new Store rooted at the layout.
func NewStore(layout domain.Layout, hasher ports.Hasher) *Store {
	return &Store{
		layout: layout,
		hasher: hasher,
		now:    time.Now,
		pid:    os.Getpid(),
	}
}

// NewID returns a 64 character directory name derived from the package name,
// the current time and the process id.
func (s *Store) NewID(name string) string {
	return s.hasher.HashString(name + "|" + strconv.FormatInt(s.now().UnixNano(), 10) + "|" + strconv.Itoa(s.pid))
}

// Lookup resolves the stable link of an installed package.
func (s *Store) Lookup(platform domain.Platform, name string) (string, bool) {
	dir, err := filepath.EvalSymlinks(s.layout.InstalledLink(platform, name))
	if err != nil {
		return "", false
	}
	info, err := os.Stat(filepath.Join(domain.MetaDir(dir), domain.ReceiptFileName))
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return dir, true
}

// Publish atomically points link at target.
//
// The previous target directory is left in place.
func (s *Store) Publish(link, target string) error {
	if err := os.MkdirAll(filepath.Dir(link), domain.DirPerm); err != nil {
		return domain.IOError("failed to create link directory", filepath.Dir(link), err)
	}

	tmp := fmt.Sprintf("%s.tmp-%d", link, s.pid)
	for attempt := 0; ; attempt++ {
		err := os.Symlink(target, tmp)
		if err == nil {
			break
		}
		if errors.Is(err, fs.ErrExist) && attempt == 0 {
			_ = os.Remove(tmp)
			continue
		}
		return domain.IOError("failed to create symlink", tmp, err)
	}

	err := os.Rename(tmp, link)
	if err != nil && isDirectoryConflict(err) {
		// A real directory sits at link; rename(2) cannot replace it with a symlink.
		if rmErr := os.RemoveAll(link); rmErr != nil {
			_ = os.Remove(tmp)
			return domain.IOError("failed to remove existing directory", link, rmErr)
		}
		err = os.Rename(tmp, link)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return zerr.With(domain.IOError("failed to publish symlink", link, err), "target", target)
	}
	return nil
}

func isDirectoryConflict(err error) bool {
	return errors.Is(err, syscall.EISDIR) || errors.Is(err, syscall.EEXIST) || errors.Is(err, syscall.ENOTEMPTY)
}

// WriteReceipt writes the rendered receipt into the metadata directory.
func (s *Store) WriteReceipt(installDir string, receipt domain.Receipt) error {
	meta := domain.MetaDir(installDir)
	if err := os.MkdirAll(meta, domain.DirPerm); err != nil {
		return domain.IOError("failed to create metadata directory", meta, err)
	}
	path := filepath.Join(meta, domain.ReceiptFileName)
	if err := os.WriteFile(path, receipt.Render(), domain.FilePerm); err != nil {
		return domain.IOError("failed to write receipt", path, err)
	}
	return nil
}

// WriteManifest records every file and directory below installDir.
//
// Files are written as "f|<path>" and directories as "d|<path>/", sorted by
// path. The manifest does not list itself.
func (s *Store) WriteManifest(installDir string) error {
	var entries []string
	err := filepath.WalkDir(installDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(installDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		switch {
		case rel == domain.MetaDirName+"/"+domain.ManifestFileName:
		case d.IsDir():
			entries = append(entries, "d|"+rel+"/")
		default:
			entries = append(entries, "f|"+rel)
		}
		return nil
	})
	if err != nil {
		return domain.IOError("failed to walk installation", installDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i][2:] < entries[j][2:] })

	meta := domain.MetaDir(installDir)
	if err := os.MkdirAll(meta, domain.DirPerm); err != nil {
		return domain.IOError("failed to create metadata directory", meta, err)
	}
	path := filepath.Join(meta, domain.ManifestFileName)
	f, err := os.Create(path) //nolint:gosec // path is inside the installation
	if err != nil {
		return domain.IOError("failed to create manifest", path, err)
	}
	w := bufio.NewWriter(f)
	for _, entry := range entries {
		_, _ = w.WriteString(entry)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return domain.IOError("failed to write manifest", path, err)
	}
	if err := f.Close(); err != nil {
		return domain.IOError("failed to close manifest", path, err)
	}
	return nil
}

// NativeReceipt reads the recorded source sha of a native package.
func (s *Store) NativeReceipt(name string) (sha, dir string, ok bool) {
	dir, err := filepath.EvalSymlinks(s.layout.NativeLink(name))
	if err != nil {
		return "", "", false
	}
	data, err := os.ReadFile(filepath.Join(dir, domain.ReceiptFileName)) //nolint:gosec // path is inside the native directory
	if err != nil {
		return "", "", false
	}
	sha = strings.TrimSpace(string(data))
	if sha == "" {
		return "", "", false
	}
	return sha, dir, true
}

// WriteNativeReceipt records sha as the source of the native package at dir.
func (s *Store) WriteNativeReceipt(dir, sha string) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.IOError("failed to create native directory", dir, err)
	}
	path := filepath.Join(dir, domain.ReceiptFileName)
	if err := os.WriteFile(path, []byte(sha+"\n"), domain.FilePerm); err != nil {
		return domain.IOError("failed to write native receipt", path, err)
	}
	return nil
}
