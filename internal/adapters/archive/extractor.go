// Package archive unpacks source archives into working directories.
package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

// Failure codes reported through domain.ArchiveError.
const (
	codeOpen = iota + 1
	codeFormat
	codeEntry
	codeWrite
)

var _ ports.Extractor = (*Extractor)(nil)

// Extractor implements ports.Extractor in pure Go.
type Extractor struct {
	logger ports.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger ports.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract unpacks archivePath into destDir. A single top-level directory in
// the archive is stripped. Files with an unknown extension are copied.
func (e *Extractor) Extract(destDir, archivePath string, opts ports.ExtractOptions) error {
	if err := os.MkdirAll(destDir, domain.DirPerm); err != nil {
		return domain.IOError("failed to create extraction directory", destDir, err)
	}

	ext := domain.ArchiveExt(archivePath)
	if !isArchive(ext) {
		return copyFile(archivePath, filepath.Join(destDir, filepath.Base(archivePath)))
	}

	staging := filepath.Join(destDir, ".extract-"+uuid.NewString())
	if err := os.Mkdir(staging, domain.DirPerm); err != nil {
		return domain.IOError("failed to create staging directory", staging, err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	var err error
	if ext == ".zip" {
		err = e.unzip(archivePath, staging, opts)
	} else {
		err = e.untar(archivePath, ext, staging, opts)
	}
	if err != nil {
		return err
	}

	return promote(staging, destDir)
}

func isArchive(ext string) bool {
	switch ext {
	case ".tgz", ".txz", ".tlz", ".tbz2", ".tzst", ".crate", ".zip", ".tar":
		return true
	}
	return false
}

// promote moves the extracted tree from staging into destDir, stripping a
// sole top-level directory.
func promote(staging, destDir string) error {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return domain.IOError("failed to read staging directory", staging, err)
	}

	root := staging
	if len(entries) == 1 && entries[0].IsDir() {
		root = filepath.Join(staging, entries[0].Name())
		if entries, err = os.ReadDir(root); err != nil {
			return domain.IOError("failed to read archive root", root, err)
		}
	}

	for _, entry := range entries {
		from := filepath.Join(root, entry.Name())
		to := filepath.Join(destDir, entry.Name())
		if err := os.RemoveAll(to); err != nil {
			return domain.IOError("failed to replace existing entry", to, err)
		}
		if err := os.Rename(from, to); err != nil {
			return domain.IOError("failed to move extracted entry", to, err)
		}
	}
	return nil
}

func (e *Extractor) untar(archivePath, ext, dest string, opts ports.ExtractOptions) error {
	f, err := os.Open(archivePath) //nolint:gosec // archives come from the downloads cache
	if err != nil {
		return domain.ArchiveError(archivePath, codeOpen, err)
	}
	defer func() { _ = f.Close() }()

	r, closer, err := decompressor(bufio.NewReader(f), ext)
	if err != nil {
		return domain.ArchiveError(archivePath, codeFormat, err)
	}
	if closer != nil {
		defer closer()
	}

	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return domain.IOError("failed to resolve staging directory", dest, err)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return domain.ArchiveError(archivePath, codeEntry, err)
		}

		switch hdr.Typeflag {
		case tar.TypeXHeader, tar.TypeXGlobalHeader:
			continue
		}

		target, err := entryPath(dest, root, hdr.Name)
		if err != nil {
			return domain.ArchiveError(archivePath, codeEntry, err)
		}
		if hdr.Typeflag == tar.TypeSymlink {
			if err := checkLink(root, target, hdr.Linkname); err != nil {
				return domain.ArchiveError(archivePath, codeEntry, err)
			}
		}
		if e.logger != nil && opts.Verbose {
			e.logger.Debug("x " + hdr.Name)
		}

		if err := writeTarEntry(tr, hdr, dest, root, target); err != nil {
			return domain.ArchiveError(archivePath, codeWrite, err)
		}

		if opts.PreserveTimestamps && hdr.Typeflag != tar.TypeSymlink {
			_ = os.Chtimes(target, hdr.AccessTime, hdr.ModTime)
		}
	}
}

func writeTarEntry(tr *tar.Reader, hdr *tar.Header, dest, root, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}

	mode := os.FileMode(hdr.Mode).Perm() //nolint:gosec // tar modes fit in FileMode
	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, mode|0o700)
	case tar.TypeReg:
		return writeFile(target, tr, mode)
	case tar.TypeSymlink:
		_ = os.Remove(target)
		return os.Symlink(hdr.Linkname, target)
	case tar.TypeLink:
		source, err := entryPath(dest, root, hdr.Linkname)
		if err != nil {
			return err
		}
		_ = os.Remove(target)
		return os.Link(source, target)
	}
	return nil
}

// decompressor returns the tar stream reader of an archive extension.
func decompressor(r io.Reader, ext string) (io.Reader, func(), error) {
	switch ext {
	case ".tgz", ".crate":
		gz, err := pgzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case ".txz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, nil, nil
	case ".tlz":
		lr, err := newLzipReader(r)
		if err != nil {
			return nil, nil, err
		}
		return lr, nil, nil
	case ".tbz2":
		return bzip2.NewReader(r), nil, nil
	case ".tzst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case ".tar":
		return r, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported archive format %q", ext)
}

var lzipMagic = []byte("LZIP")

// newLzipReader reads the first member of an lzip file. The member body is a
// raw LZMA stream with an end marker, so a classic LZMA header with an unknown
// size is synthesized in front of it.
func newLzipReader(r io.Reader) (io.Reader, error) {
	var hdr [6]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if !bytes.Equal(hdr[:4], lzipMagic) {
		return nil, errors.New("not an lzip file")
	}
	if hdr[4] != 1 {
		return nil, fmt.Errorf("unsupported lzip version %d", hdr[4])
	}

	dict := uint32(1) << (hdr[5] & 0x1f)
	dict -= dict / 16 * uint32((hdr[5]>>5)&7)

	var classic [13]byte
	classic[0] = 0x5d
	binary.LittleEndian.PutUint32(classic[1:5], dict)
	for i := 5; i < 13; i++ {
		classic[i] = 0xff
	}

	return lzma.NewReader(io.MultiReader(bytes.NewReader(classic[:]), r))
}

func (e *Extractor) unzip(archivePath, dest string, opts ports.ExtractOptions) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return domain.ArchiveError(archivePath, codeOpen, err)
	}
	defer func() { _ = zr.Close() }()

	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return domain.IOError("failed to resolve staging directory", dest, err)
	}

	for _, f := range zr.File {
		target, err := entryPath(dest, root, f.Name)
		if err != nil {
			return domain.ArchiveError(archivePath, codeEntry, err)
		}
		if e.logger != nil && opts.Verbose {
			e.logger.Debug("x " + f.Name)
		}

		if err := writeZipEntry(f, root, target); err != nil {
			return domain.ArchiveError(archivePath, codeWrite, err)
		}
		if opts.PreserveTimestamps {
			_ = os.Chtimes(target, f.Modified, f.Modified)
		}
	}
	return nil
}

func writeZipEntry(f *zip.File, root, target string) error {
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, domain.DirPerm)
	}
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	if f.Mode()&os.ModeSymlink != 0 {
		link, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		if err := checkLink(root, target, string(link)); err != nil {
			return err
		}
		_ = os.Remove(target)
		return os.Symlink(string(link), target)
	}
	return writeFile(target, rc, f.Mode().Perm())
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0o600) //nolint:gosec // target is checked by safeJoin
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // archives are checksum verified
		_ = out.Close()
		return err
	}
	return out.Close()
}

// safeJoin rejects entries that would land outside dest.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !within(dest, target) {
		return "", zerr.With(zerr.New("illegal path in archive"), "entry", name)
	}
	return target, nil
}

// entryPath joins name onto dest and also rejects entries whose parent
// resolves outside root through a symlink extracted earlier.
func entryPath(dest, root, name string) (string, error) {
	target, err := safeJoin(dest, name)
	if err != nil {
		return "", err
	}
	parent, err := resolveExisting(filepath.Dir(target))
	if err != nil {
		return "", err
	}
	if !within(root, parent) {
		return "", zerr.With(zerr.New("archive entry escapes through a symlink"), "entry", name)
	}
	return target, nil
}

// checkLink rejects symlinks that point outside root.
func checkLink(root, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return zerr.With(zerr.New("absolute symlink in archive"), "link", linkname)
	}
	parent, err := resolveExisting(filepath.Dir(target))
	if err != nil {
		return err
	}
	if !within(root, filepath.Join(parent, linkname)) {
		return zerr.With(zerr.New("symlink points outside the archive"), "link", linkname)
	}
	return nil
}

// resolveExisting evaluates symlinks in the longest existing prefix of path.
func resolveExisting(path string) (string, error) {
	var rest []string
	for p := path; ; {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return path, nil
		}
		rest = append([]string{filepath.Base(p)}, rest...)
		p = parent
	}
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // source comes from the downloads cache
	if err != nil {
		return domain.IOError("failed to open file", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return domain.IOError("failed to stat file", src, err)
	}
	if err := writeFile(dst, in, info.Mode().Perm()); err != nil {
		return domain.IOError("failed to copy file", dst, err)
	}
	return nil
}
