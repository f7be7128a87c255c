package archive_test

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
	"go.trai.ch/xcpkg/internal/adapters/archive"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/xcpkg/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type entry struct {
	name    string
	content string
	dir     bool
	link    string
}

var modTime = time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

func tarball(t *testing.T, entries []entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.content)), ModTime: modTime, Typeflag: tar.TypeReg}
		switch {
		case e.dir:
			hdr = &tar.Header{Name: e.name, Mode: 0o755, ModTime: modTime, Typeflag: tar.TypeDir}
		case e.link != "":
			hdr = &tar.Header{Name: e.name, Linkname: e.link, Mode: 0o777, ModTime: modTime, Typeflag: tar.TypeSymlink}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir && e.link == "" {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func compress(t *testing.T, ext string, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch ext {
	case ".tgz":
		w = pgzip.NewWriter(&buf)
	case ".txz":
		w, err = xz.NewWriter(&buf)
	case ".tzst":
		w, err = zstd.NewWriter(&buf)
	case ".tlz":
		return lzip(t, raw)
	case ".tar":
		return raw
	}
	require.NoError(t, err)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// lzip wraps a raw LZMA stream with an lzip header and an (unchecked) trailer.
func lzip(t *testing.T, raw []byte) []byte {
	t.Helper()
	var classic bytes.Buffer
	w, err := lzma.NewWriter(&classic)
	require.NoError(t, err)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := append([]byte("LZIP\x01\x17"), classic.Bytes()[13:]...)
	return append(out, make([]byte, 20)...)
}

func newExtractor(t *testing.T) *archive.Extractor {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return archive.NewExtractor(log)
}

func writeArchive(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExtract_StripsSingleTopLevelDirectory(t *testing.T) {
	entries := []entry{
		{name: "zlib-1.3.1/", dir: true},
		{name: "zlib-1.3.1/configure", content: "#!/bin/sh\n"},
		{name: "zlib-1.3.1/src/zlib.h", content: "header"},
	}

	for _, ext := range []string{".tgz", ".txz", ".tzst", ".tlz", ".tar"} {
		t.Run(ext, func(t *testing.T) {
			src := writeArchive(t, "zlib"+ext, compress(t, ext, tarball(t, entries)))
			dest := t.TempDir()

			require.NoError(t, newExtractor(t).Extract(dest, src, ports.ExtractOptions{PreserveTimestamps: true}))

			data, err := os.ReadFile(filepath.Join(dest, "src", "zlib.h"))
			require.NoError(t, err)
			assert.Equal(t, "header", string(data))
			assert.FileExists(t, filepath.Join(dest, "configure"))
			assert.NoDirExists(t, filepath.Join(dest, "zlib-1.3.1"))

			info, err := os.Stat(filepath.Join(dest, "configure"))
			require.NoError(t, err)
			assert.True(t, info.ModTime().Equal(modTime))

			leftovers, _ := filepath.Glob(filepath.Join(dest, ".extract-*"))
			assert.Empty(t, leftovers)
		})
	}
}

func TestExtract_KeepsMultipleTopLevelEntries(t *testing.T) {
	src := writeArchive(t, "multi.tar.gz", compress(t, ".tgz", tarball(t, []entry{
		{name: "a.txt", content: "a"},
		{name: "b/c.txt", content: "c"},
	})))
	dest := t.TempDir()

	require.NoError(t, newExtractor(t).Extract(dest, src, ports.ExtractOptions{Verbose: true}))

	assert.FileExists(t, filepath.Join(dest, "a.txt"))
	assert.FileExists(t, filepath.Join(dest, "b", "c.txt"))
}

func TestExtract_Zip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{"pkg-1.0/README": "readme", "pkg-1.0/lib/a.c": "int a;"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	src := writeArchive(t, "pkg.zip", buf.Bytes())
	dest := t.TempDir()
	require.NoError(t, newExtractor(t).Extract(dest, src, ports.ExtractOptions{}))

	assert.FileExists(t, filepath.Join(dest, "README"))
	assert.FileExists(t, filepath.Join(dest, "lib", "a.c"))
}

func TestExtract_RejectsPathTraversal(t *testing.T) {
	src := writeArchive(t, "evil.tar", tarball(t, []entry{{name: "../../escape.txt", content: "x"}}))
	dest := t.TempDir()

	err := newExtractor(t).Extract(dest, src, ports.ExtractOptions{})
	require.ErrorIs(t, err, domain.ErrArchive)
	assert.Equal(t, domain.KindArchive, domain.KindOf(err))
}

func TestExtract_RejectsWritesThroughSymlinks(t *testing.T) {
	outside := t.TempDir()

	tests := []struct {
		name    string
		entries []entry
	}{
		{name: "absolute link", entries: []entry{
			{name: "pkg/out", link: outside},
			{name: "pkg/out/file", content: "x"},
		}},
		{name: "relative link leaving the tree", entries: []entry{
			{name: "pkg/out", link: "../../../../../../../../../../" + outside},
			{name: "pkg/out/file", content: "x"},
		}},
		{name: "link to the parent of the tree", entries: []entry{
			{name: "pkg/self", link: "."},
			{name: "pkg/self/up", link: "../.."},
			{name: "pkg/self/up/file", content: "x"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeArchive(t, "evil.tar", tarball(t, tt.entries))
			dest := t.TempDir()

			err := newExtractor(t).Extract(dest, src, ports.ExtractOptions{})
			require.ErrorIs(t, err, domain.ErrArchive)
			assert.NoFileExists(t, filepath.Join(outside, "file"))
			assert.NoFileExists(t, filepath.Join(dest, "file"))
		})
	}
}

func TestExtract_KeepsLinksInsideTheTree(t *testing.T) {
	src := writeArchive(t, "libz.tar", tarball(t, []entry{
		{name: "zlib/lib/libz.so.1", content: "elf"},
		{name: "zlib/lib/libz.so", link: "libz.so.1"},
		{name: "zlib/include", link: "lib/../lib"},
	}))
	dest := t.TempDir()

	require.NoError(t, newExtractor(t).Extract(dest, src, ports.ExtractOptions{PreserveTimestamps: true}))

	link, err := os.Readlink(filepath.Join(dest, "lib", "libz.so"))
	require.NoError(t, err)
	assert.Equal(t, "libz.so.1", link)
	data, err := os.ReadFile(filepath.Join(dest, "include", "libz.so.1"))
	require.NoError(t, err)
	assert.Equal(t, "elf", string(data))
}

func TestExtract_CorruptArchive(t *testing.T) {
	src := writeArchive(t, "broken.tar.xz", []byte("not xz at all"))

	err := newExtractor(t).Extract(t.TempDir(), src, ports.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrArchive)
}

func TestExtract_CopiesNonArchives(t *testing.T) {
	src := writeArchive(t, "fix.patch", []byte("--- a\n+++ b\n"))
	dest := t.TempDir()

	require.NoError(t, newExtractor(t).Extract(dest, src, ports.ExtractOptions{}))

	data, err := os.ReadFile(filepath.Join(dest, "fix.patch"))
	require.NoError(t, err)
	assert.Equal(t, "--- a\n+++ b\n", string(data))
}
