package cas_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/adapters/cas"
	xfs "go.trai.ch/xcpkg/internal/adapters/fs"
	"go.trai.ch/xcpkg/internal/core/domain"
)

var target = domain.Platform{Name: "iPhoneOS", Version: "12.0", Arch: "arm64"}

func newStore(t *testing.T) (*cas.Store, domain.Layout) {
	t.Helper()
	layout := domain.NewLayout(t.TempDir())
	return cas.NewStore(layout, xfs.NewHasher()), layout
}

func TestStore_NewIDIsUniquePerCall(t *testing.T) {
	store, _ := newStore(t)
	tick := time.Unix(1700000000, 0)
	store.SetClock(func() time.Time {
		tick = tick.Add(time.Nanosecond)
		return tick
	})

	a := store.NewID("zlib")
	b := store.NewID("zlib")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestStore_LookupRequiresReceipt(t *testing.T) {
	store, layout := newStore(t)

	_, ok := store.Lookup(target, "zlib")
	assert.False(t, ok, "missing link")

	dir := filepath.Join(layout.InstalledRoot(target), "abc")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, store.Publish(layout.InstalledLink(target, "zlib"), dir))

	_, ok = store.Lookup(target, "zlib")
	assert.False(t, ok, "link without receipt")

	require.NoError(t, store.WriteReceipt(dir, domain.Receipt{Formula: "summary: zlib", Target: target}))

	got, ok := store.Lookup(target, "zlib")
	require.True(t, ok)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_PublishReplacesLinkAndKeepsOldTarget(t *testing.T) {
	store, layout := newStore(t)
	root := layout.InstalledRoot(target)
	oldDir := filepath.Join(root, "old")
	newDir := filepath.Join(root, "new")
	require.NoError(t, os.MkdirAll(oldDir, 0o750))
	require.NoError(t, os.MkdirAll(newDir, 0o750))

	link := layout.InstalledLink(target, "zlib")
	require.NoError(t, store.Publish(link, oldDir))
	require.NoError(t, store.Publish(link, newDir))

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, newDir, dest)
	assert.DirExists(t, oldDir)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "temporary link left behind: %s", e.Name())
	}
}

func TestStore_PublishOverRealDirectory(t *testing.T) {
	store, layout := newStore(t)
	link := layout.NativeLink("m4")
	require.NoError(t, os.MkdirAll(filepath.Join(link, "bin"), 0o750))
	dir := filepath.Join(layout.Native, "deadbeef")
	require.NoError(t, os.MkdirAll(dir, 0o750))

	require.NoError(t, store.Publish(link, dir))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode()&os.ModeSymlink)
}

func TestStore_WriteManifest(t *testing.T) {
	store, _ := newStore(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib", "pkgconfig"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "include"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "include", "zlib.h"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "libz.a"), nil, 0o600))
	require.NoError(t, store.WriteReceipt(dir, domain.Receipt{Formula: "x"}))

	require.NoError(t, store.WriteManifest(dir))
	// A second run must not list the manifest written by the first.
	require.NoError(t, store.WriteManifest(dir))

	data, err := os.ReadFile(filepath.Join(dir, ".xcpkg", "MANIFEST"))
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"d|.xcpkg/",
		"f|.xcpkg/receipt.txt",
		"d|include/",
		"f|include/zlib.h",
		"d|lib/",
		"f|lib/libz.a",
		"d|lib/pkgconfig/",
	}, "\n")+"\n", string(data))
}

func TestStore_NativeReceiptRoundTrip(t *testing.T) {
	store, layout := newStore(t)

	_, _, ok := store.NativeReceipt("m4")
	assert.False(t, ok)

	dir := filepath.Join(layout.Native, "0123")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, store.WriteNativeReceipt(dir, "feedface"))
	require.NoError(t, store.Publish(layout.NativeLink("m4"), dir))

	sha, got, ok := store.NativeReceipt("m4")
	require.True(t, ok)
	assert.Equal(t, "feedface", sha)
	assert.Equal(t, filepath.Base(dir), filepath.Base(got))
}

func TestStore_NativeReceiptSitsBesideTheTools(t *testing.T) {
	store, layout := newStore(t)

	dir := filepath.Join(layout.Native, "abc")
	require.NoError(t, store.WriteNativeReceipt(dir, "feedface"))

	data, err := os.ReadFile(filepath.Join(layout.Native, "abc", "receipt.txt"))
	require.NoError(t, err)
	assert.Equal(t, "feedface\n", string(data))
	assert.NoFileExists(t, filepath.Join(dir, ".xcpkg", "receipt.txt"))
}
