package domain

import (
	"net/url"
	"path"
	"strings"
)

var archiveSuffixes = []struct {
	suffix string
	ext    string
}{
	{".tar.gz", ".tgz"},
	{".tar.xz", ".txz"},
	{".tar.lz", ".tlz"},
	{".tar.bz2", ".tbz2"},
	{".tar.zst", ".tzst"},
	{".tgz", ".tgz"},
	{".txz", ".txz"},
	{".tlz", ".tlz"},
	{".tbz2", ".tbz2"},
	{".tbz", ".tbz2"},
	{".tzst", ".tzst"},
	{".crate", ".crate"},
	{".zip", ".zip"},
	{".tar", ".tar"},
}

// ArchiveExt returns the normalised archive extension of a URL or file name.
// Unknown extensions are returned unchanged; the extractor copies those files verbatim.
func ArchiveExt(rawURL string) string {
	name := FileName(rawURL)
	lower := strings.ToLower(name)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.ext
		}
	}
	return path.Ext(name)
}

// FileName returns the last path element of a URL, ignoring query and fragment.
func FileName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}
