// Package fetch downloads source archives into the shared downloads cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Downloader = (*Downloader)(nil)

// Downloader fetches resources over HTTP and verifies their sha256.
type Downloader struct {
	client *http.Client
	locker ports.Locker
	hasher ports.Hasher
	logger ports.Logger
}

// NewDownloader creates a Downloader with a client suited to large archives.
func NewDownloader(locker ports.Locker, hasher ports.Hasher, logger ports.Logger) *Downloader {
	client := &http.Client{}
	if base, ok := http.DefaultTransport.(*http.Transport); ok {
		transport := base.Clone()
		transport.TLSHandshakeTimeout = 30 * time.Second
		client.Transport = transport
	}
	return NewDownloaderWithClient(client, locker, hasher, logger)
}

// NewDownloaderWithClient creates a Downloader using client.
func NewDownloaderWithClient(client *http.Client, locker ports.Locker, hasher ports.Hasher, logger ports.Logger) *Downloader {
	return &Downloader{client: client, locker: locker, hasher: hasher, logger: logger}
}

// CachePath returns where res is stored inside destDir.
func CachePath(res domain.Resource, destDir string) string {
	if res.SHA == "" {
		return filepath.Join(destDir, domain.FileName(res.URL))
	}
	return filepath.Join(destDir, res.SHA+domain.ArchiveExt(res.URL))
}

// Fetch downloads res into destDir unless a verified copy is already cached.
func (d *Downloader) Fetch(ctx context.Context, res domain.Resource, destDir string) (string, error) {
	if res.IsZero() {
		return "", zerr.Wrap(domain.ErrArgument, "resource has no url")
	}
	if err := os.MkdirAll(destDir, domain.DirPerm); err != nil {
		return "", domain.IOError("failed to create downloads directory", destDir, err)
	}

	final := CachePath(res, destDir)

	lock, err := d.locker.Lock(final + ".lock")
	if err != nil {
		return "", err
	}
	defer func() { _ = lock.Unlock() }()

	if d.cached(final, res.SHA) {
		d.logger.Debug("using cached " + final)
		return final, nil
	}

	tmp := fmt.Sprintf("%s.%s.tmp", final, uuid.NewString())
	defer func() { _ = os.Remove(tmp) }()

	var lastErr error
	for _, url := range []string{res.URL, res.URI} {
		if url == "" {
			continue
		}
		d.logger.Info("downloading " + url)
		if err := d.download(ctx, url, tmp); err != nil {
			d.logger.Warn(fmt.Sprintf("download of %s failed: %v", url, err))
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(errors.Join(domain.ErrNetwork, lastErr), "all download locations failed"),
			"url", res.URL), "uri", res.URI)
	}

	if res.SHA != "" {
		actual, err := d.hasher.HashFile(tmp)
		if err != nil {
			return "", err
		}
		if actual != res.SHA {
			return "", zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrChecksumMismatch, "downloaded content does not match the declared sha256"),
				"url", res.URL), "expected", res.SHA), "actual", actual)
		}
	}

	if err := os.Rename(tmp, final); err != nil {
		return "", domain.IOError("failed to move download into place", final, err)
	}
	return final, nil
}

func (d *Downloader) cached(path, sha string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if sha == "" {
		return true
	}
	actual, err := d.hasher.HashFile(path)
	if err != nil || actual != sha {
		d.logger.Warn("discarding corrupt cached file " + path)
		_ = os.Remove(path)
		return false
	}
	return true
}

func (d *Downloader) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	out, err := os.Create(dest) //nolint:gosec // destination is inside the downloads cache
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
