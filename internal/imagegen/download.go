package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/slides"
)

// Downloader materializes generated images on local disk.
type Downloader struct {
	httpClient *http.Client
}

// DownloaderOption customizes a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadClient overrides the default HTTP client.
func WithDownloadClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		if client != nil {
			d.httpClient = client
		}
	}
}

// NewDownloader returns a Downloader with no request deadline.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Materialize fetches ref into destination and returns it as an item. The
// body is streamed to a temporary file in the same directory and renamed into
// place, so destination never holds a partial image.
func (d *Downloader) Materialize(ctx context.Context, ref SourceRef, destination string) (slides.Item, error) {
	if ref.URL == "" {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: empty url", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: new request", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: http error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download",
			fmt.Errorf("server returned HTTP %d", resp.StatusCode))
	}

	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: create directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: write body", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: close temp file", err)
	}
	if err := os.Rename(tmpName, destination); err != nil {
		return "", errors.NewWithKind(errors.DownloadFailed, "image download: move into place", err)
	}

	return slides.Item(destination), nil
}
