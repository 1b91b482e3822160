// Package httpclient implements the Fetcher port over net/http.
package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// MaxPageBytes caps the size of an HTML page.
	MaxPageBytes = 16 << 20
	// MaxArchiveBytes caps the size of a downloaded archive.
	MaxArchiveBytes = 512 << 20

	userAgent = "wam (+https://go.trai.ch/wam)"
)

// Client implements ports.Fetcher.
type Client struct {
	httpClient *http.Client
	timeout    atomic.Int64
	maxPage    int64
	maxArchive int64
}

// New creates a Client with the default request timeout and size limits.
func New() *Client {
	return newClient(&http.Client{}, MaxPageBytes, MaxArchiveBytes)
}

func newClient(httpClient *http.Client, maxPage, maxArchive int64) *Client {
	c := &Client{
		httpClient: httpClient,
		maxPage:    maxPage,
		maxArchive: maxArchive,
	}
	c.SetTimeout(domain.DefaultRequestTimeout)
	return c
}

// SetTimeout bounds every subsequent request, body included. Zero disables the bound.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout.Store(int64(d))
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := time.Duration(c.timeout.Load()); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// Page fetches rawURL and returns its body.
func (c *Client) Page(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxPage+1))
	if err != nil {
		return nil, requestFailed(err, rawURL)
	}
	if int64(len(body)) > c.maxPage {
		return nil, tooLarge(rawURL, c.maxPage)
	}
	return body, nil
}

// Download streams rawURL into dir. The file only appears under its final
// name once the body has been written completely.
func (c *Client) Download(ctx context.Context, rawURL, dir string, name ports.NameFunc) (string, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	filename, err := name(resp.Request.URL, resp.Header)
	if err != nil {
		return "", err
	}
	if !validFilename(filename) {
		return "", domain.ParseError(zerr.With(zerr.With(domain.ErrMissingFilename, "url", rawURL), "filename", filename))
	}

	path := filepath.Join(dir, filename)
	if err := c.writeBody(resp.Body, path, rawURL); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, requestFailed(err, rawURL)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, requestFailed(err, rawURL)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		statusErr := zerr.With(domain.ErrUnexpectedStatus, "status_code", resp.StatusCode)
		return nil, domain.TransportError(zerr.With(statusErr, "url", rawURL))
	}
	return resp, nil
}

// writeBody copies body to path through a temp file in the same directory.
func (c *Client) writeBody(body io.Reader, path, rawURL string) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return writeFailed(err, path)
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	src := &readTracker{r: io.LimitReader(body, c.maxArchive+1)}
	n, err := io.Copy(tmpFile, src)
	if err != nil {
		_ = tmpFile.Close()
		if src.err != nil {
			return requestFailed(src.err, rawURL)
		}
		return writeFailed(err, path)
	}
	if n > c.maxArchive {
		_ = tmpFile.Close()
		return tooLarge(rawURL, c.maxArchive)
	}

	if err := tmpFile.Close(); err != nil {
		return writeFailed(err, path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return writeFailed(err, path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return writeFailed(err, path)
	}
	return nil
}

// readTracker remembers read errors so they can be told apart from write errors.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		t.err = err
	}
	return n, err
}

func validFilename(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}

func requestFailed(err error, rawURL string) error {
	return domain.TransportError(zerr.With(zerr.Wrap(err, domain.ErrRequestFailed.Error()), "url", rawURL))
}

func tooLarge(rawURL string, limit int64) error {
	return domain.TransportError(zerr.With(zerr.With(domain.ErrResponseTooLarge, "url", rawURL), "limit_bytes", limit))
}

func writeFailed(err error, path string) error {
	return domain.StorageError(zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", path))
}
