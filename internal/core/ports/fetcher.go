package ports

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// NameFunc derives the archive filename from the final response of a download.
// finalURL is the request URL after all redirects were followed.
type NameFunc func(finalURL *url.URL, header http.Header) (string, error)

// Fetcher performs the HTTP requests providers need.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Page fetches rawURL and returns the response body.
	Page(ctx context.Context, rawURL string) ([]byte, error)

	// Download streams rawURL into dir under the name returned by name
	// and returns the written path.
	Download(ctx context.Context, rawURL, dir string, name NameFunc) (string, error)

	// SetTimeout bounds each subsequent request. Zero disables the bound.
	SetTimeout(d time.Duration)
}
