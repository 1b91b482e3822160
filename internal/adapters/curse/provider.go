// Package curse implements the Provider port for CurseForge and WowAce.
// Both sites share the same project layout and differ only in host.
package curse

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// CurseBaseURL hosts projects of the curse provider.
	CurseBaseURL = "https://wow.curseforge.com"
	// AceBaseURL hosts projects of the ace provider.
	AceBaseURL = "https://wowace.com"

	selectorFileItem = ".project-file-list-item"
	selectorFileName = `.project-file-name [data-action="file-link"]`
	selectorUploaded = ".project-file-date-uploaded abbr"
	attrEpoch        = "data-epoch"
)

// Provider resolves and fetches addons from a CurseForge-style files listing.
type Provider struct {
	kind    domain.ProviderKind
	baseURL string
	fetcher ports.Fetcher
}

// NewCurse creates the provider for wow.curseforge.com.
func NewCurse(fetcher ports.Fetcher) *Provider {
	return newProvider(domain.ProviderCurse, CurseBaseURL, fetcher)
}

// NewAce creates the provider for wowace.com.
func NewAce(fetcher ports.Fetcher) *Provider {
	return newProvider(domain.ProviderAce, AceBaseURL, fetcher)
}

func newProvider(kind domain.ProviderKind, baseURL string, fetcher ports.Fetcher) *Provider {
	return &Provider{kind: kind, baseURL: strings.TrimSuffix(baseURL, "/"), fetcher: fetcher}
}

// Kind implements ports.Provider.
func (p *Provider) Kind() domain.ProviderKind {
	return p.kind
}

// FilesURL returns the files listing of an addon, releases sorted first so
// the first page is never filled with alpha builds.
func (p *Provider) FilesURL(name string) string {
	return p.baseURL + "/projects/" + url.PathEscape(name) + "/files?sort=releasetype"
}

// LatestURL returns the redirecting download link of an addon's newest file.
func (p *Provider) LatestURL(name string) string {
	return p.baseURL + "/projects/" + url.PathEscape(name) + "/files/latest"
}

// Resolve picks the file with the newest upload epoch. The previous lock is
// not needed since addon names are stable identifiers on these sites.
func (p *Provider) Resolve(
	ctx context.Context,
	req domain.AddonRequest,
	_ *domain.ResolvedLock,
	progress ports.Progress,
) (domain.ResolvedLock, error) {
	progress.Step(domain.StepDownloadingMetadata)
	filesURL := p.FilesURL(req.Name)
	body, err := p.fetcher.Page(ctx, filesURL)
	if err != nil {
		return domain.ResolvedLock{}, err
	}

	progress.Step(domain.StepParsingMetadata)
	version, epoch, err := parseFilesPage(body)
	if err != nil {
		return domain.ResolvedLock{}, zerr.With(err, "url", filesURL)
	}

	return domain.ResolvedLock{
		Key:         req.Key(),
		ResolvedID:  req.Name,
		Version:     version,
		PublishedAt: epoch,
	}, nil
}

// Fetch downloads the latest file. Its name is the last segment of the URL
// the download link redirects to.
func (p *Provider) Fetch(
	ctx context.Context,
	req domain.AddonRequest,
	lock domain.ResolvedLock,
	dir string,
	progress ports.Progress,
) (domain.DownloadedArchive, error) {
	progress.Step(domain.StepReadingFilename)
	progress.Step(domain.StepDownloading)
	archivePath, err := p.fetcher.Download(ctx, p.LatestURL(req.Name), dir, lastPathSegment)
	if err != nil {
		return domain.DownloadedArchive{}, err
	}
	progress.Step(domain.StepWritingFile)

	return domain.DownloadedArchive{Path: archivePath, Lock: lock}, nil
}

func parseFilesPage(body []byte) (string, uint64, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", 0, domain.ParseError(err)
	}

	items := doc.Find(selectorFileItem)
	if items.Length() == 0 {
		return "", 0, elementNotFound(selectorFileItem)
	}

	var (
		version string
		newest  uint64
		found   bool
		itemErr error
	)
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		label := item.Find(selectorFileName).First()
		if label.Length() == 0 {
			itemErr = elementNotFound(selectorFileName)
			return false
		}

		raw, ok := item.Find(selectorUploaded).First().Attr(attrEpoch)
		if !ok {
			itemErr = elementNotFound(selectorUploaded + "[" + attrEpoch + "]")
			return false
		}
		epoch, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			itemErr = domain.ParseError(zerr.With(zerr.Wrap(err, domain.ErrInvalidTimestamp.Error()), "value", raw))
			return false
		}

		if !found || epoch > newest {
			version = strings.TrimSpace(label.Text())
			newest = epoch
			found = true
		}
		return true
	})
	if itemErr != nil {
		return "", 0, itemErr
	}

	return version, newest, nil
}

func lastPathSegment(finalURL *url.URL, _ http.Header) (string, error) {
	name := path.Base(finalURL.Path)
	if name == "/" || name == "." {
		return "", domain.ParseError(zerr.With(domain.ErrMissingFilename, "url", finalURL.String()))
	}
	return name, nil
}

func elementNotFound(selector string) error {
	return domain.ParseError(zerr.With(domain.ErrElementNotFound, "selector", selector))
}
