// Package tukui implements the Provider port for tukui.org.
//
// The flagship UIs (tukui, elvui) are published on their own download pages
// and linked from the home page. Every other addon lives in the addon index
// and is addressed by a numeric id that is found once by search and then
// carried over in the lock file.
package tukui

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/zerr"
)

// BaseURL is the tukui.org origin.
const BaseURL = "https://www.tukui.org"

const (
	selectorUIVersion    = "#version b.Premium"
	selectorAddonExtras  = "#extras b.VIP"
	selectorSearchResult = ".addons.addons-list a"

	uiDateLayout    = "2006-01-02"
	addonDateLayout = "Jan _2, 2006 15:04"
)

// flagship lists the addons published as standalone UIs.
var flagship = map[string]bool{
	"tukui": true,
	"elvui": true,
}

// Provider resolves and fetches addons from tukui.org.
type Provider struct {
	baseURL string
	fetcher ports.Fetcher
}

// New creates a tukui provider.
func New(fetcher ports.Fetcher) *Provider {
	return &Provider{baseURL: BaseURL, fetcher: fetcher}
}

// Kind implements ports.Provider.
func (p *Provider) Kind() domain.ProviderKind {
	return domain.ProviderTukui
}

// IsFlagship reports whether name is one of the standalone UIs.
func IsFlagship(name string) bool {
	return flagship[name]
}

// Resolve dispatches to the UI or the addon index path.
func (p *Provider) Resolve(
	ctx context.Context,
	req domain.AddonRequest,
	previous *domain.ResolvedLock,
	progress ports.Progress,
) (domain.ResolvedLock, error) {
	var (
		lock domain.ResolvedLock
		err  error
	)
	if IsFlagship(req.Name) {
		lock, err = p.resolveUI(ctx, req, progress)
	} else {
		lock, err = p.resolveAddon(ctx, req, previous, progress)
	}
	if err != nil {
		return domain.ResolvedLock{}, err
	}
	lock.Key = req.Key()
	return lock, nil
}

// Fetch dispatches to the UI or the addon index download.
func (p *Provider) Fetch(
	ctx context.Context,
	req domain.AddonRequest,
	lock domain.ResolvedLock,
	dir string,
	progress ports.Progress,
) (domain.DownloadedArchive, error) {
	var (
		archivePath string
		err         error
	)
	if IsFlagship(req.Name) {
		archivePath, err = p.fetchUI(ctx, req, dir, progress)
	} else {
		archivePath, err = p.fetchAddon(ctx, req, dir, progress)
	}
	if err != nil {
		return domain.DownloadedArchive{}, err
	}
	progress.Step(domain.StepWritingFile)
	return domain.DownloadedArchive{Path: archivePath, Lock: lock}, nil
}

func (p *Provider) resolveUI(ctx context.Context, req domain.AddonRequest, progress ports.Progress) (domain.ResolvedLock, error) {
	progress.Step(domain.StepDownloadingMetadata)
	pageURL := p.baseURL + "/download.php?ui=" + url.QueryEscape(req.Name)
	doc, err := p.document(ctx, pageURL)
	if err != nil {
		return domain.ResolvedLock{}, err
	}

	progress.Step(domain.StepParsingMetadata)
	fields, err := texts(doc, selectorUIVersion, 2)
	if err != nil {
		return domain.ResolvedLock{}, zerr.With(err, "url", pageURL)
	}

	published, err := parseTime(uiDateLayout, fields[1])
	if err != nil {
		return domain.ResolvedLock{}, zerr.With(err, "url", pageURL)
	}

	return domain.ResolvedLock{
		ResolvedID:  req.Name,
		Version:     fields[0],
		PublishedAt: published,
	}, nil
}

func (p *Provider) resolveAddon(
	ctx context.Context,
	req domain.AddonRequest,
	previous *domain.ResolvedLock,
	progress ports.Progress,
) (domain.ResolvedLock, error) {
	var id string
	if previous != nil {
		id = previous.ResolvedID
	}
	if id == "" {
		var err error
		if id, err = p.search(ctx, req.Name, progress); err != nil {
			return domain.ResolvedLock{}, err
		}
	}

	progress.Step(domain.StepDownloadingMetadata)
	pageURL := p.DetailURL(id)
	doc, err := p.document(ctx, pageURL)
	if err != nil {
		return domain.ResolvedLock{}, err
	}

	progress.Step(domain.StepParsingMetadata)
	fields, err := texts(doc, selectorAddonExtras, 3)
	if err != nil {
		return domain.ResolvedLock{}, zerr.With(err, "url", pageURL)
	}

	published, err := parseTime(addonDateLayout, fields[1]+" "+fields[2])
	if err != nil {
		return domain.ResolvedLock{}, zerr.With(err, "url", pageURL)
	}

	return domain.ResolvedLock{
		ResolvedID:  id,
		Version:     fields[0],
		PublishedAt: published,
	}, nil
}

// search finds the addon id of name. The first result is taken as authoritative.
func (p *Provider) search(ctx context.Context, name string, progress ports.Progress) (string, error) {
	progress.Step(domain.StepResolving)
	searchURL := p.SearchURL(name)
	doc, err := p.document(ctx, searchURL)
	if err != nil {
		return "", err
	}

	href, ok := doc.Find(selectorSearchResult).First().Attr("href")
	if !ok {
		return "", zerr.With(elementNotFound(selectorSearchResult), "url", searchURL)
	}

	id := addonID(href)
	if id == "" {
		return "", domain.ParseError(zerr.With(zerr.With(domain.ErrMissingAddonID, "href", href), "url", searchURL))
	}
	return id, nil
}

func (p *Provider) fetchUI(ctx context.Context, req domain.AddonRequest, dir string, progress ports.Progress) (string, error) {
	progress.Step(domain.StepGettingDownloadLink)
	homeURL := p.baseURL + "/welcome.php"
	doc, err := p.document(ctx, homeURL)
	if err != nil {
		return "", err
	}

	prefix := "/downloads/" + req.Name
	var href string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		link := a.AttrOr("href", "")
		if strings.HasPrefix(link, prefix) && strings.HasSuffix(link, ".zip") {
			href = link
		}
	})
	if href == "" {
		return "", zerr.With(elementNotFound(`a[href^="`+prefix+`"][href$=".zip"]`), "url", homeURL)
	}

	filename := path.Base(href)
	progress.Step(domain.StepDownloading)
	return p.fetcher.Download(ctx, p.baseURL+href, dir, func(*url.URL, http.Header) (string, error) {
		return filename, nil
	})
}

func (p *Provider) fetchAddon(ctx context.Context, req domain.AddonRequest, dir string, progress ports.Progress) (string, error) {
	progress.Step(domain.StepReadingFilename)
	progress.Step(domain.StepDownloading)
	return p.fetcher.Download(ctx, p.DownloadURL(req.Name), dir, contentDispositionName)
}

// SearchURL returns the addon index search for name.
func (p *Provider) SearchURL(name string) string {
	return p.baseURL + "/addons.php?search=" + url.QueryEscape(strings.ToLower(name))
}

// DetailURL returns the addon index page of id.
func (p *Provider) DetailURL(id string) string {
	return p.baseURL + "/addons.php?id=" + url.QueryEscape(id)
}

// DownloadURL returns the addon index download link of name.
func (p *Provider) DownloadURL(name string) string {
	return p.baseURL + "/addons.php?download=" + url.QueryEscape(strings.ToLower(name))
}

func (p *Provider) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := p.fetcher.Page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.ParseError(zerr.With(err, "url", pageURL))
	}
	return doc, nil
}

// texts returns the trimmed text of the first n elements matching selector.
func texts(doc *goquery.Document, selector string, n int) ([]string, error) {
	sel := doc.Find(selector)
	if sel.Length() < n {
		return nil, zerr.With(elementNotFound(selector), "found", sel.Length())
	}
	out := make([]string, n)
	sel.Slice(0, n).Each(func(i int, s *goquery.Selection) {
		out[i] = strings.TrimSpace(s.Text())
	})
	return out, nil
}

func parseTime(layout, value string) (uint64, error) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return 0, domain.ParseError(zerr.With(zerr.Wrap(err, domain.ErrInvalidTimestamp.Error()), "value", value))
	}
	if t.Unix() < 0 {
		return 0, domain.ParseError(zerr.With(domain.ErrInvalidTimestamp, "value", value))
	}
	return uint64(t.Unix()), nil
}

// addonID extracts the value following "?id=" in a search result link.
func addonID(href string) string {
	if u, err := url.Parse(href); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
	}
	if _, id, ok := strings.Cut(href, "?id="); ok {
		return id
	}
	return ""
}

// contentDispositionName reads the archive name from the Content-Disposition header.
func contentDispositionName(finalURL *url.URL, header http.Header) (string, error) {
	raw := header.Get("Content-Disposition")
	if _, params, err := mime.ParseMediaType(raw); err == nil && params["filename"] != "" {
		return params["filename"], nil
	}
	if _, name, ok := strings.Cut(raw, "filename="); ok {
		if name = strings.Trim(strings.TrimSpace(name), `"`); name != "" {
			return name, nil
		}
	}
	return "", domain.ParseError(zerr.With(domain.ErrMissingFilename, "url", finalURL.String()))
}

func elementNotFound(selector string) error {
	return domain.ParseError(zerr.With(domain.ErrElementNotFound, "selector", selector))
}
