// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads known report bulletins into the input directory.
// Acquisition stays outside the parse pipeline: the pipeline only ever
// reads local files, and hosts that block non-browser clients remain a
// manual download.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mihiarc/stumpage/internal/httputil"
	"github.com/mihiarc/stumpage/pkg/types"
)

const defaultUserAgent = "stumpage/1.0 (timber price research)"

// BatchResult holds the outcome of a fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of bulletins attempted.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// Fetcher downloads bulletins from one or more catalog sources.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
}

// New builds a Fetcher, applying config defaults.
func New(cfg types.FetchConfig) *Fetcher {
	if cfg.Delay <= 0 {
		cfg.Delay = time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// FetchSource downloads every bulletin the source knows about, scraping
// the index page first when one is configured. Individual failures are
// counted, not fatal.
func (f *Fetcher) FetchSource(ctx context.Context, src Source, w io.Writer) BatchResult {
	log := zap.L().With(zap.String("component", "fetch"), zap.String("source", src.Name))

	bulletins := append([]Bulletin(nil), src.Known...)
	if src.IndexURL != "" {
		scraped, err := f.scrapeIndex(ctx, src.IndexURL)
		if err != nil {
			log.Warn("index page unreachable", zap.String("url", src.IndexURL), zap.Error(err))
			fmt.Fprintf(w, "index failed: %s (%v)\n", src.IndexURL, err)
		}
		bulletins = append(bulletins, scraped...)
	}

	var result BatchResult
	for i, b := range bulletins {
		if i > 0 {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(f.cfg.Delay):
			}
		}

		switch err := f.download(ctx, b); {
		case err == nil:
			result.Downloaded++
			fmt.Fprintf(w, "downloaded: %s\n", b.Filename)
		case errors.Is(err, errExists):
			result.Skipped++
			fmt.Fprintf(w, "skipped: %s (already exists)\n", b.Filename)
		default:
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", b.Filename, err)
			log.Warn("download failed", zap.String("url", b.URL), zap.Error(err))
		}
	}
	return result
}

var errExists = errors.New("already exists")

// download fetches one bulletin to a temp file and renames it into place
// so an interrupted run never leaves a truncated document behind.
func (f *Fetcher) download(ctx context.Context, b Bulletin) error {
	dest := filepath.Join(f.cfg.DestDir, b.Filename)
	if _, err := os.Stat(dest); err == nil {
		return errExists
	}

	if err := os.MkdirAll(f.cfg.DestDir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", f.cfg.DestDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf,*/*;q=0.8")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", b.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: status %s", b.URL, resp.Status)
	}

	tmp, err := os.CreateTemp(f.cfg.DestDir, b.Filename+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", b.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// scrapeIndex fetches an HTML index page and collects its PDF links.
func (f *Fetcher) scrapeIndex(ctx context.Context, indexURL string) ([]Bulletin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching index: status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing index page: %w", err)
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("parsing index URL: %w", err)
	}

	var bulletins []Bulletin
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(strings.ToLower(href), ".pdf") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		bulletins = append(bulletins, Bulletin{URL: abs, Filename: path.Base(ref.Path)})
	})
	return bulletins, nil
}
