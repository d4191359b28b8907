// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scrape retrieves and extracts course data from the university's
// HTML-rendered catalog: an overview page listing courses per section, and a
// syllabus detail page per course code.
package scrape

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrAllVariantsFailed is returned when no URL suffix variant of a course
// code yields a successful response. The caller treats the course as
// unscraped rather than aborting the batch.
var ErrAllVariantsFailed = errors.New("scrape: all url variants failed")

// DefaultSuffixes is the ordered list of syllabus URL suffix variants:
// Dutch edition, English edition, then the bare page.
var DefaultSuffixes = []string{"N", "E", ""}

// DefaultTimeout bounds each individual page request. A variant that times
// out must not block trying the next one.
const DefaultTimeout = 15 * time.Second

// FetchConfig configures the Fetcher.
type FetchConfig struct {
	// BaseURL is the syllabus base path, e.g.
	// "https://onderwijsaanbod.example.be/2024/syllabi/n/".
	BaseURL string
	// Suffixes are the URL variants tried in order. Defaults to DefaultSuffixes.
	Suffixes []string
	// Timeout is the per-request timeout. Defaults to DefaultTimeout.
	Timeout time.Duration
	// InsecureTLS skips certificate validation. The source serves an
	// incomplete chain; the flag is scoped to this fetcher's transport, not
	// the process default.
	InsecureTLS bool
}

// Page is one successfully fetched document plus the raw body it was parsed
// from, kept for the snapshot archive.
type Page struct {
	Doc *goquery.Document
	URL string
	Raw []byte
}

// Fetcher retrieves catalog pages over HTTP with suffix-variant fallback.
type Fetcher struct {
	cfg    FetchConfig
	client *http.Client
}

// NewFetcher creates a Fetcher from the given configuration, applying
// defaults for unset fields.
func NewFetcher(cfg FetchConfig) *Fetcher {
	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = DefaultSuffixes
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.InsecureTLS {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Fetcher{cfg: cfg, client: client}
}

// Fetch retrieves the syllabus page for a course code, trying each suffix
// variant in order and returning the first success. When every variant fails
// it returns ErrAllVariantsFailed.
func (f *Fetcher) Fetch(ctx context.Context, code string) (*Page, error) {
	for _, suffix := range f.cfg.Suffixes {
		url := fmt.Sprintf("%s%s%s.htm", f.cfg.BaseURL, code, suffix)
		page, err := f.FetchURL(ctx, url)
		if err != nil {
			// Respect cancellation, but a plain transport error or bad
			// status just moves on to the next variant.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Debug("syllabus variant failed", "url", url, "error", err)
			continue
		}
		return page, nil
	}
	return nil, fmt.Errorf("%w: code %s", ErrAllVariantsFailed, code)
}

// FetchURL retrieves and parses a single catalog page.
func (f *Fetcher) FetchURL(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	return &Page{Doc: doc, URL: url, Raw: raw}, nil
}
