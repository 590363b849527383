// Package scraper extracts product listings from the distributor's search
// pages. The markup it parses is uncontrolled and changes without notice;
// everything here is deliberately disposable integration code kept behind
// the narrow Fetch/Extract seam so the catalog and invoice logic never
// touch it.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type Scraper struct {
	fetcher  *Fetcher
	siteBase string
	delay    time.Duration
}

// New creates a scraper for the given site base URL. delay is the fixed
// pause between consecutive requests to the site.
func New(siteBase string, timeout, delay time.Duration) *Scraper {
	return &Scraper{
		fetcher:  NewFetcher(timeout),
		siteBase: siteBase,
		delay:    delay,
	}
}

// ScrapePage fetches one listing page and extracts up to limit records
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string, limit int) ([]Record, error) {
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	base := siteRoot(pageURL)
	if base == "" {
		base = s.siteBase
	}
	return ExtractRecords(html, base, limit)
}

// SearchURL builds the keyword search URL for one result page
func (s *Scraper) SearchURL(term string, page int) string {
	return fmt.Sprintf("%s/Search/Refine?Keyword=%s&P=%d", s.siteBase, url.QueryEscape(term), page)
}

// WaitFor sleeps between requests to the site, or returns early when the
// context is cancelled. A non-positive delay falls back to the scraper's
// configured one. All requests are spaced through this to avoid getting
// blocked.
func (s *Scraper) WaitFor(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		delay = s.delay
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
