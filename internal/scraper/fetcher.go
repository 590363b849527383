package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// Fetch failures the handlers map to distinct user-facing messages. The
// scraped site is uncontrolled, so these are expected operational states,
// not bugs.
var (
	ErrConnectionFailed = errors.New("unable to connect to the distributor site, check your network connection")
	ErrTimeout          = errors.New("the distributor site took too long to respond")
	ErrAccessDenied     = errors.New("access denied by the distributor site, automated requests may be blocked")
	ErrPageNotFound     = errors.New("page not found, check the URL")
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodySize caps listing pages at 10 MB
const maxBodySize = 10 << 20

// Fetcher retrieves listing pages with a browser-like request signature
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads one page and returns its HTML
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if referer := siteRoot(pageURL); referer != "" {
		req.Header.Set("Referer", referer+"/")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classifyFetchError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return "", ErrAccessDenied
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrPageNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}

func classifyFetchError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return ErrConnectionFailed
	}
	return fmt.Errorf("failed to fetch page: %w", err)
}

// siteRoot returns scheme://host for a page URL, or "" when unparseable
func siteRoot(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
