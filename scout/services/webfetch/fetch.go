// Package webfetch retrieves arbitrary pages over HTTP with per-domain rate
// limiting, a private/loopback host blocklist, and a byte-length cap, then
// hands the body to the extractor. Any network, timeout, size-cap, or
// rate-limit failure surfaces as a single normalized error carrying the
// original cause; a fetch never partially returns a WebContent.
package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"scout/scout/services/ratelimit"
	"scout/scout/services/webextract"
	"scout/scout/types"
	"scout/scout/utils/logging"
)

const userAgent = "scout-webintel/1.0"

const (
	defaultMaxContentLength = 50000
	defaultTimeoutMs        = 10000
)

var (
	ErrBlockedURL  = errors.New("url is not fetchable")
	ErrRateLimited = errors.New("domain rate limited")
	ErrFetchFailed = errors.New("fetch failed")
)

// ContentCache is the optional read-through cache for extracted pages.
// *storage.MinIOClient satisfies it.
type ContentCache interface {
	GetWebContent(ctx context.Context, url string) (*types.WebContent, error)
	PutWebContent(ctx context.Context, url string, content types.WebContent) (string, error)
}

type Service struct {
	limiter *ratelimit.Limiter
	cache   ContentCache

	// allowLocal disables the host blocklist so tests can fetch from
	// loopback listeners.
	allowLocal bool
}

// NewService creates a fetch service. cache may be nil, which disables the
// read-through cache.
func NewService(limiter *ratelimit.Limiter, cache ContentCache) *Service {
	return &Service{limiter: limiter, cache: cache}
}

// blockedHosts are matched against the literal hostname; no DNS resolution
// happens before blocking.
var blockedHosts = []string{
	"localhost",
	"0.0.0.0",
	"metadata.google.internal",
}

var blockedSuffixes = []string{
	".local",
	".internal",
}

// CheckFetchable rejects URLs before any network I/O: only http/https, and
// never loopback, link-local, or private hosts.
func CheckFetchable(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlockedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported protocol %q", ErrBlockedURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrBlockedURL)
	}
	for _, blocked := range blockedHosts {
		if host == blocked {
			return fmt.Errorf("%w: blocked host %q", ErrBlockedURL, host)
		}
	}
	for _, suffix := range blockedSuffixes {
		if strings.HasSuffix(host, suffix) {
			return fmt.Errorf("%w: blocked host %q", ErrBlockedURL, host)
		}
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("%w: blocked address %q", ErrBlockedURL, host)
		}
	}
	return nil
}

func (s *Service) Fetch(ctx context.Context, req types.FetchRequest) (*types.WebContent, error) {
	if !s.allowLocal {
		if err := CheckFetchable(req.URL); err != nil {
			return nil, err
		}
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlockedURL, err)
	}
	domain := u.Hostname()

	if s.cache != nil {
		if cached, err := s.cache.GetWebContent(ctx, req.URL); err == nil {
			logging.AppLogger.Info("fetch cache hit", zap.String("url", req.URL))
			return cached, nil
		}
	}

	if !s.limiter.Allow(domain) {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, domain)
	}

	maxLen := req.MaxContentLength
	if maxLen <= 0 {
		maxLen = defaultMaxContentLength
	}
	timeoutMs := req.Timeout
	if timeoutMs <= 0 {
		timeoutMs = defaultTimeoutMs
	}

	client := &http.Client{
		Timeout: time.Duration(timeoutMs) * time.Millisecond,
	}
	if req.FollowRedirects == nil || !*req.FollowRedirects {
		client.CheckRedirect = func(r *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	// Read one byte past the cap to detect oversized bodies.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxLen)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(body) > maxLen {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", ErrFetchFailed, maxLen)
	}

	clean := req.CleanContent == nil || *req.CleanContent
	content := webextract.Extract(string(body), req.URL, webextract.Options{CleanContent: clean})
	content.Metadata.LastModified = resp.Header.Get("Last-Modified")

	if s.cache != nil {
		if _, err := s.cache.PutWebContent(ctx, req.URL, content); err != nil {
			logging.AppLogger.Warn("fetch cache store failed", zap.String("url", req.URL), zap.Error(err))
		}
	}

	return &content, nil
}
