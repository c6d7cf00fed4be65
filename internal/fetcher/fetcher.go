// Package fetcher retrieves page bodies over HTTP. A request that fails on the
// direct client is attempted once more through a colly collector presenting a
// different browser profile; there is no retry loop beyond that.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"github.com/itcaat/olxsearch/internal/logging"
	"github.com/itcaat/olxsearch/internal/models"
)

const (
	chromeUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	firefoxUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14.4; rv:125.0) Gecko/20100101 Firefox/125.0"
)

var directHeaders = map[string]string{
	"User-Agent":                chromeUserAgent,
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
}

var fallbackHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "pt-BR,pt;q=0.8,en-US;q=0.5,en;q=0.3",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"DNT":                       "1",
}

// Fetcher returns the body of url, giving up after timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// Options configures a PageFetcher. Zero values select defaults.
type Options struct {
	// Client is the direct transport; a plain client is built when nil.
	Client *http.Client
	// FallbackTransport backs the colly collector.
	FallbackTransport http.RoundTripper
	// RequestsPerSecond paces outbound requests; <= 0 means unlimited.
	RequestsPerSecond float64
	Logger            *slog.Logger
}

// PageFetcher implements Fetcher with a direct client and a colly fallback.
type PageFetcher struct {
	client    *http.Client
	transport http.RoundTripper
	limiter   *rate.Limiter
	logger    *slog.Logger
}

var _ Fetcher = (*PageFetcher)(nil)

// New builds a PageFetcher from opts.
func New(opts Options) *PageFetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	transport := opts.FallbackTransport
	if transport == nil {
		transport = browserTransport()
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	logger := logging.OrDiscard(opts.Logger)

	return &PageFetcher{
		client:    client,
		transport: transport,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

// Fetch tries the direct client, then the collector. The returned error is a
// *models.TransportError holding both causes.
func (f *PageFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	body, status, err := f.direct(ctx, url, timeout)
	if err == nil {
		return body, nil
	}
	f.logger.Debug("direct fetch failed, using fallback transport", "url", url, "status", status, "error", err)

	body, fbStatus, fbErr := f.viaCollector(ctx, url, timeout)
	if fbErr == nil {
		return body, nil
	}
	if fbStatus != 0 {
		status = fbStatus
	}

	f.logger.Debug("fallback fetch failed", "url", url, "status", status, "error", fbErr)
	return "", &models.TransportError{
		URL:        url,
		StatusCode: status,
		Err:        errors.Join(fmt.Errorf("direct: %w", err), fmt.Errorf("fallback: %w", fbErr)),
	}
}

func (f *PageFetcher) direct(ctx context.Context, url string, timeout time.Duration) (string, int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", 0, fmt.Errorf("wait for request slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	for k, v := range directHeaders {
		req.Header.Set(k, v)
	}

	f.logger.Debug("visiting", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return string(raw), resp.StatusCode, nil
}

func (f *PageFetcher) viaCollector(ctx context.Context, url string, timeout time.Duration) (string, int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", 0, fmt.Errorf("wait for request slot: %w", err)
	}

	c := colly.NewCollector(
		colly.UserAgent(firefoxUserAgent),
		colly.AllowURLRevisit(),
	)
	c.WithTransport(f.transport)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	var (
		body      []byte
		status    int
		scrapeErr error
	)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range fallbackHeaders {
			r.Headers.Set(k, v)
		}
		f.logger.Debug("visiting via collector", "url", r.URL.String())
	})

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		scrapeErr = err
	})

	if err := c.Visit(url); err != nil && scrapeErr == nil {
		scrapeErr = err
	}
	c.Wait()

	if scrapeErr != nil {
		return "", status, fmt.Errorf("collector: %w", scrapeErr)
	}
	if status < 200 || status > 299 {
		return "", status, fmt.Errorf("unexpected status %d", status)
	}
	return string(body), status, nil
}

// browserTransport mirrors the connection settings of a desktop browser:
// HTTP/2 negotiation, modern TLS floor, keep-alive pooling.
func browserTransport() http.RoundTripper {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
