package httpx

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
)

const (
	DefaultConnectTimeout = 9050 * time.Millisecond
	DefaultTotalTimeout   = 27 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// error bodies are only kept for diagnostics
	maxErrorBody = 4 << 10
)

// ClientConfig configures the page fetch client.
type ClientConfig struct {
	ConnectTimeout time.Duration
	TotalTimeout   time.Duration
	UserAgent      string

	// Pacer spaces out requests per host. Nil means no pacing.
	Pacer *Pacer
}

// Client fetches HTML pages. Every Get is one attempt: retries are the caller's business (see Do).
type Client struct {
	HTTP      *http.Client
	UserAgent string
	pacer     *Pacer
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.TotalTimeout <= 0 {
		cfg.TotalTimeout = DefaultTotalTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 64,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		HTTP: &http.Client{
			Transport: tr,
			Timeout:   cfg.TotalTimeout,
		},
		UserAgent: cfg.UserAgent,
		pacer:     cfg.Pacer,
	}
}

// Get fetches rawURL and parses it as HTML.
// Non-2xx responses come back as *HTTPError; connection failures and timeouts are wrapped as-is.
func (c *Client) Get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("httpx: invalid url %q: %w", rawURL, err)
	}

	if err := c.pacer.Wait(ctx, u.Host); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("httpx: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "br, gzip")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpx: get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("httpx: get %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       b,
		}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("httpx: read %s: %w", rawURL, err)
	}
	return doc, nil
}

// decodeBody undoes the Content-Encoding we asked for. Since Accept-Encoding is set
// explicitly, net/http leaves gzip to us as well.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		return zr, nil
	default:
		return resp.Body, nil
	}
}
