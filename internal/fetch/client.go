// Package fetch retrieves HTML pages over HTTP for the extractor: the first
// page of ExtractFromURL, next pages and same-origin frames.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/sr3d/node-readability/types"
)

// DefaultUserAgent identifies the extractor to the sites it reads.
const DefaultUserAgent = "Mozilla/5.0 (compatible; " + types.Name + "/" + types.Version + ")"

const (
	// DefaultMaxBodyBytes caps the bytes read from a single response.
	DefaultMaxBodyBytes int64 = 16 * 1024 * 1024

	defaultRedirectHops = 5
	retryBackoff        = 200 * time.Millisecond
)

var errServerStatus = errors.New("server error")

// Client wraps http.Client with a per-request timeout, a redirect cap and
// limited retry of 5xx responses. It implements types.Fetcher.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt. Zero leaves it to ctx.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	// MaxBodyBytes caps the body size. Zero means DefaultMaxBodyBytes, negative
	// means unlimited.
	MaxBodyBytes int64

	Logger zerolog.Logger
}

var _ types.Fetcher = (*Client)(nil)

// NewClient returns a client with two attempts per request.
func NewClient(userAgent string, timeout time.Duration, logger zerolog.Logger) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		UserAgent:         userAgent,
		MaxAttempts:       2,
		PerRequestTimeout: timeout,
		Logger:            logger,
	}
}

// Fetch issues a GET for rawURL. Non-2xx responses other than 5xx are
// returned without error so the caller can judge them; 5xx responses are
// retried and reported as an error once the attempts run out. The body is
// decoded to UTF-8 using the declared or sniffed charset.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*types.PageResponse, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var resp *types.PageResponse
	var err error
	for i := 0; i < attempts; i++ {
		resp, err = c.tryOnce(ctx, rawURL)
		if err == nil || !isTransient(err) || i == attempts-1 {
			break
		}

		wait := time.Duration(i+1) * retryBackoff
		c.Logger.Debug().Err(err).Str("url", rawURL).Dur("backoff", wait).Msg("retrying request")
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-time.After(wait):
		}
	}
	return resp, err
}

func (c *Client) tryOnce(ctx context.Context, rawURL string) (*types.PageResponse, error) {
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme)
	}
	req.Header.Set("Accept", "text/html")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	page := &types.PageResponse{
		URL:    res.Request.URL.String(),
		Status: res.StatusCode,
		Header: res.Header,
	}
	if res.StatusCode >= 500 && res.StatusCode <= 599 {
		return page, fmt.Errorf("%w: %d", errServerStatus, res.StatusCode)
	}

	body, err := readLimited(res.Body, c.maxBodyBytes())
	if err != nil {
		return page, fmt.Errorf("read body: %w", err)
	}
	page.Body = decode(body, res.Header.Get("Content-Type"))

	c.Logger.Debug().
		Str("url", page.URL).
		Int("status", page.Status).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched page")
	return page, nil
}

func (c *Client) httpClient() *http.Client {
	var client http.Client
	if c.HTTPClient != nil {
		// Copy so the redirect policy never leaks into the caller's client
		client = *c.HTTPClient
	}
	client.CheckRedirect = c.checkRedirect
	return &client
}

func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	hops := c.RedirectMaxHops
	if hops <= 0 {
		hops = defaultRedirectHops
	}
	if len(via) >= hops {
		return errors.New("too many redirects")
	}
	if !isHTTPScheme(req.URL) {
		return errors.New("redirect to unsupported scheme")
	}
	return nil
}

func (c *Client) maxBodyBytes() int64 {
	if c.MaxBodyBytes == 0 {
		return DefaultMaxBodyBytes
	}
	return c.MaxBodyBytes
}

// readLimited reads r and fails when it holds more than limit bytes. A limit
// of zero or less reads everything.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}

// decode converts body to UTF-8. Bodies that cannot be decoded are returned
// as they are.
func decode(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

func isTransient(err error) bool {
	return errors.Is(err, errServerStatus) || errors.Is(err, context.DeadlineExceeded)
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
