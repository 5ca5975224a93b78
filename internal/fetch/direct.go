// Package fetch implements the tiered page-fetch machinery: a retrying
// direct HTTP fetcher, a proxy-routed variant, bot-block detection, and
// the orchestrator that sequences provider, direct, and proxy attempts.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// baseBackoff is the unit of the doubling retry delay. The delay after
	// attempt N is baseBackoff * 2^N; retrying into a live block any faster
	// risks longer-lived bans.
	baseBackoff = 250 * time.Millisecond

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 512 * 1024
)

// Response is a materialized HTTP response body.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Result is the outcome of one fetch tier: at most one of Response or
// BlockedBody is meaningful, Err holds the last transport failure.
type Result struct {
	Response    *Response
	Blocked     bool
	BlockedBody string
	Err         error
}

// Options configures a Fetcher.
type Options struct {
	MaxAttempts int           // default 3
	Timeout     time.Duration // per-attempt, default 10s
	HostRate    rate.Limit    // politeness limit per host, default 2/s
	HostBurst   int           // default 4
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.HostRate <= 0 {
		o.HostRate = 2
	}
	if o.HostBurst <= 0 {
		o.HostBurst = 4
	}
	return o
}

// Fetcher performs direct HTTP GETs with rotated browser headers,
// exponential backoff on transient failures, and early exit on block
// detection. The same type backs the proxy tier with a proxied transport.
type Fetcher struct {
	client *http.Client
	opts   Options
	name   string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	// sleep is injectable so tests can assert backoff timing.
	sleep func(ctx context.Context, d time.Duration)
}

// NewFetcher creates a direct (non-proxied) fetcher.
func NewFetcher(opts Options) *Fetcher {
	return newFetcher("direct", opts, nil)
}

// NewProxyFetcher creates a fetcher routed through an HTTP(S) forward
// proxy. An unparsable proxy URL is an error; callers treat that as
// "proxy unavailable" rather than a hard failure.
func NewProxyFetcher(proxyURL string, opts Options) (*Fetcher, error) {
	u, err := url.Parse(proxyURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, eris.Errorf("fetch: invalid proxy url %q", proxyURL)
	}
	return newFetcher("proxy", opts, http.ProxyURL(u)), nil
}

func newFetcher(name string, opts Options, proxy func(*http.Request) (*url.URL, error)) *Fetcher {
	opts = opts.withDefaults()
	transport := &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		name:     name,
		limiters: make(map[string]*rate.Limiter),
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(f.opts.HostRate, f.opts.HostBurst)
		f.limiters[host] = lim
	}
	return lim
}

// backoffDelay returns the sleep before retrying after a failed attempt.
// Attempts are numbered from 1, so the delays are 500ms, 1s, 2s, ...
func backoffDelay(attempt int) time.Duration {
	return baseBackoff << attempt
}

// Try fetches a URL with up to MaxAttempts attempts. Per-attempt policy:
//
//   - transport error, 429, or 5xx: transient, back off and retry;
//     after the last attempt the error is returned as-is.
//   - 403, or any body matching a block signature: terminal for this
//     tier. The body is captured and returned immediately; escalation
//     is the caller's job; burning more attempts into a block only
//     hardens it.
//   - any other non-2xx: returned immediately, no retry.
//   - 2xx and not blocked: success.
func (f *Fetcher) Try(ctx context.Context, rawURL string) Result {
	var res Result

	u, err := url.Parse(rawURL)
	if err != nil {
		res.Err = eris.Wrapf(err, "%s: parse url", f.name)
		return res
	}
	lim := f.limiterFor(u.Hostname())

	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		if err := lim.Wait(ctx); err != nil {
			res.Err = eris.Wrapf(err, "%s: rate limiter wait", f.name)
			return res
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			res.Err = eris.Wrapf(err, "%s: create request", f.name)
			return res
		}
		browserHeaders(req)

		resp, err := f.client.Do(req)
		if err != nil {
			res.Err = eris.Wrapf(err, "%s: attempt %d", f.name, attempt)
			if attempt < f.opts.MaxAttempts {
				zap.L().Warn("fetch: transport error, retrying",
					zap.String("tier", f.name),
					zap.String("url", rawURL),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				f.sleep(ctx, backoffDelay(attempt))
				continue
			}
			return res
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		contentType := resp.Header.Get("Content-Type")
		status := resp.StatusCode
		_ = resp.Body.Close()
		if readErr != nil {
			res.Err = eris.Wrapf(readErr, "%s: read body", f.name)
			if attempt < f.opts.MaxAttempts {
				f.sleep(ctx, backoffDelay(attempt))
				continue
			}
			return res
		}

		if status == http.StatusTooManyRequests || status >= 500 {
			res.Err = eris.Errorf("%s: status %d from %s", f.name, status, rawURL)
			if attempt < f.opts.MaxAttempts {
				zap.L().Warn("fetch: transient status, retrying",
					zap.String("tier", f.name),
					zap.String("url", rawURL),
					zap.Int("status", status),
					zap.Int("attempt", attempt),
				)
				f.sleep(ctx, backoffDelay(attempt))
				continue
			}
			return res
		}

		if status == http.StatusForbidden || IsBlocked(string(body)) {
			zap.L().Warn("fetch: block detected",
				zap.String("tier", f.name),
				zap.String("url", rawURL),
				zap.Int("status", status),
			)
			res.Blocked = true
			res.BlockedBody = string(body)
			return res
		}

		res.Response = &Response{StatusCode: status, Body: body, ContentType: contentType}
		if status >= 200 && status < 300 {
			res.Err = nil
		}
		return res
	}

	return res
}
