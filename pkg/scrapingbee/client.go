// Package scrapingbee provides a client for the ScrapingBee scraping API.
package scrapingbee

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/closetly/product-scraper/pkg/useragent"
)

const defaultBaseURL = "https://app.scrapingbee.com/api/v1"

// Client defines the ScrapingBee operations used by the scraper.
type Client interface {
	// Fetch proxies a GET of the target URL through ScrapingBee.
	Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error)
}

// FetchRequest configures a proxied page fetch.
type FetchRequest struct {
	URL    string
	Render bool // server-side JS rendering
}

// FetchResponse is the proxied page content.
type FetchResponse struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// APIError is returned when ScrapingBee responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scrapingbee: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL. Empty values are ignored
// so unset config can be passed through.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new ScrapingBee client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 70 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, fr FetchRequest) (*FetchResponse, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", fr.URL)
	params.Set("render_js", strconv.FormatBool(fr.Render))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrapingbee: create request")
	}
	req.Header.Set("User-Agent", useragent.Random())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scrapingbee: execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "scrapingbee: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return &FetchResponse{
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
