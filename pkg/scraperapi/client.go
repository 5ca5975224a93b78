// Package scraperapi provides a client for the ScraperAPI proxy-scraping
// service, including its structured Amazon product endpoint.
package scraperapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/closetly/product-scraper/pkg/useragent"
)

const defaultBaseURL = "https://api.scraperapi.com"

// Client defines the ScraperAPI operations used by the scraper.
type Client interface {
	// Fetch proxies a GET of the target URL through ScraperAPI.
	Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error)
	// AmazonProduct fetches structured product data for an ASIN via the
	// structured-data endpoint, bypassing HTML entirely.
	AmazonProduct(ctx context.Context, asin string) (json.RawMessage, error)
}

// FetchRequest configures a proxied page fetch.
type FetchRequest struct {
	URL          string
	Render       bool // server-side JS rendering
	PremiumProxy bool // residential proxy pool
}

// FetchResponse is the proxied page content.
type FetchResponse struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// APIError is returned when ScraperAPI responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scraperapi: HTTP %d: %s", e.StatusCode, e.Body)
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

// NewClient creates a new ScraperAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			// Provider-side rendering can take a while; the API holds the
			// connection open until the upstream fetch settles.
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

func (c *httpClient) Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", req.URL)
	if req.Render {
		params.Set("render", "true")
	}
	if req.PremiumProxy {
		params.Set("premium", "true")
	}

	body, contentType, status, err := c.get(ctx, c.baseURL+"/?"+params.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "scraperapi: fetch")
	}
	return &FetchResponse{Body: body, ContentType: contentType, StatusCode: status}, nil
}

func (c *httpClient) AmazonProduct(ctx context.Context, asin string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("asin", asin)

	body, _, _, err := c.get(ctx, c.baseURL+"/structured/amazon/product?"+params.Encode())
	if err != nil {
		return nil, eris.Wrapf(err, "scraperapi: amazon product %s", asin)
	}
	if !json.Valid(body) {
		return nil, eris.Errorf("scraperapi: amazon product %s: response is not JSON", asin)
	}
	return json.RawMessage(body), nil
}

func (c *httpClient) get(ctx context.Context, rawURL string) ([]byte, string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", 0, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", useragent.Random())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", 0, eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", 0, eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", 0, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return data, resp.Header.Get("Content-Type"), resp.StatusCode, nil
}
