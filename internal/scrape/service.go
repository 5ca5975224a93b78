// Package scrape is the product-scraping service: it validates input,
// sequences the fetch tiers, routes raw HTML or provider JSON into
// extraction, and maps every outcome onto the typed failure taxonomy.
package scrape

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/closetly/product-scraper/internal/config"
	"github.com/closetly/product-scraper/internal/extract"
	"github.com/closetly/product-scraper/internal/fetch"
	"github.com/closetly/product-scraper/internal/model"
	"github.com/closetly/product-scraper/internal/retailer"
	"github.com/closetly/product-scraper/pkg/scraperapi"
)

// Options are the per-request knobs of ScrapeProduct. Zero values defer
// to the process configuration.
type Options struct {
	Provider       string // provider family name
	APIKey         string // provider credential
	UseScrapingAPI bool   // force the provider tier
	UseProxy       bool   // force proxy escalation
	Render         bool   // ask the provider for JS rendering
}

// Service runs product scrapes. It holds only static configuration and
// reusable HTTP plumbing; everything else is request-scoped.
type Service struct {
	cfg    *config.Config
	direct *fetch.Fetcher
	http   *http.Client // shared by provider clients for pool reuse
}

// New creates a Service from process configuration.
func New(cfg *config.Config) *Service {
	return &Service{
		cfg:    cfg,
		direct: fetch.NewFetcher(fetchOptions(cfg)),
		http: &http.Client{
			Timeout: 70 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func fetchOptions(cfg *config.Config) fetch.Options {
	return fetch.Options{
		MaxAttempts: cfg.Fetch.MaxAttempts,
		Timeout:     cfg.Fetch.Timeout(),
		HostRate:    rate.Limit(cfg.Fetch.HostRate),
		HostBurst:   cfg.Fetch.HostBurst,
	}
}

// ScrapeProduct fetches a product page through the tiered fallback and
// extracts a normalized record. Failures are always a typed *Error.
func (s *Service) ScrapeProduct(ctx context.Context, rawURL string, opts Options) (*model.ProductRecord, error) {
	log := zap.L().With(
		zap.String("request_id", uuid.NewString()),
		zap.String("url", rawURL),
	)

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &Error{
			Code:    CodeInvalidInput,
			Message: "target url must be an absolute http(s) url",
			cause:   err,
		}
	}

	providerName := opts.Provider
	if providerName == "" {
		providerName = s.cfg.Provider.Name
	}
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = s.cfg.Provider.Key
	}
	render := opts.Render || s.cfg.Provider.Render

	tag := retailer.Detect(rawURL)

	// Amazon rejects generic scraping outright, so when credentials and an
	// identifier are available the structured product API is the only
	// path; its failure is terminal, never a fall-through to HTML.
	if tag == retailer.TagAmazon && apiKey != "" {
		if asin := retailer.ExtractID(rawURL); asin != "" {
			return s.scrapeAmazonProduct(ctx, log, rawURL, asin, apiKey)
		}
	}

	var provider fetch.Provider
	if providerName != "" || opts.UseScrapingAPI {
		if providerName == "" {
			providerName = ProviderScraperAPI
		}
		provider = s.newProvider(providerName, apiKey)
	}

	var newProxy func() (*fetch.Fetcher, error)
	if proxyURL := s.cfg.Proxy.URL; proxyURL != "" {
		fo := fetchOptions(s.cfg)
		newProxy = func() (*fetch.Fetcher, error) {
			return fetch.NewProxyFetcher(proxyURL, fo)
		}
	}

	orch := fetch.NewOrchestrator(provider, s.direct, newProxy)
	out := orch.Fetch(ctx, rawURL, fetch.FetchOptions{
		Render:     render,
		ForceProxy: opts.UseProxy,
	})

	switch {
	case out.Response.OK():
		// fall through to extraction

	case out.Blocked:
		log.Warn("scrape: blocked at final tier", zap.String("tier", string(out.Tier)))
		return nil, &Error{
			Code:       CodeBlocked,
			Message:    "the site is blocking automated access",
			Snippet:    snippet(out.BlockedBody),
			Suggestion: "try again later or add the product manually",
		}

	case out.Response != nil:
		return nil, &Error{
			Code:       CodeUpstreamError,
			Message:    "the site returned an error response",
			StatusCode: out.Response.StatusCode,
			Snippet:    snippet(string(out.Response.Body)),
		}

	default:
		return nil, &Error{
			Code:    CodeNoResponse,
			Message: "no response from any fetch tier",
			cause:   out.Err,
		}
	}

	rec := extract.Extract(out.Response.Body, rawURL)
	if !rec.Usable() {
		return nil, &Error{
			Code:       CodeExtractionIncomplete,
			Message:    "no usable product data found on the page",
			Partial:    &rec,
			Suggestion: "fill in the missing fields manually",
		}
	}

	log.Info("scrape: complete",
		zap.String("tier", string(out.Tier)),
		zap.String("retailer", string(tag)),
		zap.String("name", rec.Name),
		zap.String("category", rec.Category),
		zap.Bool("has_price", rec.Price != nil),
		zap.Int("images", len(rec.Images)),
	)
	return &rec, nil
}

// scrapeAmazonProduct is the specialized provider path for Amazon URLs.
func (s *Service) scrapeAmazonProduct(ctx context.Context, log *zap.Logger, rawURL, asin, apiKey string) (*model.ProductRecord, error) {
	client := scraperapi.NewClient(apiKey,
		scraperapi.WithBaseURL(s.cfg.Provider.ScraperAPIBaseURL),
		scraperapi.WithHTTPClient(s.http),
	)

	raw, err := client.AmazonProduct(ctx, asin)
	if err != nil {
		log.Warn("scrape: amazon product api failed", zap.String("asin", asin), zap.Error(err))
		return nil, &Error{
			Code:       CodeRetailerHardBlock,
			Message:    "amazon rejects generic scraping and the product api call failed",
			Suggestion: "add the product manually or retry once the provider recovers",
			cause:      err,
		}
	}

	rec, err := extract.FromAmazonJSON(raw, rawURL)
	if err != nil {
		return nil, &Error{
			Code:       CodeRetailerHardBlock,
			Message:    "amazon product api returned an unreadable payload",
			Suggestion: "add the product manually or retry once the provider recovers",
			cause:      err,
		}
	}
	if !rec.Usable() {
		return nil, &Error{
			Code:       CodeExtractionIncomplete,
			Message:    "amazon product api returned no usable product data",
			Partial:    &rec,
			Suggestion: "fill in the missing fields manually",
		}
	}

	log.Info("scrape: complete via amazon product api",
		zap.String("asin", asin),
		zap.String("name", rec.Name),
	)
	return &rec, nil
}
