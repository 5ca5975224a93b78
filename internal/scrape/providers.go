package scrape

import (
	"context"

	"go.uber.org/zap"

	"github.com/closetly/product-scraper/internal/fetch"
	"github.com/closetly/product-scraper/pkg/scraperapi"
	"github.com/closetly/product-scraper/pkg/scrapingbee"
)

// Provider family names accepted in config and per-request options.
const (
	ProviderScraperAPI  = "scraperapi"
	ProviderScrapingBee = "scrapingbee"
)

// newProvider builds the provider-tier adapter for a name/key pair.
// Unknown names yield nil; the orchestrator then skips the tier without
// any network call.
func (s *Service) newProvider(name, apiKey string) fetch.Provider {
	if apiKey == "" {
		return nil
	}
	switch name {
	case ProviderScraperAPI:
		client := scraperapi.NewClient(apiKey,
			scraperapi.WithBaseURL(s.cfg.Provider.ScraperAPIBaseURL),
			scraperapi.WithHTTPClient(s.http),
		)
		return &scraperAPIProvider{client: client, premium: s.cfg.Provider.PremiumProxy}
	case ProviderScrapingBee:
		client := scrapingbee.NewClient(apiKey,
			scrapingbee.WithBaseURL(s.cfg.Provider.ScrapingBeeBaseURL),
			scrapingbee.WithHTTPClient(s.http),
		)
		return &scrapingBeeProvider{client: client}
	default:
		zap.L().Warn("scrape: unknown provider, skipping provider tier",
			zap.String("provider", name),
		)
		return nil
	}
}

// scraperAPIProvider adapts the ScraperAPI client to the fetch tier.
type scraperAPIProvider struct {
	client  scraperapi.Client
	premium bool
}

func (p *scraperAPIProvider) Name() string { return ProviderScraperAPI }

func (p *scraperAPIProvider) FetchPage(ctx context.Context, rawURL string, render bool) (*fetch.Response, error) {
	resp, err := p.client.Fetch(ctx, scraperapi.FetchRequest{
		URL:          rawURL,
		Render:       render,
		PremiumProxy: p.premium,
	})
	if err != nil {
		return nil, err
	}
	return &fetch.Response{
		StatusCode:  resp.StatusCode,
		Body:        resp.Body,
		ContentType: resp.ContentType,
	}, nil
}

// scrapingBeeProvider adapts the ScrapingBee client to the fetch tier.
type scrapingBeeProvider struct {
	client scrapingbee.Client
}

func (p *scrapingBeeProvider) Name() string { return ProviderScrapingBee }

func (p *scrapingBeeProvider) FetchPage(ctx context.Context, rawURL string, render bool) (*fetch.Response, error) {
	resp, err := p.client.Fetch(ctx, scrapingbee.FetchRequest{
		URL:    rawURL,
		Render: render,
	})
	if err != nil {
		return nil, err
	}
	return &fetch.Response{
		StatusCode:  resp.StatusCode,
		Body:        resp.Body,
		ContentType: resp.ContentType,
	}, nil
}
