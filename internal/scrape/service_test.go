package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closetly/product-scraper/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Fetch: config.FetchConfig{
			MaxAttempts: 1,
			TimeoutMS:   5000,
			HostRate:    1000,
			HostBurst:   1000,
		},
	}
}

const productHTML = `<html><head>
<script type="application/ld+json">
{"@type": "Product", "name": "Blue Crew Tee", "image": "https://img.example.com/tee.jpg", "offers": {"price": "24.99"}}
</script>
</head></html>`

func TestScrapeProductDirectSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(productHTML))
	}))
	defer srv.Close()

	svc := New(testConfig())

	rec, err := svc.ScrapeProduct(context.Background(), srv.URL+"/p/tee", Options{})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Blue Crew Tee", rec.Name)
	assert.Equal(t, "https://img.example.com/tee.jpg", rec.ImageURL)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 24.99, *rec.Price, 0.001)
	assert.Equal(t, "top", rec.Category)
	assert.Equal(t, srv.URL+"/p/tee", rec.SourceURL)
}

func TestScrapeProductInvalidInput(t *testing.T) {
	svc := New(testConfig())

	for _, raw := range []string{"", "not a url", "ftp://example.com/file", "/relative/path"} {
		_, err := svc.ScrapeProduct(context.Background(), raw, Options{})
		se, ok := AsError(err)
		require.True(t, ok, "input %q must yield a typed error", raw)
		assert.Equal(t, CodeInvalidInput, se.Code)
	}
}

func TestScrapeProductBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<html>no automated clients</html>"))
	}))
	defer srv.Close()

	svc := New(testConfig())

	_, err := svc.ScrapeProduct(context.Background(), srv.URL, Options{})
	se, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeBlocked, se.Code)
	assert.Contains(t, se.Snippet, "no automated clients")
	assert.NotEmpty(t, se.Suggestion)
	assert.Equal(t, http.StatusBadGateway, se.Code.HTTPStatus())
}

func TestScrapeProductUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>gone</html>"))
	}))
	defer srv.Close()

	svc := New(testConfig())

	_, err := svc.ScrapeProduct(context.Background(), srv.URL, Options{})
	se, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUpstreamError, se.Code)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestScrapeProductNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	svc := New(testConfig())

	_, err := svc.ScrapeProduct(context.Background(), srv.URL, Options{})
	se, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNoResponse, se.Code)
	assert.Error(t, se.Unwrap())
}

func TestScrapeProductExtractionIncomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>nothing useful here</p></body></html>"))
	}))
	defer srv.Close()

	svc := New(testConfig())

	_, err := svc.ScrapeProduct(context.Background(), srv.URL+"/p/1", Options{})
	se, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeExtractionIncomplete, se.Code)
	require.NotNil(t, se.Partial, "the partial record ships with the error")
	assert.Equal(t, srv.URL+"/p/1", se.Partial.SourceURL)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code.HTTPStatus())
}

func TestScrapeProductViaProvider(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "https://shop.example.com/p/tee", q.Get("url"))
		assert.Equal(t, "true", q.Get("render"))
		_, _ = w.Write([]byte(productHTML))
	}))
	defer provider.Close()

	cfg := testConfig()
	cfg.Provider.Name = ProviderScraperAPI
	cfg.Provider.Key = "test-key"
	cfg.Provider.ScraperAPIBaseURL = provider.URL
	svc := New(cfg)

	// shop.example.com is never dialed: the provider response is final.
	rec, err := svc.ScrapeProduct(context.Background(), "https://shop.example.com/p/tee", Options{Render: true})
	require.NoError(t, err)
	assert.Equal(t, "Blue Crew Tee", rec.Name)
}

func TestScrapeProductProviderFailureFallsBack(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer provider.Close()

	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(productHTML))
	}))
	defer direct.Close()

	cfg := testConfig()
	cfg.Provider.Name = ProviderScraperAPI
	cfg.Provider.Key = "test-key"
	cfg.Provider.ScraperAPIBaseURL = provider.URL
	svc := New(cfg)

	rec, err := svc.ScrapeProduct(context.Background(), direct.URL+"/p/tee", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Blue Crew Tee", rec.Name)
}

func TestScrapeProductAmazonStructured(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/structured/amazon/product", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "B08N5WRWNW", q.Get("asin"))
		_, _ = w.Write([]byte(`{"name": "Acme Earbuds", "pricing": "$59.99", "average_rating": 4.4, "total_reviews": 10}`))
	}))
	defer provider.Close()

	cfg := testConfig()
	cfg.Provider.Key = "test-key"
	cfg.Provider.ScraperAPIBaseURL = provider.URL
	svc := New(cfg)

	rec, err := svc.ScrapeProduct(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Acme Earbuds", rec.Name)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 59.99, *rec.Price, 0.001)
	require.NotNil(t, rec.Rating)
	assert.InDelta(t, 4.4, *rec.Rating, 0.001)
}

func TestScrapeProductAmazonHardBlock(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer provider.Close()

	cfg := testConfig()
	cfg.Provider.Key = "test-key"
	cfg.Provider.ScraperAPIBaseURL = provider.URL
	svc := New(cfg)

	_, err := svc.ScrapeProduct(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW", Options{})
	se, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeRetailerHardBlock, se.Code, "the amazon path never falls back to HTML scraping")
	assert.NotEmpty(t, se.Suggestion)
}

func TestScrapeProductAmazonUnreadablePayload(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer provider.Close()

	cfg := testConfig()
	cfg.Provider.Key = "test-key"
	cfg.Provider.ScraperAPIBaseURL = provider.URL
	svc := New(cfg)

	_, err := svc.ScrapeProduct(context.Background(), "https://www.amazon.com/dp/B08N5WRWNW", Options{})
	se, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeRetailerHardBlock, se.Code)
}

func TestNewProviderUnknownName(t *testing.T) {
	svc := New(testConfig())

	assert.Nil(t, svc.newProvider("nonexistent", "key"), "unknown providers skip the tier")
	assert.Nil(t, svc.newProvider(ProviderScraperAPI, ""), "missing key skips the tier")
	assert.NotNil(t, svc.newProvider(ProviderScraperAPI, "key"))
	assert.NotNil(t, svc.newProvider(ProviderScrapingBee, "key"))
}
