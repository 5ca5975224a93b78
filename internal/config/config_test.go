package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 10000, cfg.Fetch.TimeoutMS)
	assert.Equal(t, 2.0, cfg.Fetch.HostRate)
	assert.Equal(t, 4, cfg.Fetch.HostBurst)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://api.scraperapi.com", cfg.Provider.ScraperAPIBaseURL)
	assert.Equal(t, "https://app.scrapingbee.com/api/v1", cfg.Provider.ScrapingBeeBaseURL)
	assert.Empty(t, cfg.Provider.Name)
	assert.Empty(t, cfg.Proxy.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_FETCH_MAX_ATTEMPTS", "5")
	t.Setenv("SCRAPER_PROVIDER_NAME", "scraperapi")
	t.Setenv("SCRAPER_PROVIDER_KEY", "env-key")
	t.Setenv("SCRAPER_PROXY_URL", "http://proxy.internal:8080")
	t.Setenv("SCRAPER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Fetch.MaxAttempts)
	assert.Equal(t, "scraperapi", cfg.Provider.Name)
	assert.Equal(t, "env-key", cfg.Provider.Key)
	assert.Equal(t, "http://proxy.internal:8080", cfg.Proxy.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFetchConfigTimeout(t *testing.T) {
	f := FetchConfig{TimeoutMS: 2500}
	assert.Equal(t, 2500*time.Millisecond, f.Timeout())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level", Format: "json"}))
}
