package fetch

import (
	"net/http"

	"github.com/closetly/product-scraper/pkg/useragent"
)

// browserHeaders sets a browser-like header set with a freshly rotated
// user-agent. Called once per attempt so retries present as different
// clients.
func browserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", useragent.Random())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
