package extract

import (
	"net/url"
	"strings"
)

// normalizeImageURL resolves a candidate image URL to absolute form
// against the page origin. Data URIs, fragments, and anything that does
// not end up as http(s) are dropped.
func normalizeImageURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

// hostBrand derives a displayable brand from a hostname, the fallback
// when no markup names the brand: "shop.nike.com" becomes "Nike".
func hostBrand(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return titleCase(host)
	}
	return titleCase(parts[len(parts)-2])
}
