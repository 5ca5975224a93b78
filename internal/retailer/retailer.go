// Package retailer tags product URLs with their retailer and extracts
// site-specific product identifiers.
package retailer

import (
	"net/url"
	"regexp"
	"strings"
)

// Tag identifies a known retailer, derived from the URL hostname.
type Tag string

const (
	TagAmazon          Tag = "amazon"
	TagZara            Tag = "zara"
	TagHM              Tag = "hm"
	TagASOS            Tag = "asos"
	TagShein           Tag = "shein"
	TagNike            Tag = "nike"
	TagAdidas          Tag = "adidas"
	TagGap             Tag = "gap"
	TagForever21       Tag = "forever21"
	TagUrbanOutfitters Tag = "urban-outfitters"
	TagGeneric         Tag = "generic"
)

// hostTags maps hostname substrings to retailer tags. Order matters:
// the first matching needle wins.
var hostTags = []struct {
	needle string
	tag    Tag
}{
	{"amazon.", TagAmazon},
	{"zara.", TagZara},
	{"hm.com", TagHM},
	{"www2.hm", TagHM},
	{"asos.", TagASOS},
	{"shein.", TagShein},
	{"nike.", TagNike},
	{"adidas.", TagAdidas},
	{"gap.", TagGap},
	{"forever21.", TagForever21},
	{"urbanoutfitters.", TagUrbanOutfitters},
}

// Detect returns the retailer tag for a URL. Malformed URLs and unknown
// hostnames map to TagGeneric.
func Detect(rawURL string) Tag {
	u, err := url.Parse(rawURL)
	if err != nil {
		return TagGeneric
	}
	host := strings.ToLower(u.Hostname())
	for _, ht := range hostTags {
		if strings.Contains(host, ht.needle) {
			return ht.tag
		}
	}
	return TagGeneric
}

// asinPatterns are the Amazon URL path shapes carrying a 10-character
// alphanumeric catalog identifier, tried in order.
var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`(?i)/gp/aw/d/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`(?i)/product/([A-Z0-9]{10})(?:[/?]|$)`),
}

// ExtractID pulls an Amazon-style product identifier out of a URL.
// Returns "" when the URL is not an Amazon host, is malformed, or matches
// no known path pattern. Never panics on garbage input.
func ExtractID(rawURL string) string {
	if Detect(rawURL) != TagAmazon {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, re := range asinPatterns {
		if m := re.FindStringSubmatch(u.Path); len(m) > 1 {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}
