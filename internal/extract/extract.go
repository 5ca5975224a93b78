// Package extract turns raw product-page HTML (or a provider's structured
// JSON) into a normalized ProductRecord via a prioritized strategy chain.
//
// Strategies run in priority order and only fill fields that are still
// empty; a higher-priority value is never overwritten. A strategy that
// panics or hits malformed markup is skipped so the rest of the chain can
// still contribute.
package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/closetly/product-scraper/internal/categorize"
	"github.com/closetly/product-scraper/internal/model"
)

type page struct {
	doc  *goquery.Document
	raw  []byte
	base *url.URL
}

type strategy struct {
	name string
	run  func(p *page, b *builder)
}

// Strategy order is the extraction contract: structured markup beats meta
// tags beats CSS conventions beats document-wide scans.
var strategies = []strategy{
	{"jsonld", extractJSONLD},
	{"meta", extractMeta},
	{"selectors", extractSelectors},
	{"price_scan", extractPriceScan},
	{"filename_name", extractFilenameName},
}

// Extract runs the strategy chain over a product page. It always returns
// a record; callers decide whether the result is usable.
func Extract(html []byte, sourceURL string) model.ProductRecord {
	b := newBuilder(sourceURL)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		zap.L().Debug("extract: unparsable document", zap.String("url", sourceURL), zap.Error(err))
		return b.finalize()
	}

	p := &page{doc: doc, raw: html, base: b.base}
	for _, s := range strategies {
		runStrategy(s, p, b)
	}
	return b.finalize()
}

// runStrategy isolates one strategy: a bad markup block must never abort
// the whole extraction.
func runStrategy(s strategy, p *page, b *builder) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Debug("extract: strategy failed, skipping",
				zap.String("strategy", s.name),
				zap.Any("reason", r),
			)
		}
	}()
	s.run(p, b)
}

// builder accumulates partial results. Setters are fill-only: the first
// strategy to supply a field wins.
type builder struct {
	rec    model.ProductRecord
	images []string
	seen   map[string]struct{}
	base   *url.URL
}

func newBuilder(sourceURL string) *builder {
	b := &builder{seen: make(map[string]struct{})}
	b.rec.SourceURL = sourceURL
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		b.base = u
	}
	return b
}

func (b *builder) setName(s string) {
	if s = strings.TrimSpace(s); b.rec.Name == "" && s != "" {
		b.rec.Name = s
	}
}

func (b *builder) setDescription(s string) {
	if s = strings.TrimSpace(s); b.rec.Description == "" && s != "" {
		b.rec.Description = s
	}
}

func (b *builder) setBrand(s string) {
	if s = cleanBrand(s); b.rec.Brand == "" && s != "" {
		b.rec.Brand = s
	}
}

func (b *builder) setColor(s string) {
	if s = strings.TrimSpace(s); b.rec.Color == "" && s != "" {
		b.rec.Color = strings.ToLower(s)
	}
}

func (b *builder) setPrice(v float64) {
	if b.rec.Price == nil && v > 0 {
		b.rec.Price = &v
	}
}

func (b *builder) addImage(raw string) {
	norm := normalizeImageURL(raw, b.base)
	if norm == "" {
		return
	}
	if _, dup := b.seen[norm]; dup {
		return
	}
	b.seen[norm] = struct{}{}
	b.images = append(b.images, norm)
}

// finalize applies the cross-field fallbacks: first image becomes the
// primary, brand falls back to the site hostname, category and color are
// classified from the accumulated free text.
func (b *builder) finalize() model.ProductRecord {
	if len(b.images) > 0 {
		b.rec.ImageURL = b.images[0]
		b.rec.Images = b.images
	}
	if b.rec.Brand == "" && b.base != nil {
		b.rec.Brand = hostBrand(b.base.Hostname())
	}

	text := b.rec.Name + " " + b.rec.Description
	b.rec.Category = string(categorize.Categorize(text))
	if b.rec.Color == "" {
		b.rec.Color = categorize.DetectColor(text)
	}
	return b.rec
}

// extractFilenameName derives a name from the primary image filename when
// every markup strategy came up empty.
func extractFilenameName(_ *page, b *builder) {
	if b.rec.Name != "" || len(b.images) == 0 {
		return
	}
	b.setName(nameFromImageURL(b.images[0]))
}

func nameFromImageURL(imgURL string) string {
	u, err := url.Parse(imgURL)
	if err != nil {
		return ""
	}
	seg := u.Path
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.LastIndex(seg, "."); i > 0 {
		seg = seg[:i]
	}
	var sb strings.Builder
	for _, r := range seg {
		switch {
		case r >= '0' && r <= '9':
			// digits are noise (variant and size codes)
		case r == '-' || r == '_' || r == '+':
			sb.WriteRune(' ')
		default:
			sb.WriteRune(r)
		}
	}
	return titleCase(strings.Join(strings.Fields(sb.String()), " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// cleanBrand strips byline decorations sites wrap around brand names.
func cleanBrand(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Brand: ")
	s = strings.TrimPrefix(s, "Visit the ")
	s = strings.TrimSuffix(s, " Store")
	return strings.TrimSpace(s)
}
