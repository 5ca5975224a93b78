package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Site-convention selectors, in rough order of specificity. Amazon's IDs
// come first since it is the retailer this most often falls back on;
// the rest cover common Shopify and storefront-theme conventions.

var imageSelectors = []string{
	"img#landingImage",
	"#imgTagWrapperId img",
	"#altImages img",
	".product-image img",
	".product__media img",
	".product-single__photo img",
	".product-gallery img",
	".gallery-image img",
	"img[itemprop='image']",
	"img[data-main-image]",
}

// imageAttrs are tried per matched element; lazy-load attributes carry
// the real URL more often than src does.
var imageAttrs = []string{"data-old-hires", "data-src", "data-zoom-image", "src"}

var nameSelectors = []string{
	"#productTitle",
	"h1[itemprop='name']",
	"h1.product-title",
	"h1.product__title",
	".product-name h1",
	"h1[data-testid='product-title']",
	".product-info h1",
	"h1",
}

var brandSelectors = []string{
	"#bylineInfo",
	"[itemprop='brand']",
	".product-brand",
	".brand-name",
	"a.brand",
}

var priceSelectors = []string{
	"[itemprop='price']",
	".a-price .a-offscreen",
	"span.a-price-whole",
	".product-price",
	".price-item--regular",
	"[data-price]",
	".price",
}

// extractSelectors fills still-empty fields from fixed CSS conventions.
func extractSelectors(p *page, b *builder) {
	for _, sel := range imageSelectors {
		p.doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			for _, attr := range imageAttrs {
				if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
					b.addImage(v)
					return
				}
			}
		})
	}

	for _, sel := range nameSelectors {
		if b.rec.Name != "" {
			break
		}
		b.setName(p.doc.Find(sel).First().Text())
	}

	for _, sel := range brandSelectors {
		if b.rec.Brand != "" {
			break
		}
		s := p.doc.Find(sel).First()
		// itemprop=brand is sometimes a meta tag with the value in content.
		if v, ok := s.Attr("content"); ok {
			b.setBrand(v)
			continue
		}
		b.setBrand(s.Text())
	}

	for _, sel := range priceSelectors {
		if b.rec.Price != nil {
			break
		}
		s := p.doc.Find(sel).First()
		text := s.Text()
		if v, ok := s.Attr("content"); ok && v != "" {
			text = v
		} else if v, ok := s.Attr("data-price"); ok && v != "" {
			text = v
		}
		if price, ok := ParsePrice(text); ok {
			b.setPrice(price)
		}
	}
}

// extractPriceScan is the last-resort price pass: a currency-symbol regex
// over the whole document text.
func extractPriceScan(p *page, b *builder) {
	if b.rec.Price != nil {
		return
	}
	if price, ok := ScanPrice(p.doc.Text()); ok {
		b.setPrice(price)
	}
}
