package extract

import (
	"bytes"

	"github.com/dyatlov/go-opengraph/opengraph"
)

// extractMeta harvests social-preview tags: OpenGraph first, then the
// twitter and plain-description fallbacks. Meta tags contribute image and
// description candidates only; og:title is too often the page title with
// site-name noise to trust as a product name.
func extractMeta(p *page, b *builder) {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(p.raw)); err == nil {
		for _, img := range og.Images {
			if img.SecureURL != "" {
				b.addImage(img.SecureURL)
			} else if img.URL != "" {
				b.addImage(img.URL)
			}
		}
		b.setDescription(og.Description)
	}

	if c, ok := p.doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok {
		b.addImage(c)
	}
	if c, ok := p.doc.Find(`meta[property="og:image:secure_url"]`).Attr("content"); ok {
		b.addImage(c)
	}
	if b.rec.Description == "" {
		if c, ok := p.doc.Find(`meta[name="description"]`).Attr("content"); ok {
			b.setDescription(c)
		}
	}
}
