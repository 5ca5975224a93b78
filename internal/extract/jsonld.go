package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// extractJSONLD pulls schema.org Product data out of ld+json script
// blocks. Each block is parsed independently; one malformed block never
// hides the others.
func extractJSONLD(p *page, b *builder) {
	p.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var node any
		if err := json.Unmarshal([]byte(sel.Text()), &node); err != nil {
			zap.L().Debug("extract: skipping malformed ld+json block", zap.Error(err))
			return
		}
		for _, prod := range findProducts(node) {
			applyProduct(prod, b)
		}
	})
}

// findProducts walks a decoded JSON-LD value and collects every node
// typed as a Product, descending through arrays and @graph containers.
func findProducts(node any) []map[string]any {
	var out []map[string]any
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			out = append(out, findProducts(item)...)
		}
	case map[string]any:
		if isProductType(v["@type"]) {
			out = append(out, v)
		}
		if graph, ok := v["@graph"]; ok {
			out = append(out, findProducts(graph)...)
		}
	}
	return out
}

func isProductType(t any) bool {
	switch v := t.(type) {
	case string:
		return strings.EqualFold(v, "product")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, "product") {
				return true
			}
		}
	}
	return false
}

func applyProduct(m map[string]any, b *builder) {
	b.setName(jsonString(m["name"]))
	b.setDescription(jsonString(m["description"]))
	b.setColor(jsonString(m["color"]))
	b.setBrand(brandName(m["brand"]))
	for _, img := range imageList(m["image"]) {
		b.addImage(img)
	}
	if price, ok := offerPrice(m["offers"]); ok {
		b.setPrice(price)
	}
}

func jsonString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// brandName handles both the bare-string and the nested Brand-object
// shapes of schema.org brand.
func brandName(v any) string {
	switch b := v.(type) {
	case string:
		return b
	case map[string]any:
		return jsonString(b["name"])
	}
	return ""
}

// imageList normalizes the image field, which appears as a string, a list
// of strings, or (lists of) ImageObject nodes in the wild.
func imageList(v any) []string {
	switch img := v.(type) {
	case string:
		return []string{img}
	case map[string]any:
		if u := jsonString(img["url"]); u != "" {
			return []string{u}
		}
		if u := jsonString(img["contentUrl"]); u != "" {
			return []string{u}
		}
	case []any:
		var out []string
		for _, item := range img {
			out = append(out, imageList(item)...)
		}
		return out
	}
	return nil
}

// offerPrice handles both the scalar Offer and the offer-list shapes:
// offers.price, offers.lowPrice, or the first priced element of an array.
func offerPrice(v any) (float64, bool) {
	switch offers := v.(type) {
	case map[string]any:
		if p, ok := priceValue(offers["price"]); ok {
			return p, true
		}
		if p, ok := priceValue(offers["lowPrice"]); ok {
			return p, true
		}
	case []any:
		for _, item := range offers {
			if p, ok := offerPrice(item); ok {
				return p, true
			}
		}
	}
	return 0, false
}

func priceValue(v any) (float64, bool) {
	switch p := v.(type) {
	case float64:
		if p > 0 {
			return p, true
		}
	case string:
		return ParsePrice(p)
	}
	return 0, false
}
