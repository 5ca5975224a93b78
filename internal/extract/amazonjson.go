package extract

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/closetly/product-scraper/internal/model"
)

// amazonProduct mirrors the structured Amazon product payload returned by
// the provider's catalog endpoint.
type amazonProduct struct {
	Name             string   `json:"name"`
	Brand            string   `json:"brand"`
	Pricing          string   `json:"pricing"`
	ListPrice        string   `json:"list_price"`
	Images           []string `json:"images"`
	SmallDescription string   `json:"small_description"`
	FullDescription  string   `json:"full_description"`
	AverageRating    float64  `json:"average_rating"`
	TotalReviews     int      `json:"total_reviews"`
}

// FromAmazonJSON builds a record from the provider's structured product
// payload, bypassing the HTML strategy chain entirely. Rating and review
// count exist only on this path.
func FromAmazonJSON(raw []byte, sourceURL string) (model.ProductRecord, error) {
	var ap amazonProduct
	if err := json.Unmarshal(raw, &ap); err != nil {
		return model.ProductRecord{}, eris.Wrap(err, "extract: decode amazon product payload")
	}

	b := newBuilder(sourceURL)
	b.setName(ap.Name)
	b.setBrand(ap.Brand)
	b.setDescription(ap.SmallDescription)
	b.setDescription(ap.FullDescription)
	for _, img := range ap.Images {
		b.addImage(img)
	}
	if price, ok := ParsePrice(ap.Pricing); ok {
		b.setPrice(price)
	} else if price, ok := ParsePrice(ap.ListPrice); ok {
		b.setPrice(price)
	}

	rec := b.finalize()
	if ap.AverageRating > 0 {
		rec.Rating = &ap.AverageRating
	}
	if ap.TotalReviews > 0 {
		rec.ReviewCount = &ap.TotalReviews
	}
	return rec, nil
}
