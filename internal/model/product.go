// Package model defines the value objects shared across the scraper.
package model

// ProductRecord is the normalized output of an extraction run. Fields are
// filled by a prioritized chain of strategies; anything the page does not
// expose stays at its zero value.
type ProductRecord struct {
	Name        string   `json:"name"`
	ImageURL    string   `json:"image_url"`
	Images      []string `json:"images,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Description string   `json:"description,omitempty"`
	SourceURL   string   `json:"source_url"`
	Category    string   `json:"category"`
	Color       string   `json:"color,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
}

// Usable reports whether the record meets the minimum extraction contract:
// a name or a primary image. Records failing this are surfaced to callers
// as incomplete, with the partial data attached for manual correction.
func (p *ProductRecord) Usable() bool {
	return p.Name != "" || p.ImageURL != ""
}
