// Package categorize maps free product text onto a fixed apparel taxonomy
// with ordered regex rules. Rule order is load-bearing: specific terms
// (hoodie, leggings) must win before generic ones (shirt, top), and
// downstream grouping treats the assigned category as ground truth.
package categorize

import (
	"regexp"
	"strings"
)

// Category is one tag from the fixed apparel taxonomy.
type Category string

const (
	CategoryActivewear Category = "activewear"
	CategoryOuterwear  Category = "outerwear"
	CategoryDress      Category = "dress"
	CategoryBottom     Category = "bottom"
	CategoryFootwear   Category = "footwear"
	CategoryAccessory  Category = "accessory"
	CategoryTop        Category = "top"
	CategoryOther      Category = "other"
)

// rules are evaluated top to bottom; the first match wins. Activewear
// precedes outerwear so "track jacket" is not swallowed by the generic
// jacket rule, and everything precedes the catch-all top rule.
var rules = []struct {
	category Category
	re       *regexp.Regexp
}{
	{CategoryActivewear, regexp.MustCompile(`(?i)\b(leggings?|yoga pants?|sports? bras?|track (?:pants?|jackets?|suits?)|gym (?:shorts?|tops?)|running (?:shorts?|tights?)|jerseys?|athletic wear|workout)\b`)},
	{CategoryOuterwear, regexp.MustCompile(`(?i)\b(hoodies?|sweatshirts?|jackets?|coats?|parkas?|blazers?|windbreakers?|puffers?|vests?|cardigans?|anoraks?|trench)\b`)},
	{CategoryDress, regexp.MustCompile(`(?i)\b(dress(?:es)?|gowns?|jumpsuits?|rompers?|sundress(?:es)?)\b`)},
	{CategoryBottom, regexp.MustCompile(`(?i)\b(jeans|trousers?|pants?|chinos?|shorts?|skirts?|joggers?|sweatpants?|culottes?|slacks)\b`)},
	{CategoryFootwear, regexp.MustCompile(`(?i)\b(sneakers?|shoes?|boots?|sandals?|loafers?|heels?|slippers?|trainers?|flats|mules|espadrilles?|cleats?)\b`)},
	{CategoryAccessory, regexp.MustCompile(`(?i)\b(hats?|caps?|beanies?|scar(?:f|ves)|belts?|bags?|backpacks?|purses?|totes?|sunglasses|watch(?:es)?|jewelr?y|necklaces?|bracelets?|earrings?|rings?|gloves?|socks?|wallets?|ties?)\b`)},
	{CategoryTop, regexp.MustCompile(`(?i)\b(t[- ]?shirts?|tees?|shirts?|blouses?|tanks? tops?|tanks?|polos?|sweaters?|tops?|turtlenecks?|camisoles?|henleys?|pullovers?|knits?)\b`)},
}

// Categorize classifies free text (typically name + description) into a
// category tag. Unmatched text gets the default category.
func Categorize(text string) Category {
	if strings.TrimSpace(text) == "" {
		return CategoryOther
	}
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.category
		}
	}
	return CategoryOther
}

// palette is the fixed color vocabulary, ordered so compound names
// (navy, burgundy) match before the primaries they contain or resemble.
var palette = []struct {
	name string
	re   *regexp.Regexp
}{
	{"navy", regexp.MustCompile(`(?i)\bnavy\b`)},
	{"burgundy", regexp.MustCompile(`(?i)\b(burgundy|maroon|wine)\b`)},
	{"beige", regexp.MustCompile(`(?i)\b(beige|tan|khaki|cream|ivory)\b`)},
	{"gray", regexp.MustCompile(`(?i)\b(gray|grey|charcoal)\b`)},
	{"black", regexp.MustCompile(`(?i)\bblack\b`)},
	{"white", regexp.MustCompile(`(?i)\bwhite\b`)},
	{"red", regexp.MustCompile(`(?i)\bred\b`)},
	{"blue", regexp.MustCompile(`(?i)\b(blue|denim|indigo)\b`)},
	{"green", regexp.MustCompile(`(?i)\b(green|olive)\b`)},
	{"yellow", regexp.MustCompile(`(?i)\b(yellow|mustard)\b`)},
	{"orange", regexp.MustCompile(`(?i)\b(orange|rust)\b`)},
	{"purple", regexp.MustCompile(`(?i)\b(purple|violet|lavender)\b`)},
	{"pink", regexp.MustCompile(`(?i)\b(pink|blush|rose)\b`)},
	{"brown", regexp.MustCompile(`(?i)\b(brown|chocolate)\b`)},
	{"gold", regexp.MustCompile(`(?i)\bgold(?:en)?\b`)},
	{"silver", regexp.MustCompile(`(?i)\bsilver\b`)},
}

// DetectColor finds the first palette color named in free text. Returns
// "" when no palette color appears; color is optional on a record.
func DetectColor(text string) string {
	for _, c := range palette {
		if c.re.MatchString(text) {
			return c.name
		}
	}
	return ""
}
