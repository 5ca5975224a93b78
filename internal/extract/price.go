package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRe    = regexp.MustCompile(`[0-9][0-9.,]*`)
	priceScanRe = regexp.MustCompile(`[$£€¥]\s?([0-9][0-9.,]*)`)
)

// ParsePrice coerces messy price text into a number. It tolerates leading
// currency symbols, thousands separators, and both decimal conventions
// ("1,234.56" and "1.234,56"). Returns false rather than guessing when no
// number is present.
func ParsePrice(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.Trim(m, ".,")

	lastDot := strings.LastIndex(m, ".")
	lastComma := strings.LastIndex(m, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			// 1,234.56
			m = strings.ReplaceAll(m, ",", "")
		} else {
			// 1.234,56
			m = strings.ReplaceAll(m, ".", "")
			m = strings.Replace(m, ",", ".", 1)
		}
	case lastComma >= 0:
		// Comma only: a single comma with two trailing digits is a decimal
		// mark ("24,99"); anything else is thousands grouping ("1,234").
		if strings.Count(m, ",") == 1 && len(m)-lastComma-1 == 2 {
			m = strings.Replace(m, ",", ".", 1)
		} else {
			m = strings.ReplaceAll(m, ",", "")
		}
	case strings.Count(m, ".") > 1:
		// Multiple dots can only be thousands grouping.
		m = strings.ReplaceAll(m, ".", "")
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// ScanPrice finds the first currency-prefixed amount in free text.
func ScanPrice(text string) (float64, bool) {
	m := priceScanRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	return ParsePrice(m[1])
}
