package fetch

import "strings"

// blockSignatures are textual markers of anti-bot walls. The list is
// deliberately broad: a false positive only escalates to the next fetch
// tier, it never hard-fails a request.
var blockSignatures = []string{
	"captcha",
	"cloudflare",
	"access denied",
	"verify you are human",
	"bad request",
	"bot detection",
	"unusual traffic",
	"are you a robot",
	"pardon our interruption",
	"request blocked",
}

// IsBlocked reports whether a response body carries a known bot-block
// signature. Empty input is never considered blocked.
func IsBlocked(body string) bool {
	if body == "" {
		return false
	}
	lower := strings.ToLower(body)
	for _, sig := range blockSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
