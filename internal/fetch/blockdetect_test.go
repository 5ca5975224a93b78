package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"empty", "", false},
		{"plain_product_page", "<html><body><h1>Blue Crew Tee</h1></body></html>", false},
		{"captcha", "<html>Please complete the CAPTCHA to continue</html>", true},
		{"cloudflare", "<html>Checking your browser - Cloudflare</html>", true},
		{"access_denied", "<h1>Access Denied</h1>", true},
		{"verify_human", "Please verify you are human before continuing", true},
		{"bot_detection", "our bot detection flagged this request", true},
		{"unusual_traffic", "We detected unusual traffic from your network", true},
		{"robot_question", "Are you a robot?", true},
		{"pardon_interruption", "Pardon Our Interruption", true},
		{"request_blocked", "Request blocked by security policy", true},
		{"mixed_case", "ACCESS DENIED", true},
		{"signature_in_larger_page", "<html><title>shop</title><div>access denied</div></html>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBlocked(tt.body))
		})
	}
}
