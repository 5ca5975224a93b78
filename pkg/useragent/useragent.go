// Package useragent provides a rotating pool of browser user-agent strings.
//
// Anti-bot systems correlate repeated requests by fingerprint; drawing a
// fresh agent per attempt from a mixed desktop/mobile pool keeps retries
// from looking like the same client hammering the site.
package useragent

import "math/rand"

var pool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Mobile Safari/537.36",
}

// Random returns a user-agent string drawn uniformly from the pool.
func Random() string {
	return pool[rand.Intn(len(pool))]
}

// Pool returns a copy of the full user-agent pool.
func Pool() []string {
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}
