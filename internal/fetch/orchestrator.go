package fetch

import (
	"context"

	"go.uber.org/zap"
)

// Tier names the fetch strategy that produced an outcome.
type Tier string

const (
	TierProvider Tier = "provider"
	TierDirect   Tier = "direct"
	TierProxy    Tier = "proxy"
)

// Provider abstracts a paid scraping API used as the first tier. A nil
// Provider on the orchestrator means the tier is skipped entirely.
type Provider interface {
	// FetchPage fetches the target URL through the provider, optionally
	// with server-side JS rendering. Errors mean "provider unavailable"
	// and trigger fallback, never a hard failure.
	FetchPage(ctx context.Context, rawURL string, render bool) (*Response, error)
	Name() string
}

// Outcome is the final result of an orchestration run. Exactly one of
// Response (with OK status), BlockedBody, or Err describes the verdict;
// Tier records which attempt produced the surviving response.
type Outcome struct {
	Tier        Tier
	Response    *Response
	Blocked     bool
	BlockedBody string
	Err         error
}

// FetchOptions are per-request knobs for an orchestration run.
type FetchOptions struct {
	// Render asks the provider tier for server-side JS rendering.
	Render bool
	// ForceProxy escalates to the proxy tier even without a block signal.
	ForceProxy bool
}

// Orchestrator sequences the fetch tiers: provider, then direct, then
// proxy. A provider success is final. The proxy tier runs only on
// block-like signals (or when forced), and never downgrades a response
// the direct tier already obtained.
type Orchestrator struct {
	provider Provider
	direct   *Fetcher
	// newProxy lazily constructs the proxy fetcher; nil means no proxy
	// is configured. Construction failure degrades to "proxy
	// unavailable" and the best prior result stands.
	newProxy func() (*Fetcher, error)
}

// NewOrchestrator assembles an orchestrator. provider and newProxy may be
// nil when the corresponding tier is not configured.
func NewOrchestrator(provider Provider, direct *Fetcher, newProxy func() (*Fetcher, error)) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		direct:   direct,
		newProxy: newProxy,
	}
}

type state int

const (
	stateProvider state = iota
	stateDirect
	stateProxy
	stateDone
)

// Fetch runs the tier state machine for one URL.
func (o *Orchestrator) Fetch(ctx context.Context, rawURL string, opts FetchOptions) Outcome {
	var out Outcome

	st := stateProvider
	for st != stateDone {
		switch st {
		case stateProvider:
			st = stateDirect
			if o.provider == nil {
				continue
			}
			resp, err := o.provider.FetchPage(ctx, rawURL, opts.Render)
			if err == nil && resp.OK() {
				// Provider success is final: no further tiers.
				return Outcome{Tier: TierProvider, Response: resp}
			}
			zap.L().Warn("fetch: provider tier failed, falling back to direct",
				zap.String("provider", o.provider.Name()),
				zap.String("url", rawURL),
				zap.Error(err),
			)

		case stateDirect:
			res := o.direct.Try(ctx, rawURL)
			out = Outcome{
				Tier:        TierDirect,
				Response:    res.Response,
				Blocked:     res.Blocked,
				BlockedBody: res.BlockedBody,
				Err:         res.Err,
			}
			if o.newProxy != nil && (res.Blocked || opts.ForceProxy) {
				st = stateProxy
			} else {
				st = stateDone
			}

		case stateProxy:
			st = stateDone
			proxy, err := o.newProxy()
			if err != nil {
				zap.L().Warn("fetch: proxy unavailable, keeping direct result",
					zap.String("url", rawURL),
					zap.Error(err),
				)
				continue
			}
			res := proxy.Try(ctx, rawURL)
			// A proxy response overrides the direct one; blocked-body and
			// error only backfill what the direct tier left empty.
			if res.Response != nil {
				out.Response = res.Response
				out.Tier = TierProxy
			}
			if !out.Blocked && res.Blocked {
				out.Blocked = true
				out.BlockedBody = res.BlockedBody
				out.Tier = TierProxy
			}
			if out.Err == nil {
				out.Err = res.Err
			}
		}
	}

	return out
}
