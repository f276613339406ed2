// Package holders resolves holder count and concentration for a mint.
//
// Three backing strategies share one output shape and are tried in a fixed
// order; the chain stops at the first strategy reporting at least one
// holder. Exhausting the chain yields the all-zero distribution, never an
// error.
package holders

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-token-scan/internal/domain"
	"solana-token-scan/internal/observability"
)

// topHolders is how many of the largest accounts make up the
// concentration share.
const topHolders = 10

// Strategy is one way of obtaining holder balances for a mint.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, mint string) (domain.HolderDistribution, error)
}

// Resolver tries strategies in order until one yields holders.
type Resolver struct {
	strategies []Strategy
	logger     zerolog.Logger
}

// NewResolver creates a resolver over the given ordered strategies.
func NewResolver(logger zerolog.Logger, strategies ...Strategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		logger:     logger.With().Str("component", "holders").Logger(),
	}
}

// Resolve returns the first non-empty distribution produced by the chain.
// Strategy failures are logged and treated as "no data, try next".
func (r *Resolver) Resolve(ctx context.Context, mintAddr string) domain.HolderDistribution {
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			return domain.HolderDistribution{}
		}

		dist, err := s.Resolve(ctx, mintAddr)
		if err != nil {
			r.logger.Warn().Err(err).Str("strategy", s.Name()).Str("mint", mintAddr).
				Msg("holder strategy failed, trying next")
			continue
		}

		if dist.HolderCount > 0 {
			observability.RecordHolderStrategy(s.Name())
			return dist
		}
	}

	return domain.HolderDistribution{}
}

// Distribution reduces positive holder balances to a HolderDistribution:
// count of holders and the share of total balance held by the ten largest,
// rounded half away from zero to 2 decimal places. A zero observed total
// yields a zero share.
func Distribution(amounts []decimal.Decimal) domain.HolderDistribution {
	positive := make([]decimal.Decimal, 0, len(amounts))
	for _, a := range amounts {
		if a.IsPositive() {
			positive = append(positive, a)
		}
	}

	if len(positive) == 0 {
		return domain.HolderDistribution{}
	}

	sort.Slice(positive, func(i, j int) bool {
		return positive[i].GreaterThan(positive[j])
	})

	total := decimal.Zero
	for _, a := range positive {
		total = total.Add(a)
	}

	top := positive
	if len(top) > topHolders {
		top = top[:topHolders]
	}

	topSum := decimal.Zero
	for _, a := range top {
		topSum = topSum.Add(a)
	}

	share := 0.0
	if total.IsPositive() {
		share = topSum.Div(total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	return domain.HolderDistribution{
		HolderCount:   len(positive),
		Top10SharePct: share,
	}
}
