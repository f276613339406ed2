// Package scoring turns a reconciled analysis snapshot into a 0-20 trust
// score with a per-criterion breakdown.
package scoring

import (
	"math"

	"solana-token-scan/internal/domain"
)

// MaxScore is the sum of all criterion maxima.
const MaxScore = 20

// Verdict labels for score ranges.
const (
	VerdictExcellent = "Excellent"
	VerdictGood      = "Good"
	VerdictAverage   = "Average"
	VerdictRisky     = "Risky"
)

// Input carries the reconciled values the scorer reads.
type Input struct {
	Market       domain.MarketSnapshot
	MarketCapUSD float64
	Holders      domain.HolderDistribution
	Risk         domain.RiskFlags
}

// Scorer evaluates the scoring criteria in a fixed order.
type Scorer struct{}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score evaluates all eight criteria and returns the total with the
// per-criterion lines in evaluation order. Identical input always produces
// identical output.
func (s *Scorer) Score(in Input) (int, []domain.ScoreLine) {
	lines := []domain.ScoreLine{
		s.pools(in.Market.PoolCount),
		s.volume(in.Market.Volume24hUSD),
		s.liquidity(in.Market.LiquidityUSD),
		s.stability(in.Market.PriceChange24hPct),
		s.marketCap(in.MarketCapUSD),
		s.holderCount(in.Holders.HolderCount),
		s.concentration(in.Holders),
		s.security(in.Risk),
	}

	total := 0
	for _, l := range lines {
		total += l.Points
	}
	return total, lines
}

// Verdict maps a total score to its label.
func Verdict(score int) string {
	switch {
	case score >= 16:
		return VerdictExcellent
	case score >= 12:
		return VerdictGood
	case score >= 8:
		return VerdictAverage
	default:
		return VerdictRisky
	}
}

// Detail strings name the band that matched, not the raw value; the raw
// values already appear in the report body above the breakdown.
func (s *Scorer) pools(count int) domain.ScoreLine {
	points := 0
	band := "under 2 pools"
	switch {
	case count >= 5:
		points = 2
		band = "5+ pools"
	case count >= 2:
		points = 1
		band = "2-4 pools"
	}
	return domain.ScoreLine{
		Category: "Trading pools",
		Points:   points,
		Max:      2,
		Detail:   band,
	}
}

func (s *Scorer) volume(usd float64) domain.ScoreLine {
	points, band := usdTier(usd)
	return domain.ScoreLine{
		Category: "24h volume",
		Points:   points,
		Max:      3,
		Detail:   band,
	}
}

func (s *Scorer) liquidity(usd float64) domain.ScoreLine {
	points, band := usdTier(usd)
	return domain.ScoreLine{
		Category: "Liquidity",
		Points:   points,
		Max:      3,
		Detail:   band,
	}
}

// usdTier is the shared 10K/100K/1M ladder for volume and liquidity.
func usdTier(usd float64) (int, string) {
	switch {
	case usd >= 1_000_000:
		return 3, "$1M+"
	case usd >= 100_000:
		return 2, "$100K-$1M"
	case usd >= 10_000:
		return 1, "$10K-$100K"
	default:
		return 0, "under $10K"
	}
}

func (s *Scorer) stability(change24hPct float64) domain.ScoreLine {
	abs := math.Abs(change24hPct)
	points := 0
	band := "over ±15% in 24h"
	switch {
	case abs <= 5:
		points = 2
		band = "within ±5% in 24h"
	case abs <= 15:
		points = 1
		band = "within ±15% in 24h"
	}
	return domain.ScoreLine{
		Category: "Price stability",
		Points:   points,
		Max:      2,
		Detail:   band,
	}
}

func (s *Scorer) marketCap(usd float64) domain.ScoreLine {
	points := 0
	band := "under $100K"
	switch {
	case usd >= 10_000_000:
		points = 3
		band = "$10M+"
	case usd >= 1_000_000:
		points = 2
		band = "$1M-$10M"
	case usd >= 100_000:
		points = 1
		band = "$100K-$1M"
	}
	return domain.ScoreLine{
		Category: "Market cap",
		Points:   points,
		Max:      3,
		Detail:   band,
	}
}

func (s *Scorer) holderCount(count int) domain.ScoreLine {
	points := 0
	band := "under 100 holders"
	switch {
	case count >= 10_000:
		points = 3
		band = "10K+ holders"
	case count >= 1_000:
		points = 2
		band = "1K-10K holders"
	case count >= 100:
		points = 1
		band = "100-1K holders"
	}
	return domain.ScoreLine{
		Category: "Holders",
		Points:   points,
		Max:      3,
		Detail:   band,
	}
}

func (s *Scorer) concentration(h domain.HolderDistribution) domain.ScoreLine {
	points := 0
	band := "top 10 hold over 50%"
	switch {
	case h.Top10SharePct <= 20:
		points = 2
		band = "top 10 hold ≤20%"
	case h.Top10SharePct <= 50:
		points = 1
		band = "top 10 hold ≤50%"
	}
	return domain.ScoreLine{
		Category: "Distribution",
		Points:   points,
		Max:      2,
		Detail:   band,
	}
}

func (s *Scorer) security(flags domain.RiskFlags) domain.ScoreLine {
	points := 0
	detail := "mint or freeze authority retained"
	if !flags.RugPull() {
		points = 2
		detail = "authorities renounced"
	}
	return domain.ScoreLine{
		Category: "Security",
		Points:   points,
		Max:      2,
		Detail:   detail,
	}
}
