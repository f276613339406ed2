package telegram

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"solana-token-scan/internal/domain"
	"solana-token-scan/internal/scoring"
)

// grouped renders integers with thousands separators for display.
var grouped = message.NewPrinter(language.English)

// FormatNumber abbreviates a value with B/M/K suffixes at 2 decimal places.
func FormatNumber(num float64) string {
	abs := math.Abs(num)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", num/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2fM", num/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.2fK", num/1_000)
	default:
		return fmt.Sprintf("%.2f", num)
	}
}

func scoreEmoji(score int) string {
	switch {
	case score >= 16:
		return "🟢"
	case score >= 12:
		return "🟡"
	case score >= 8:
		return "🟠"
	default:
		return "🔴"
	}
}

func advice(score int) string {
	switch {
	case score >= 16:
		return "💡 *Recommendation*: quality token with solid metrics"
	case score >= 12:
		return "💡 *Recommendation*: decent token, keep watching its trend"
	case score >= 8:
		return "⚠️ *Caution*: average metrics, invest carefully"
	default:
		return "🚨 *Alert*: weak metrics, high risk"
	}
}

// ExplainScore renders the per-category breakdown in rubric order, one line
// per category with the points awarded out of the possible points.
func ExplainScore(record *domain.AnalysisRecord) []string {
	lines := make([]string, 0, len(record.ScoreLines))
	for _, l := range record.ScoreLines {
		lines = append(lines, fmt.Sprintf("• %s: %d/%d (%s)", l.Category, l.Points, l.Max, l.Detail))
	}
	return lines
}

// Report renders a full analysis record as a Markdown chat message.
func Report(record *domain.AnalysisRecord) string {
	createdAt := "Unknown"
	if record.CreatedAt != nil {
		createdAt = record.CreatedAt.Format("2006-01-02")
	}

	supply := grouped.Sprintf("%d", record.Supply)
	if record.Supply > 0 && record.Decimals > 0 {
		supply = FormatNumber(float64(record.Supply) / math.Pow10(int(record.Decimals)))
	}

	priceIndicator := "📈"
	if record.Market.PriceChange24hPct < 0 {
		priceIndicator = "📉"
	}

	rugIndicator := "✅ No"
	if record.Risk.RugPull() {
		rugIndicator = "🚨 Yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💡 *Solana Analysis* — `%s` (%s)\n", record.Symbol, record.Name)
	fmt.Fprintf(&b, "🏷️ Mint: `%s`\n", record.Mint)
	fmt.Fprintf(&b, "🗓️ Created: %s\n", createdAt)
	fmt.Fprintf(&b, "🔢 Active pools: %d\n", record.Market.PoolCount)
	fmt.Fprintf(&b, "💧 Liquidity: $%s\n", FormatNumber(record.Market.LiquidityUSD))
	fmt.Fprintf(&b, "📊 Volume 24h: $%s\n", FormatNumber(record.Market.Volume24hUSD))
	fmt.Fprintf(&b, "💲 Price (USD): $%.6f\n", record.Market.PriceUSD)
	fmt.Fprintf(&b, "%s Δ24h: %.2f%%\n", priceIndicator, record.Market.PriceChange24hPct)
	fmt.Fprintf(&b, "🏦 Market cap: $%s\n", FormatNumber(record.MarketCapUSD))
	fmt.Fprintf(&b, "🔢 Supply: %s (decimals=%d)\n", supply, record.Decimals)
	fmt.Fprintf(&b, "👥 Holders: %s\n", grouped.Sprintf("%d", record.Holders.HolderCount))
	fmt.Fprintf(&b, "🧮 Top 10 share: %.1f%%\n", record.Holders.Top10SharePct)
	fmt.Fprintf(&b, "🚨 Rug-pull: %s\n", rugIndicator)

	fmt.Fprintf(&b, "\n%s *Final score*: %d/%d (%s)\n",
		scoreEmoji(record.Score), record.Score, scoring.MaxScore, scoring.Verdict(record.Score))

	b.WriteString("\n📝 *Score breakdown:*\n")
	for _, line := range ExplainScore(record) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(advice(record.Score))

	return b.String()
}
