// Package domain defines the data types shared across the analysis pipeline.
package domain

import "time"

// MarketSnapshot holds aggregated trading-pool data for one mint.
// The zero value means "no usable market data".
type MarketSnapshot struct {
	PoolCount         int
	PriceUSD          float64
	PriceChange24hPct float64 // signed
	Volume24hUSD      float64
	LiquidityUSD      float64
}

// TokenMetadata holds descriptive metadata from the indexer.
type TokenMetadata struct {
	Name      string
	Symbol    string
	Supply    uint64
	Decimals  uint8
	CreatedAt *time.Time // best-effort, usually nil
}

// DefaultTokenMetadata returns metadata with the "Unknown" placeholders.
func DefaultTokenMetadata() TokenMetadata {
	return TokenMetadata{Name: "Unknown", Symbol: "Unknown"}
}

// SupplyInfo is the on-chain total supply read directly from the ledger.
// A non-zero value overrides the indexer-derived supply in the merge step.
type SupplyInfo struct {
	Supply   uint64
	Decimals uint8
}

// HolderDistribution describes holder count and concentration.
// HolderCount == 0 signals "no usable data".
type HolderDistribution struct {
	HolderCount   int
	Top10SharePct float64 // [0,100], rounded to 2 decimal places
}

// RiskFlags are the ledger-level authority flags of a mint account.
type RiskFlags struct {
	HasFreezeAuthority bool
	HasMintAuthority   bool
}

// RugPull reports whether the issuer retains mint or freeze authority.
func (f RiskFlags) RugPull() bool {
	return f.HasFreezeAuthority || f.HasMintAuthority
}

// ScoreLine is one rubric category's contribution with its explanation.
type ScoreLine struct {
	Category string
	Points   int
	Max      int
	Detail   string
}

// AnalysisRecord is the reconciled result of one analysis request.
// It is assembled once by the aggregator and immutable thereafter.
type AnalysisRecord struct {
	Mint      string
	Name      string
	Symbol    string
	CreatedAt *time.Time

	Market       MarketSnapshot
	Supply       uint64
	Decimals     uint8
	MarketCapUSD float64

	Holders HolderDistribution
	Risk    RiskFlags

	Score      int // [0,20]
	ScoreLines []ScoreLine
}
