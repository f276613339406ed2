// Package analyzer orchestrates the concurrent fan-out over the data
// sources and reconciles their results into a scored AnalysisRecord.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solana-token-scan/internal/domain"
	"solana-token-scan/internal/guard"
	"solana-token-scan/internal/mint"
	"solana-token-scan/internal/observability"
	"solana-token-scan/internal/scoring"
)

// ErrInvalidMint is returned for identifiers failing base58/length
// validation, before any network call.
var ErrInvalidMint = errors.New("invalid mint address")

// AnalysisFailedError reports a fault in the merge or scoring stage. The
// diagnostic is capped so raw internal errors never reach chat output
// untrimmed.
type AnalysisFailedError struct {
	Diagnostic string
}

func (e *AnalysisFailedError) Error() string {
	return "analysis failed: " + e.Diagnostic
}

// maxDiagnosticLen caps the diagnostic carried by AnalysisFailedError.
const maxDiagnosticLen = 200

// DefaultSourceTimeout bounds each individual source call so one stalled
// provider cannot hold the whole fan-out.
const DefaultSourceTimeout = 12 * time.Second

// Provider names used for guard routing and failure metrics.
const (
	sourceMarket  = "market"
	sourceIndexer = "indexer"
	sourceLedger  = "ledger"
	sourceHolders = "holders"
	sourceRisk    = "risk"
)

// MarketSource fetches aggregated pool data for a mint.
type MarketSource interface {
	Fetch(ctx context.Context, mint string) (domain.MarketSnapshot, error)
}

// MetadataSource fetches descriptive token metadata.
type MetadataSource interface {
	Metadata(ctx context.Context, mint string) (domain.TokenMetadata, error)
}

// SupplySource fetches the on-chain total supply.
type SupplySource interface {
	Supply(ctx context.Context, mint string) (domain.SupplyInfo, error)
}

// HolderSource resolves holder count and concentration. It is internally
// fail-open and never returns an error.
type HolderSource interface {
	Resolve(ctx context.Context, mint string) domain.HolderDistribution
}

// RiskSource derives authority risk flags. It is internally fail-open.
type RiskSource interface {
	Assess(ctx context.Context, mint string) domain.RiskFlags
}

// Options bundle the analyzer's dependencies.
type Options struct {
	Market   MarketSource
	Metadata MetadataSource
	Supply   SupplySource
	Holders  HolderSource
	Risk     RiskSource

	Guard  *guard.Guard
	Logger zerolog.Logger

	// SourceTimeout overrides DefaultSourceTimeout when positive.
	SourceTimeout time.Duration
}

// Analyzer runs the full analysis pipeline for one mint at a time. It is
// stateless between calls and safe for concurrent use.
type Analyzer struct {
	market   MarketSource
	metadata MetadataSource
	supply   SupplySource
	holders  HolderSource
	risk     RiskSource

	guard   *guard.Guard
	scorer  *scoring.Scorer
	logger  zerolog.Logger
	timeout time.Duration
}

// New creates an analyzer from options. Guard may be nil, in which case
// source calls run unguarded.
func New(opts Options) *Analyzer {
	timeout := opts.SourceTimeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}

	return &Analyzer{
		market:   opts.Market,
		metadata: opts.Metadata,
		supply:   opts.Supply,
		holders:  opts.Holders,
		risk:     opts.Risk,
		guard:    opts.Guard,
		scorer:   scoring.NewScorer(),
		logger:   opts.Logger.With().Str("component", "analyzer").Logger(),
		timeout:  timeout,
	}
}

// Analyze validates the mint, gathers all sources concurrently, reconciles
// them and scores the result. Individual source failures degrade to zero
// values; only validation failures and pipeline faults surface as errors.
func (a *Analyzer) Analyze(ctx context.Context, mintAddr string) (rec *domain.AnalysisRecord, err error) {
	if !mint.Valid(mintAddr) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMint, mintAddr)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = failed(fmt.Sprintf("%v", r))
			a.logger.Error().Str("mint", mintAddr).Interface("panic", r).
				Msg("analysis pipeline fault")
			observability.RecordAnalysis("failed", time.Since(start).Seconds())
			return
		}
		if err == nil {
			observability.RecordAnalysis("ok", time.Since(start).Seconds())
		}
	}()

	logger := a.logger.With().Str("mint", mintAddr).Logger()
	logger.Info().Msg("analysis started")

	var (
		wg       sync.WaitGroup
		market   domain.MarketSnapshot
		metadata = domain.DefaultTokenMetadata()
		supply   domain.SupplyInfo
		holders  domain.HolderDistribution
		risk     domain.RiskFlags
	)

	wg.Add(5)

	go a.task(ctx, &wg, logger, sourceMarket, func(taskCtx context.Context) error {
		m, err := a.market.Fetch(taskCtx, mintAddr)
		if err != nil {
			return err
		}
		market = m
		return nil
	})

	go a.task(ctx, &wg, logger, sourceIndexer, func(taskCtx context.Context) error {
		m, err := a.metadata.Metadata(taskCtx, mintAddr)
		if err != nil {
			return err
		}
		metadata = m
		return nil
	})

	go a.task(ctx, &wg, logger, sourceLedger, func(taskCtx context.Context) error {
		s, err := a.supply.Supply(taskCtx, mintAddr)
		if err != nil {
			return err
		}
		supply = s
		return nil
	})

	go a.task(ctx, &wg, logger, sourceHolders, func(taskCtx context.Context) error {
		holders = a.holders.Resolve(taskCtx, mintAddr)
		return nil
	})

	go a.task(ctx, &wg, logger, sourceRisk, func(taskCtx context.Context) error {
		risk = a.risk.Assess(taskCtx, mintAddr)
		return nil
	})

	wg.Wait()

	if ctx.Err() != nil {
		observability.RecordAnalysis("cancelled", time.Since(start).Seconds())
		return nil, ctx.Err()
	}

	record := a.merge(mintAddr, market, metadata, supply, holders, risk)
	record.Score, record.ScoreLines = a.scorer.Score(scoring.Input{
		Market:       record.Market,
		MarketCapUSD: record.MarketCapUSD,
		Holders:      record.Holders,
		Risk:         record.Risk,
	})
	observability.ObserveScore(record.Score)

	logger.Info().Int("score", record.Score).
		Int("holders", record.Holders.HolderCount).
		Float64("liquidity_usd", record.Market.LiquidityUSD).
		Dur("elapsed", time.Since(start)).
		Msg("analysis finished")

	return record, nil
}

// task runs one source call with its own timeout and fault isolation. A
// panic or error inside the call leaves the source's default value in
// place and never disturbs sibling tasks.
func (a *Analyzer) task(ctx context.Context, wg *sync.WaitGroup, logger zerolog.Logger, source string, fn func(context.Context) error) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("source", source).Interface("panic", r).
				Msg("source task panicked")
			observability.RecordSourceFailure(source)
		}
	}()

	taskCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	call := func() error { return fn(taskCtx) }

	var err error
	if a.guard != nil {
		err = a.guard.Do(taskCtx, source, call)
	} else {
		err = call()
	}

	if err != nil {
		logger.Warn().Err(err).Str("source", source).Msg("source unavailable, using defaults")
		observability.RecordSourceFailure(source)
	}
}

// merge reconciles the source results. The ledger supply wins over the
// indexer's when non-zero, and likewise for decimals.
func (a *Analyzer) merge(mintAddr string, market domain.MarketSnapshot, metadata domain.TokenMetadata, supply domain.SupplyInfo, holders domain.HolderDistribution, risk domain.RiskFlags) *domain.AnalysisRecord {
	mergedSupply := metadata.Supply
	if supply.Supply != 0 {
		mergedSupply = supply.Supply
	}

	mergedDecimals := metadata.Decimals
	if supply.Decimals != 0 {
		mergedDecimals = supply.Decimals
	}

	return &domain.AnalysisRecord{
		Mint:         mintAddr,
		Name:         metadata.Name,
		Symbol:       metadata.Symbol,
		CreatedAt:    metadata.CreatedAt,
		Market:       market,
		Supply:       mergedSupply,
		Decimals:     mergedDecimals,
		MarketCapUSD: marketCap(market.PriceUSD, mergedSupply, mergedDecimals),
		Holders:      holders,
		Risk:         risk,
	}
}

// marketCap is price times the decimal-adjusted supply; zero supply or
// price yields zero.
func marketCap(priceUSD float64, supply uint64, decimals uint8) float64 {
	if supply == 0 || priceUSD == 0 {
		return 0
	}
	return priceUSD * float64(supply) / math.Pow10(int(decimals))
}

// failed builds an AnalysisFailedError with a capped diagnostic.
func failed(diagnostic string) error {
	if len(diagnostic) > maxDiagnosticLen {
		diagnostic = diagnostic[:maxDiagnosticLen]
	}
	return &AnalysisFailedError{Diagnostic: diagnostic}
}
