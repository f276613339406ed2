package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"solana-token-scan/internal/domain"
)

const testMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

type stubMarket struct {
	snapshot domain.MarketSnapshot
	err      error
	calls    int32
}

func (s *stubMarket) Fetch(ctx context.Context, mint string) (domain.MarketSnapshot, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.snapshot, s.err
}

type stubMetadata struct {
	metadata domain.TokenMetadata
	err      error
	panics   bool
	calls    int32
}

func (s *stubMetadata) Metadata(ctx context.Context, mint string) (domain.TokenMetadata, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.panics {
		panic("indexer payload explosion")
	}
	return s.metadata, s.err
}

type stubSupply struct {
	supply domain.SupplyInfo
	err    error
	calls  int32
}

func (s *stubSupply) Supply(ctx context.Context, mint string) (domain.SupplyInfo, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.supply, s.err
}

type stubHolders struct {
	dist  domain.HolderDistribution
	calls int32
}

func (s *stubHolders) Resolve(ctx context.Context, mint string) domain.HolderDistribution {
	atomic.AddInt32(&s.calls, 1)
	return s.dist
}

type stubRisk struct {
	flags domain.RiskFlags
	calls int32
}

func (s *stubRisk) Assess(ctx context.Context, mint string) domain.RiskFlags {
	atomic.AddInt32(&s.calls, 1)
	return s.flags
}

type stubs struct {
	market   *stubMarket
	metadata *stubMetadata
	supply   *stubSupply
	holders  *stubHolders
	risk     *stubRisk
}

func newStubs() *stubs {
	return &stubs{
		market:   &stubMarket{},
		metadata: &stubMetadata{metadata: domain.DefaultTokenMetadata()},
		supply:   &stubSupply{},
		holders:  &stubHolders{},
		risk:     &stubRisk{},
	}
}

func newTestAnalyzer(s *stubs) *Analyzer {
	return New(Options{
		Market:   s.market,
		Metadata: s.metadata,
		Supply:   s.supply,
		Holders:  s.holders,
		Risk:     s.risk,
		Logger:   zerolog.Nop(),
	})
}

func TestAnalyze_InvalidMintFailsFast(t *testing.T) {
	s := newStubs()
	a := newTestAnalyzer(s)

	for _, bad := range []string{"", "short", "contains-0-and-l-chars!", strings.Repeat("A", 45)} {
		_, err := a.Analyze(context.Background(), bad)
		if !errors.Is(err, ErrInvalidMint) {
			t.Errorf("%q: expected ErrInvalidMint, got %v", bad, err)
		}
	}

	total := s.market.calls + s.metadata.calls + s.supply.calls + s.holders.calls + s.risk.calls
	if total != 0 {
		t.Errorf("expected no source calls for invalid mints, got %d", total)
	}
}

func TestAnalyze_AllSourcesContribute(t *testing.T) {
	s := newStubs()
	s.market.snapshot = domain.MarketSnapshot{
		PoolCount:         6,
		PriceUSD:          2,
		PriceChange24hPct: 1.5,
		Volume24hUSD:      5_000_000,
		LiquidityUSD:      2_000_000,
	}
	s.metadata.metadata = domain.TokenMetadata{Name: "Sample", Symbol: "SMPL", Supply: 1, Decimals: 9}
	s.supply.supply = domain.SupplyInfo{Supply: 10_000_000_000_000_000, Decimals: 9}
	s.holders.dist = domain.HolderDistribution{HolderCount: 50_000, Top10SharePct: 11.3}

	a := newTestAnalyzer(s)
	rec, err := a.Analyze(context.Background(), testMint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Name != "Sample" || rec.Symbol != "SMPL" {
		t.Errorf("unexpected metadata: %s/%s", rec.Name, rec.Symbol)
	}
	if rec.Supply != 10_000_000_000_000_000 {
		t.Errorf("expected ledger supply to win, got %d", rec.Supply)
	}
	// 2 USD * 1e16 raw / 1e9 = 2e7
	if rec.MarketCapUSD != 20_000_000 {
		t.Errorf("expected market cap 20000000, got %v", rec.MarketCapUSD)
	}
	if rec.Score != 20 {
		t.Errorf("expected perfect score, got %d", rec.Score)
	}
	if len(rec.ScoreLines) != 8 {
		t.Errorf("expected 8 score lines, got %d", len(rec.ScoreLines))
	}
}

func TestAnalyze_SourceFailureIsIsolated(t *testing.T) {
	s := newStubs()
	s.market.err = errors.New("dexscreener 503")
	s.metadata.metadata = domain.TokenMetadata{Name: "Sample", Symbol: "SMPL"}
	s.holders.dist = domain.HolderDistribution{HolderCount: 500, Top10SharePct: 30}

	a := newTestAnalyzer(s)
	rec, err := a.Analyze(context.Background(), testMint)
	if err != nil {
		t.Fatalf("expected degraded record, got error: %v", err)
	}

	if rec.Market != (domain.MarketSnapshot{}) {
		t.Errorf("expected zero market snapshot, got %+v", rec.Market)
	}
	if rec.Name != "Sample" {
		t.Errorf("expected metadata to survive market failure, got %s", rec.Name)
	}
	if rec.Holders.HolderCount != 500 {
		t.Errorf("expected holders to survive market failure, got %d", rec.Holders.HolderCount)
	}
}

func TestAnalyze_SourcePanicIsIsolated(t *testing.T) {
	s := newStubs()
	s.metadata.panics = true
	s.holders.dist = domain.HolderDistribution{HolderCount: 123, Top10SharePct: 40}

	a := newTestAnalyzer(s)
	rec, err := a.Analyze(context.Background(), testMint)
	if err != nil {
		t.Fatalf("expected degraded record, got error: %v", err)
	}

	if rec.Name != "Unknown" || rec.Symbol != "Unknown" {
		t.Errorf("expected default metadata after panic, got %s/%s", rec.Name, rec.Symbol)
	}
	if rec.Holders.HolderCount != 123 {
		t.Errorf("expected holders unaffected by sibling panic, got %d", rec.Holders.HolderCount)
	}
}

func TestAnalyze_IndexerSupplyUsedWhenLedgerEmpty(t *testing.T) {
	s := newStubs()
	s.market.snapshot = domain.MarketSnapshot{PriceUSD: 0.5}
	s.metadata.metadata = domain.TokenMetadata{Name: "X", Symbol: "X", Supply: 4_000_000, Decimals: 0}
	s.supply.err = errors.New("rpc down")

	a := newTestAnalyzer(s)
	rec, err := a.Analyze(context.Background(), testMint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Supply != 4_000_000 {
		t.Errorf("expected indexer supply fallback, got %d", rec.Supply)
	}
	if rec.MarketCapUSD != 2_000_000 {
		t.Errorf("expected market cap 2000000, got %v", rec.MarketCapUSD)
	}
}

func TestAnalyze_ZeroSupplyMeansZeroMarketCap(t *testing.T) {
	s := newStubs()
	s.market.snapshot = domain.MarketSnapshot{PriceUSD: 12.5}

	a := newTestAnalyzer(s)
	rec, err := a.Analyze(context.Background(), testMint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.MarketCapUSD != 0 {
		t.Errorf("expected zero market cap without supply, got %v", rec.MarketCapUSD)
	}
}

// stallingMarket blocks until its call context expires.
type stallingMarket struct{}

func (s *stallingMarket) Fetch(ctx context.Context, mint string) (domain.MarketSnapshot, error) {
	<-ctx.Done()
	return domain.MarketSnapshot{}, ctx.Err()
}

func TestAnalyze_StalledSourceTimesOutAlone(t *testing.T) {
	s := newStubs()
	s.metadata.metadata = domain.TokenMetadata{Name: "Sample", Symbol: "SMPL"}
	s.holders.dist = domain.HolderDistribution{HolderCount: 750, Top10SharePct: 25}

	a := New(Options{
		Market:        &stallingMarket{},
		Metadata:      s.metadata,
		Supply:        s.supply,
		Holders:       s.holders,
		Risk:          s.risk,
		Logger:        zerolog.Nop(),
		SourceTimeout: 25 * time.Millisecond,
	})

	start := time.Now()
	rec, err := a.Analyze(context.Background(), testMint)
	if err != nil {
		t.Fatalf("expected degraded record, got error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("stalled source held the fan-out for %v", elapsed)
	}

	if rec.Market != (domain.MarketSnapshot{}) {
		t.Errorf("expected zero market snapshot after timeout, got %+v", rec.Market)
	}
	if rec.Name != "Sample" || rec.Holders.HolderCount != 750 {
		t.Errorf("expected other sources to complete, got %s / %d holders",
			rec.Name, rec.Holders.HolderCount)
	}
}

func TestAnalyze_WorstCaseScoresZero(t *testing.T) {
	s := newStubs()
	s.market.snapshot = domain.MarketSnapshot{PriceChange24hPct: 40}
	s.holders.dist = domain.HolderDistribution{HolderCount: 0, Top10SharePct: 100}
	s.risk.flags = domain.RiskFlags{HasMintAuthority: true}

	a := newTestAnalyzer(s)
	rec, err := a.Analyze(context.Background(), testMint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Score != 0 {
		t.Errorf("expected score 0, got %d", rec.Score)
	}
	if !rec.Risk.RugPull() {
		t.Error("expected rug-pull risk")
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	s := newStubs()
	a := newTestAnalyzer(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, testMint)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFailed_TruncatesDiagnostic(t *testing.T) {
	long := strings.Repeat("x", 500)
	err := failed(long)

	var afe *AnalysisFailedError
	if !errors.As(err, &afe) {
		t.Fatalf("expected AnalysisFailedError, got %T", err)
	}
	if len(afe.Diagnostic) != maxDiagnosticLen {
		t.Errorf("expected diagnostic capped at %d, got %d", maxDiagnosticLen, len(afe.Diagnostic))
	}
}
