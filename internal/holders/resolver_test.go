package holders

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-token-scan/internal/domain"
)

type fakeStrategy struct {
	name  string
	dist  domain.HolderDistribution
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Resolve(ctx context.Context, mint string) (domain.HolderDistribution, error) {
	f.calls++
	return f.dist, f.err
}

func TestResolve_FirstStrategyWins(t *testing.T) {
	a := &fakeStrategy{name: "a", dist: domain.HolderDistribution{HolderCount: 42, Top10SharePct: 12.5}}
	b := &fakeStrategy{name: "b", dist: domain.HolderDistribution{HolderCount: 7}}

	r := NewResolver(zerolog.Nop(), a, b)
	dist := r.Resolve(context.Background(), "mint")

	if dist.HolderCount != 42 {
		t.Errorf("expected 42 holders, got %d", dist.HolderCount)
	}
	if b.calls != 0 {
		t.Errorf("expected second strategy to be skipped, got %d calls", b.calls)
	}
}

func TestResolve_FallsThroughOnEmptyAndError(t *testing.T) {
	a := &fakeStrategy{name: "a", err: errors.New("upstream down")}
	b := &fakeStrategy{name: "b"} // zero holders, no error
	c := &fakeStrategy{name: "c", dist: domain.HolderDistribution{HolderCount: 3, Top10SharePct: 99.0}}

	r := NewResolver(zerolog.Nop(), a, b, c)
	dist := r.Resolve(context.Background(), "mint")

	if a.calls != 1 || b.calls != 1 || c.calls != 1 {
		t.Errorf("expected one call each, got %d/%d/%d", a.calls, b.calls, c.calls)
	}
	if dist.HolderCount != 3 || dist.Top10SharePct != 99.0 {
		t.Errorf("unexpected distribution: %+v", dist)
	}
}

func TestResolve_ExhaustedChainYieldsZero(t *testing.T) {
	a := &fakeStrategy{name: "a", err: errors.New("nope")}
	b := &fakeStrategy{name: "b"}

	r := NewResolver(zerolog.Nop(), a, b)
	dist := r.Resolve(context.Background(), "mint")

	if dist.HolderCount != 0 || dist.Top10SharePct != 0 {
		t.Errorf("expected zero distribution, got %+v", dist)
	}
}

func TestResolve_CancelledContextStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &fakeStrategy{name: "a", dist: domain.HolderDistribution{HolderCount: 5}}
	r := NewResolver(zerolog.Nop(), a)
	dist := r.Resolve(ctx, "mint")

	if a.calls != 0 {
		t.Errorf("expected no strategy calls after cancellation, got %d", a.calls)
	}
	if dist.HolderCount != 0 {
		t.Errorf("expected zero distribution, got %+v", dist)
	}
}

func TestDistribution_TopShareRounding(t *testing.T) {
	// Twenty holders with total 1000: the ten largest hold 62.345 each and
	// sum to 623.45, the rest hold 37.655 each. The 62.345 percent share
	// rounds half away from zero to 62.35.
	amounts := make([]decimal.Decimal, 0, 20)
	for i := 0; i < 10; i++ {
		amounts = append(amounts, decimal.RequireFromString("62.345"))
		amounts = append(amounts, decimal.RequireFromString("37.655"))
	}

	dist := Distribution(amounts)

	if dist.HolderCount != 20 {
		t.Errorf("expected 20 holders, got %d", dist.HolderCount)
	}
	if dist.Top10SharePct != 62.35 {
		t.Errorf("expected top-10 share 62.35, got %v", dist.Top10SharePct)
	}
}

func TestDistribution_IgnoresNonPositive(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.NewFromInt(100),
		decimal.Zero,
		decimal.NewFromInt(-5),
		decimal.NewFromInt(300),
	}

	dist := Distribution(amounts)

	if dist.HolderCount != 2 {
		t.Errorf("expected 2 holders, got %d", dist.HolderCount)
	}
	if dist.Top10SharePct != 100 {
		t.Errorf("expected top-10 share 100, got %v", dist.Top10SharePct)
	}
}

func TestDistribution_Empty(t *testing.T) {
	dist := Distribution(nil)
	if dist.HolderCount != 0 || dist.Top10SharePct != 0 {
		t.Errorf("expected zero distribution, got %+v", dist)
	}
}
