package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"solana-token-scan/internal/solana"
)

type fakeLedger struct {
	account *solana.MintAccount
	err     error
}

func (f *fakeLedger) GetMintAccount(ctx context.Context, mint string) (*solana.MintAccount, error) {
	return f.account, f.err
}

func strPtr(s string) *string { return &s }

func TestAssess_BothAuthoritiesRetained(t *testing.T) {
	a := NewAssessor(&fakeLedger{account: &solana.MintAccount{
		MintAuthority:   strPtr("Auth111"),
		FreezeAuthority: strPtr("Auth222"),
	}}, zerolog.Nop())

	flags := a.Assess(context.Background(), "mint")
	if !flags.HasMintAuthority || !flags.HasFreezeAuthority {
		t.Errorf("expected both authority flags set, got %+v", flags)
	}
	if !flags.RugPull() {
		t.Error("expected rug-pull risk with retained authorities")
	}
}

func TestAssess_RenouncedAuthorities(t *testing.T) {
	a := NewAssessor(&fakeLedger{account: &solana.MintAccount{}}, zerolog.Nop())

	flags := a.Assess(context.Background(), "mint")
	if flags.HasMintAuthority || flags.HasFreezeAuthority {
		t.Errorf("expected no authority flags, got %+v", flags)
	}
	if flags.RugPull() {
		t.Error("expected no rug-pull risk with renounced authorities")
	}
}

func TestAssess_LookupErrorIsNoRisk(t *testing.T) {
	a := NewAssessor(&fakeLedger{err: errors.New("rpc down")}, zerolog.Nop())

	flags := a.Assess(context.Background(), "mint")
	if flags.HasMintAuthority || flags.HasFreezeAuthority {
		t.Errorf("expected no-risk flags on lookup failure, got %+v", flags)
	}
}

func TestAssess_MissingAccountIsNoRisk(t *testing.T) {
	a := NewAssessor(&fakeLedger{}, zerolog.Nop())

	flags := a.Assess(context.Background(), "mint")
	if flags.HasMintAuthority || flags.HasFreezeAuthority {
		t.Errorf("expected no-risk flags for missing account, got %+v", flags)
	}
}
