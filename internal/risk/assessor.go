// Package risk inspects a mint account for authority-based rug-pull risk.
package risk

import (
	"context"

	"github.com/rs/zerolog"

	"solana-token-scan/internal/domain"
	"solana-token-scan/internal/solana"
)

// MintAccountFetcher is the ledger lookup the assessor depends on.
type MintAccountFetcher interface {
	GetMintAccount(ctx context.Context, mint string) (*solana.MintAccount, error)
}

// Assessor derives risk flags from on-chain mint account state.
type Assessor struct {
	ledger MintAccountFetcher
	logger zerolog.Logger
}

// NewAssessor creates an assessor backed by the given ledger client.
func NewAssessor(ledger MintAccountFetcher, logger zerolog.Logger) *Assessor {
	return &Assessor{
		ledger: ledger,
		logger: logger.With().Str("component", "risk").Logger(),
	}
}

// Assess reports whether the mint retains mint or freeze authorities. A
// failed or empty lookup yields the no-risk flags so an unreachable ledger
// never blocks an analysis; the miss is logged.
func (a *Assessor) Assess(ctx context.Context, mintAddr string) domain.RiskFlags {
	account, err := a.ledger.GetMintAccount(ctx, mintAddr)
	if err != nil {
		a.logger.Warn().Err(err).Str("mint", mintAddr).Msg("mint account lookup failed")
		return domain.RiskFlags{}
	}
	if account == nil {
		a.logger.Debug().Str("mint", mintAddr).Msg("mint account not found")
		return domain.RiskFlags{}
	}

	return domain.RiskFlags{
		HasMintAuthority:   account.MintAuthority != nil,
		HasFreezeAuthority: account.FreezeAuthority != nil,
	}
}
