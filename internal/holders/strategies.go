package holders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-token-scan/internal/domain"
	"solana-token-scan/internal/solana"
)

// indexerAccountLimit caps how many non-zero-balance accounts strategy A
// requests from the indexer.
const indexerAccountLimit = 1000

// IndexerAccounts is strategy A: the indexer's getTokenAccounts method.
type IndexerAccounts struct {
	client *solana.HTTPClient
}

// NewIndexerAccounts creates the indexer-backed strategy.
func NewIndexerAccounts(client *solana.HTTPClient) *IndexerAccounts {
	return &IndexerAccounts{client: client}
}

// Name identifies the strategy in logs and metrics.
func (s *IndexerAccounts) Name() string { return "indexer_accounts" }

// Resolve fetches up to indexerAccountLimit accounts and reduces them.
func (s *IndexerAccounts) Resolve(ctx context.Context, mintAddr string) (domain.HolderDistribution, error) {
	accounts, err := s.client.GetTokenAccounts(ctx, mintAddr, indexerAccountLimit)
	if err != nil {
		return domain.HolderDistribution{}, err
	}

	amounts := make([]decimal.Decimal, 0, len(accounts))
	for _, acc := range accounts {
		a, err := decimal.NewFromString(acc.Amount.String())
		if err != nil {
			continue
		}
		amounts = append(amounts, a)
	}

	return Distribution(amounts), nil
}

// Solscan defaults. The listing endpoint rejects non-browser clients, so
// requests carry a desktop-browser user agent and site referrer.
const (
	defaultSolscanBaseURL = "https://api.solscan.io"
	solscanPageSize       = 100
	solscanUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	solscanSite           = "https://solscan.io"
)

// SolscanOptions parameterise the Solscan strategy.
type SolscanOptions struct {
	BaseURL string
	Timeout time.Duration
}

// Solscan is strategy B: the third-party holders listing endpoint.
type Solscan struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

// NewSolscan creates the Solscan-backed strategy.
func NewSolscan(opts SolscanOptions, logger zerolog.Logger) *Solscan {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultSolscanBaseURL
	}

	return &Solscan{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger.With().Str("component", "solscan").Logger(),
	}
}

// Name identifies the strategy in logs and metrics.
func (s *Solscan) Name() string { return "solscan_listing" }

// Resolve scrapes one size-capped page of the holders listing. The response
// body is either {"data": [...]} or a bare list; any other shape falls
// through as "no data".
func (s *Solscan) Resolve(ctx context.Context, mintAddr string) (domain.HolderDistribution, error) {
	endpoint := fmt.Sprintf("%s/token/holders?token=%s&size=%d",
		s.baseURL, url.QueryEscape(mintAddr), solscanPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.HolderDistribution{}, err
	}
	req.Header.Set("User-Agent", solscanUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", solscanSite+"/")
	req.Header.Set("Origin", solscanSite)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.HolderDistribution{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.HolderDistribution{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return domain.HolderDistribution{}, fmt.Errorf("solscan status %d", resp.StatusCode)
	}

	entries, ok := parseHolderList(payload)
	if !ok {
		s.logger.Warn().Str("mint", mintAddr).Msg("unexpected holders payload shape")
		return domain.HolderDistribution{}, nil
	}

	amounts := make([]decimal.Decimal, 0, len(entries))
	for _, e := range entries {
		amounts = append(amounts, e.Amount)
	}

	return Distribution(amounts), nil
}

// holderEntry tolerates amounts encoded as JSON numbers or strings.
type holderEntry struct {
	Amount decimal.Decimal `json:"amount"`
}

// parseHolderList accepts the wrapped or bare list response shape.
func parseHolderList(payload []byte) ([]holderEntry, bool) {
	var wrapped struct {
		Data []holderEntry `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, true
	}

	var bare []holderEntry
	if err := json.Unmarshal(payload, &bare); err == nil {
		return bare, true
	}

	return nil, false
}

// ProgramScan is strategy C: a raw ledger getProgramAccounts scan over the
// token program, filtered down to the mint's accounts.
type ProgramScan struct {
	client *solana.HTTPClient
}

// NewProgramScan creates the ledger-scan strategy.
func NewProgramScan(client *solana.HTTPClient) *ProgramScan {
	return &ProgramScan{client: client}
}

// Name identifies the strategy in logs and metrics.
func (s *ProgramScan) Name() string { return "program_scan" }

// Resolve scans token accounts of the mint and reduces their balances.
func (s *ProgramScan) Resolve(ctx context.Context, mintAddr string) (domain.HolderDistribution, error) {
	balances, err := s.client.GetTokenAccountsByMint(ctx, mintAddr)
	if err != nil {
		return domain.HolderDistribution{}, err
	}

	amounts := make([]decimal.Decimal, 0, len(balances))
	for _, b := range balances {
		a, err := decimal.NewFromString(b.Amount)
		if err != nil {
			continue
		}
		amounts = append(amounts, a)
	}

	return Distribution(amounts), nil
}
