// Package dexscreener fetches aggregated trading-pool data for a mint.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-token-scan/internal/domain"
)

const defaultBaseURL = "https://api.dexscreener.com"

// Options parameterise the DexScreener client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client queries the DexScreener token endpoint.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// New constructs a DexScreener client.
func New(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "dexscreener").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Fetch retrieves all trading pairs for a mint and reduces them to one
// snapshot: pool count, summed 24h volume and liquidity, and the price of
// the first pair that carries one. A response with no pairs is a valid
// zero snapshot, not an error.
func (c *Client) Fetch(ctx context.Context, mint string) (domain.MarketSnapshot, error) {
	endpoint := c.baseURL + "/latest/dex/tokens/" + mint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.MarketSnapshot{}, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.MarketSnapshot{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MarketSnapshot{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return domain.MarketSnapshot{}, fmt.Errorf("dexscreener status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("decode response: %w", err)
	}

	return reduce(body.Pairs), nil
}

// reduce folds the provider-ordered pair list into one snapshot.
// Price is first-available, not an average.
func reduce(pairs []pair) domain.MarketSnapshot {
	snap := domain.MarketSnapshot{PoolCount: len(pairs)}

	for _, p := range pairs {
		snap.Volume24hUSD += p.Volume.H24
		if p.Liquidity != nil {
			snap.LiquidityUSD += p.Liquidity.USD
		}
	}

	for _, p := range pairs {
		if p.PriceUSD == "" {
			continue
		}
		price, err := decimal.NewFromString(p.PriceUSD)
		if err != nil {
			continue
		}
		snap.PriceUSD = price.InexactFloat64()
		snap.PriceChange24hPct = p.PriceChange.H24
		break
	}

	return snap
}

// tokenResponse is the DexScreener token endpoint payload.
type tokenResponse struct {
	Pairs []pair `json:"pairs"`
}

type pair struct {
	PairAddress string     `json:"pairAddress"`
	PriceUSD    string     `json:"priceUsd"`
	Volume      volume     `json:"volume"`
	PriceChange change     `json:"priceChange"`
	Liquidity   *liquidity `json:"liquidity"`
}

type volume struct {
	H24 float64 `json:"h24"`
}

type change struct {
	H24 float64 `json:"h24"`
}

type liquidity struct {
	USD float64 `json:"usd"`
}
