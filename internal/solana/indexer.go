package solana

import (
	"context"
	"encoding/json"
)

// Asset is the fungible-asset view returned by the indexer's getAsset.
// Name and Symbol are empty (not "Unknown") when the indexer has none;
// defaulting happens at the merge layer.
type Asset struct {
	Name     string
	Symbol   string
	Supply   uint64
	Decimals uint8
}

// GetAsset retrieves fungible-asset metadata from the indexer RPC.
func (c *HTTPClient) GetAsset(ctx context.Context, mint string) (*Asset, error) {
	params := map[string]interface{}{
		"id": mint,
		"displayOptions": map[string]interface{}{
			"showFungible": true,
		},
	}

	var result getAssetResult
	if err := c.call(ctx, "getAsset", params, &result); err != nil {
		return nil, err
	}

	return &Asset{
		Name:     result.Content.Metadata.Name,
		Symbol:   result.Content.Metadata.Symbol,
		Supply:   result.TokenInfo.Supply,
		Decimals: result.TokenInfo.Decimals,
	}, nil
}

type getAssetResult struct {
	Content struct {
		Metadata struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"metadata"`
	} `json:"content"`
	TokenInfo struct {
		Supply   uint64 `json:"supply"`
		Decimals uint8  `json:"decimals"`
	} `json:"token_info"`
	MintExtensions json.RawMessage `json:"mint_extensions"`
}

// TokenAccount is one holder account returned by the indexer's
// getTokenAccounts.
type TokenAccount struct {
	Address string      `json:"address"`
	Amount  json.Number `json:"amount"`
}

// GetTokenAccounts retrieves up to limit non-zero-balance token accounts
// for a mint from the indexer RPC.
func (c *HTTPClient) GetTokenAccounts(ctx context.Context, mint string, limit int) ([]TokenAccount, error) {
	params := map[string]interface{}{
		"mint":  mint,
		"limit": limit,
		"displayOptions": map[string]interface{}{
			"showZeroBalance": false,
		},
	}

	var result getTokenAccountsResult
	if err := c.call(ctx, "getTokenAccounts", params, &result); err != nil {
		return nil, err
	}

	return result.TokenAccounts, nil
}

type getTokenAccountsResult struct {
	TokenAccounts []TokenAccount `json:"token_accounts"`
}
