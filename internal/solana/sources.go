package solana

import (
	"context"

	"solana-token-scan/internal/domain"
)

// MetadataSource exposes indexer asset lookups as token metadata.
type MetadataSource struct {
	client *HTTPClient
}

// NewMetadataSource wraps an indexer RPC client.
func NewMetadataSource(client *HTTPClient) *MetadataSource {
	return &MetadataSource{client: client}
}

// Metadata fetches name, symbol and indexer-reported supply for the mint.
// Missing name or symbol fall back to the "Unknown" placeholders.
func (s *MetadataSource) Metadata(ctx context.Context, mint string) (domain.TokenMetadata, error) {
	asset, err := s.client.GetAsset(ctx, mint)
	if err != nil {
		return domain.DefaultTokenMetadata(), err
	}

	md := domain.DefaultTokenMetadata()
	if asset.Name != "" {
		md.Name = asset.Name
	}
	if asset.Symbol != "" {
		md.Symbol = asset.Symbol
	}
	md.Supply = asset.Supply
	md.Decimals = asset.Decimals
	return md, nil
}

// SupplySource exposes the ledger's getTokenSupply as supply info.
type SupplySource struct {
	client *HTTPClient
}

// NewSupplySource wraps a ledger RPC client.
func NewSupplySource(client *HTTPClient) *SupplySource {
	return &SupplySource{client: client}
}

// Supply fetches the on-chain total supply for the mint.
func (s *SupplySource) Supply(ctx context.Context, mint string) (domain.SupplyInfo, error) {
	supply, err := s.client.GetTokenSupply(ctx, mint)
	if err != nil {
		return domain.SupplyInfo{}, err
	}
	return domain.SupplyInfo{Supply: supply.Amount, Decimals: supply.Decimals}, nil
}
