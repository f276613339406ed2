package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// TokenProgramID is the SPL Token program address.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// tokenAccountSize is the byte size of an SPL token account. Used to filter
// getProgramAccounts results down to token accounts only.
const tokenAccountSize = 165

// TokenSupply is the on-chain total supply of a mint.
type TokenSupply struct {
	Amount   uint64
	Decimals uint8
}

// GetTokenSupply retrieves the total supply of a mint from the ledger node.
func (c *HTTPClient) GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error) {
	params := []interface{}{mint}

	var result getTokenSupplyResult
	if err := c.call(ctx, "getTokenSupply", params, &result); err != nil {
		return nil, err
	}

	amount, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil && result.Value.Amount != "" {
		return nil, fmt.Errorf("parse supply amount %q: %w", result.Value.Amount, err)
	}

	return &TokenSupply{
		Amount:   amount,
		Decimals: result.Value.Decimals,
	}, nil
}

type getTokenSupplyResult struct {
	Value struct {
		Amount   string `json:"amount"`
		Decimals uint8  `json:"decimals"`
	} `json:"value"`
}

// MintAccount is the parsed state of an SPL mint account. Authority fields
// are nil when the authority has been revoked.
type MintAccount struct {
	MintAuthority   *string
	FreezeAuthority *string
	Supply          string
	Decimals        uint8
}

// GetMintAccount retrieves a mint account in jsonParsed encoding.
// Returns nil if the account does not exist or carries no parsed data.
func (c *HTTPClient) GetMintAccount(ctx context.Context, mint string) (*MintAccount, error) {
	params := []interface{}{
		mint,
		map[string]interface{}{
			"encoding": "jsonParsed",
		},
	}

	var result getAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}

	if result.Value == nil || len(result.Value.Data.Parsed.Info) == 0 {
		return nil, nil
	}

	var info mintAccountInfo
	if err := json.Unmarshal(result.Value.Data.Parsed.Info, &info); err != nil {
		return nil, fmt.Errorf("parse mint account info: %w", err)
	}

	return &MintAccount{
		MintAuthority:   info.MintAuthority,
		FreezeAuthority: info.FreezeAuthority,
		Supply:          info.Supply,
		Decimals:        info.Decimals,
	}, nil
}

type getAccountInfoResult struct {
	Value *struct {
		Data struct {
			Parsed struct {
				Info json.RawMessage `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"value"`
}

type mintAccountInfo struct {
	MintAuthority   *string `json:"mintAuthority"`
	FreezeAuthority *string `json:"freezeAuthority"`
	Supply          string  `json:"supply"`
	Decimals        uint8   `json:"decimals"`
}

// TokenAccountBalance is one token account holding some amount of a mint.
// Amount is the raw integer amount as a decimal string.
type TokenAccountBalance struct {
	Pubkey string
	Amount string
}

// GetTokenAccountsByMint scans the token program for accounts of the given
// mint via getProgramAccounts, filtered by the fixed token-account byte size
// and a memcmp on the mint at offset 0.
func (c *HTTPClient) GetTokenAccountsByMint(ctx context.Context, mint string) ([]TokenAccountBalance, error) {
	params := []interface{}{
		TokenProgramID,
		map[string]interface{}{
			"encoding": "jsonParsed",
			"filters": []interface{}{
				map[string]interface{}{"dataSize": tokenAccountSize},
				map[string]interface{}{
					"memcmp": map[string]interface{}{
						"offset": 0,
						"bytes":  mint,
					},
				},
			},
		},
	}

	var result []programAccountResult
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}

	balances := make([]TokenAccountBalance, 0, len(result))
	for _, acc := range result {
		balances = append(balances, TokenAccountBalance{
			Pubkey: acc.Pubkey,
			Amount: acc.Account.Data.Parsed.Info.TokenAmount.Amount,
		})
	}

	return balances, nil
}

type programAccountResult struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed struct {
				Info struct {
					TokenAmount struct {
						Amount string `json:"amount"`
					} `json:"tokenAmount"`
				} `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}
