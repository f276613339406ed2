// Package mint validates Solana mint addresses.
package mint

import "github.com/mr-tron/base58"

// Mint address length bounds (base58 string length).
const (
	MinLen = 32
	MaxLen = 44
)

// Valid reports whether addr is a syntactically valid mint address:
// length within [MinLen, MaxLen] and decodable as base58.
// No network access is performed.
func Valid(addr string) bool {
	if len(addr) < MinLen || len(addr) > MaxLen {
		return false
	}
	_, err := base58.Decode(addr)
	return err == nil
}
