package dexscreener

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(url string) *Client {
	return New(Options{BaseURL: url}, zerolog.Nop())
}

func TestFetch_ReducesPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/tokens/somemint" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		resp := map[string]interface{}{
			"pairs": []map[string]interface{}{
				{
					// First pair has no price; it still contributes to sums.
					"volume":      map[string]interface{}{"h24": 1000.0},
					"liquidity":   map[string]interface{}{"usd": 5000.0},
					"priceChange": map[string]interface{}{"h24": -99.0},
				},
				{
					"priceUsd":    "0.025",
					"volume":      map[string]interface{}{"h24": 2500.0},
					"liquidity":   map[string]interface{}{"usd": 7500.0},
					"priceChange": map[string]interface{}{"h24": 3.2},
				},
				{
					"priceUsd":    "0.030",
					"volume":      map[string]interface{}{"h24": 500.0},
					"priceChange": map[string]interface{}{"h24": 10.0},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).Fetch(context.Background(), "somemint")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if snap.PoolCount != 3 {
		t.Errorf("expected 3 pools, got %d", snap.PoolCount)
	}

	if snap.Volume24hUSD != 4000 {
		t.Errorf("expected volume 4000, got %f", snap.Volume24hUSD)
	}

	if snap.LiquidityUSD != 12500 {
		t.Errorf("expected liquidity 12500, got %f", snap.LiquidityUSD)
	}

	// First pair with a present price wins, including its price change.
	if math.Abs(snap.PriceUSD-0.025) > 1e-12 {
		t.Errorf("expected price 0.025, got %f", snap.PriceUSD)
	}

	if snap.PriceChange24hPct != 3.2 {
		t.Errorf("expected price change 3.2, got %f", snap.PriceChange24hPct)
	}
}

func TestFetch_NoPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs": null}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).Fetch(context.Background(), "somemint")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if snap.PoolCount != 0 || snap.Volume24hUSD != 0 || snap.LiquidityUSD != 0 || snap.PriceUSD != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestFetch_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "somemint")
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFetch_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "somemint")
	if err == nil {
		t.Fatal("expected error on malformed payload")
	}
}
