package mint

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		addr string
		want bool
	}{
		{"usdc mint", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", true},
		{"wsol mint", "So11111111111111111111111111111111111111112", true},
		{"min length", "11111111111111111111111111111111", true},
		{"empty", "", false},
		{"too short", "abc", false},
		{"31 chars", "1111111111111111111111111111111", false},
		{"45 chars", "111111111111111111111111111111111111111111111", false},
		{"zero digit not in alphabet", "0PjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", false},
		{"capital O not in alphabet", "OPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", false},
		{"lowercase l not in alphabet", "lPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", false},
		{"whitespace", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt v", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Valid(tc.addr); got != tc.want {
				t.Errorf("Valid(%q) = %v, want %v", tc.addr, got, tc.want)
			}
		})
	}
}
