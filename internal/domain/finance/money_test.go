package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestFormatAmount tests grouping, rounding and sign placement.
func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "GH₵ 0.00"},
		{"12.5", "GH₵ 12.50"},
		{"999", "GH₵ 999.00"},
		{"1000", "GH₵ 1,000.00"},
		{"1234567.891", "GH₵ 1,234,567.89"},
		{"-45.5", "-GH₵ 45.50"},
	}
	for _, tt := range tests {
		if got := FormatAmount(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
