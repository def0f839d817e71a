package calc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCentsPerKWh(t *testing.T) {
	tests := []struct {
		name     string
		perMWh   float64
		vat      float64
		expected string
	}{
		{
			name:     "round number without vat",
			perMWh:   50.0,
			vat:      0,
			expected: "5",
		},
		{
			name:     "finnish vat",
			perMWh:   50.0,
			vat:      25.5,
			expected: "6.275",
		},
		{
			name:     "typical spot price",
			perMWh:   56.32,
			vat:      25.5,
			expected: "7.06816",
		},
		{
			name:     "negative price stays negative",
			perMWh:   -12.5,
			vat:      25.5,
			expected: "-1.56875",
		},
		{
			name:     "zero price",
			perMWh:   0,
			vat:      25.5,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CentsPerKWh(decimal.NewFromFloat(tt.perMWh), decimal.NewFromFloat(tt.vat))
			expected := decimal.RequireFromString(tt.expected)
			if !got.Equal(expected) {
				t.Errorf("CentsPerKWh(%v, %v) expected %s, got %s", tt.perMWh, tt.vat, expected, got)
			}
		})
	}
}
