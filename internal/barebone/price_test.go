package barebone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw      string
		expected int64
	}{
		{"3.1tr", 3_100_000},
		{"500k", 500_000},
		{"3.1", 3_100_000},
		{"2.5", 2_500_000},
		{"3tr", 3_000_000},
		{" 2 TR ", 2_000_000},
		{"2,5", 2_500_000},
		// a separator always means millions, even with a "k"
		{"3,5k", 3_500_000},
		{"3,500k", 3_500_000},
		{"abc", 0},
		{"tr", 0},
		{"", 0},
		{"-1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePrice(tt.raw))
		})
	}
}

func TestParsePriceNeverNegative(t *testing.T) {
	for _, raw := range []string{"-3tr", "-500k", "NaN", "Inf", "1e400"} {
		assert.GreaterOrEqual(t, ParsePrice(raw), int64(0), raw)
	}
}

func TestParseCatalogPrice(t *testing.T) {
	assert.Equal(t, int64(3_100_000), ParseCatalogPrice("3.100.000đ"))
	assert.Equal(t, int64(3_100_000), ParseCatalogPrice("3,100,000 VND"))
	assert.Equal(t, int64(4_300_000), ParseCatalogPrice(" 4.300.000 "))
	assert.Equal(t, int64(0), ParseCatalogPrice("Liên hệ"))
	assert.Equal(t, int64(0), ParseCatalogPrice(""))
}
