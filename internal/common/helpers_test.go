package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicroToUSD(t *testing.T) {
	tests := []struct {
		name  string
		micro int64
		want  string
	}{
		{"zero", 0, "0.000000"},
		{"sub-cent", 24981, "0.024981"},
		{"whole dollars", 25_000_000, "25.000000"},
		{"mixed", 24_981_836, "24.981836"},
		{"negative", -1_500_000, "-1.500000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MicroToUSD(tt.micro))
		})
	}
}

func TestUSDToMicro(t *testing.T) {
	tests := []struct {
		name string
		usd  string
		want int64
	}{
		{"integer", "25", 25_000_000},
		{"two decimals", "10.50", 10_500_000},
		{"full precision", "24.981836", 24_981_836},
		{"excess precision truncated", "0.0249815999", 24_981},
		{"leading zero", "0.5", 500_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := USDToMicro(tt.usd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUSDToMicroInvalid(t *testing.T) {
	for _, s := range []string{"", "ten dollars", "1.2.3", "-"} {
		t.Run(s, func(t *testing.T) {
			_, err := USDToMicro(s)
			assert.Error(t, err)
		})
	}
}

func TestUSDRoundTrip(t *testing.T) {
	for _, micro := range []int64{0, 1, 999_999, 1_000_000, 24_981_836} {
		got, err := USDToMicro(MicroToUSD(micro))
		require.NoError(t, err)
		assert.Equal(t, micro, got)
	}
}

func TestCompareUSDAmounts(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"10.50", "10.50", 0},
		{"10.5", "10.50", 0},
		{"10.49", "10.50", -1},
		{"10.51", "10.50", 1},
		{"0", "0.000001", -1},
	}

	for _, tt := range tests {
		got, err := CompareUSDAmounts(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.a, tt.b)
	}

	_, err := CompareUSDAmounts("abc", "1")
	assert.Error(t, err)
}
