package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardledger/cardledger/internal/normalize"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"-42.50", -4250},
		{"42.50", 4250},
		{"0.01", 1},
		{"-0.01", -1},
		{"1234", 123400},
		{"-1,234.56", -123456},
		{"$19.99", 1999},
		{"-$19.99", -1999},
		{"(42.50)", -4250},
		{"($1,234.56)", -123456},
		{"0", 0},
		{"7.5", 750},
	}

	for _, tt := range tests {
		got, err := normalize.ParseCents(tt.in)
		require.NoError(t, err, "input=%q", tt.in)
		assert.Equal(t, tt.want, got, "input=%q", tt.in)
	}
}

func TestParseCents_Rejects(t *testing.T) {
	for _, in := range []string{"42.505", "-0.001", "1.2345", "abc", "", "12.34.56"} {
		_, err := normalize.ParseCents(in)
		assert.Error(t, err, "input=%q", in)
	}
}

// Round-tripping any valid two-digit amount through cents and back is
// exact; totals computed on cents can never drift.
func TestCents_RoundTrip(t *testing.T) {
	for _, in := range []string{"-42.50", "0.01", "999999.99", "-0.99", "10.00"} {
		cents, err := normalize.ParseCents(in)
		require.NoError(t, err)
		assert.Equal(t, in, normalize.FormatCents(cents))
	}
}
