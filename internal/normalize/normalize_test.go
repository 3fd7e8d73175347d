package normalize_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardledger/cardledger/internal/normalize"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func chaseNormalizer(t *testing.T) *normalize.Normalizer {
	t.Helper()

	n, err := normalize.New(normalize.ChaseFormat())
	require.NoError(t, err)

	return n
}

func TestNormalize_ChaseRecord(t *testing.T) {
	n := chaseNormalizer(t)

	tx, err := n.Normalize(normalize.Record{
		"Transaction Date": "01/14/2025",
		"Post Date":        "01/15/2025",
		"Description":      "  UBER   TRIP 8005928996",
		"Category":         "Travel",
		"Type":             "Sale",
		"Amount":           "-42.50",
	})
	require.NoError(t, err)

	assert.Equal(t, date(2025, 1, 15), tx.PostedDate)
	assert.Equal(t, date(2025, 1, 14), tx.TransactionDate)
	assert.Equal(t, "UBER   TRIP 8005928996", tx.MerchantRaw)
	assert.Equal(t, "UBER TRIP", tx.MerchantNormalized)
	assert.Equal(t, int64(-4250), tx.AmountCents)
	assert.Equal(t, "Travel", tx.SourceCategory)
	assert.Empty(t, tx.Category)
	assert.Empty(t, tx.Fingerprint)
}

func TestNormalize_CreditStaysPositive(t *testing.T) {
	n := chaseNormalizer(t)

	tx, err := n.Normalize(normalize.Record{
		"Transaction Date": "02/01/2025",
		"Post Date":        "02/02/2025",
		"Description":      "REFUND ACME STORE",
		"Amount":           "18.00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1800), tx.AmountCents)
}

func TestNormalize_InvertedSignConvention(t *testing.T) {
	f := normalize.ChaseFormat()
	f.Name = "inverted-bank"
	f.Sign = normalize.SignInverted

	n, err := normalize.New(f)
	require.NoError(t, err)

	tx, err := n.Normalize(normalize.Record{
		"Transaction Date": "02/01/2025",
		"Post Date":        "02/02/2025",
		"Description":      "GROCERY MART",
		"Amount":           "55.10",
	})
	require.NoError(t, err)

	// The export writes debits positive; canonically they are negative.
	assert.Equal(t, int64(-5510), tx.AmountCents)
}

func TestNormalize_MalformedRecords(t *testing.T) {
	n := chaseNormalizer(t)

	tests := []struct {
		name string
		rec  normalize.Record
	}{
		{
			name: "UnparseableDate",
			rec: normalize.Record{
				"Transaction Date": "01/14/2025",
				"Post Date":        "not-a-date",
				"Description":      "COFFEE",
				"Amount":           "-3.00",
			},
		},
		{
			name: "EmptyDate",
			rec: normalize.Record{
				"Transaction Date": "01/14/2025",
				"Description":      "COFFEE",
				"Amount":           "-3.00",
			},
		},
		{
			name: "SubCentAmount",
			rec: normalize.Record{
				"Transaction Date": "01/14/2025",
				"Post Date":        "01/15/2025",
				"Description":      "COFFEE",
				"Amount":           "42.505",
			},
		},
		{
			name: "NonNumericAmount",
			rec: normalize.Record{
				"Transaction Date": "01/14/2025",
				"Post Date":        "01/15/2025",
				"Description":      "COFFEE",
				"Amount":           "lots",
			},
		},
		{
			name: "EmptyMerchant",
			rec: normalize.Record{
				"Transaction Date": "01/14/2025",
				"Post Date":        "01/15/2025",
				"Description":      "   ",
				"Amount":           "-3.00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, normalize.ErrMalformedRecord)

			var malformed *normalize.MalformedRecordError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestMerchant_Normalization(t *testing.T) {
	n := chaseNormalizer(t)

	tests := []struct {
		raw  string
		want string
	}{
		{"Uber Eats", "UBER EATS"},
		{"  trader   joe's  #552  ", "TRADER JOE'S"},
		{"SQ *COFFEE HOUSE", "COFFEE HOUSE"},
		{"UBER TRIP 8005928996", "UBER TRIP"},
		{"NETFLIX.COM", "NETFLIX.COM"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Merchant(tt.raw), "raw=%q", tt.raw)
	}
}

func TestRegistry_UnknownFormat(t *testing.T) {
	r := normalize.NewRegistry()

	_, err := r.Get("no-such-bank")
	assert.Error(t, err)
}

func TestRegistry_RejectsBrokenFormat(t *testing.T) {
	r := normalize.NewRegistry()

	f := normalize.ChaseFormat()
	f.Name = "broken"
	f.Noise = []normalize.NoisePattern{{Pattern: "([", Replacement: ""}}

	err := r.Register(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, normalize.ErrInvalidFormat)
}

func TestFormat_ValidationFailures(t *testing.T) {
	missingAmount := normalize.ChaseFormat()
	missingAmount.AmountCol = ""

	noLayouts := normalize.ChaseFormat()
	noLayouts.DateLayouts = nil

	badSign := normalize.ChaseFormat()
	badSign.Sign = "sideways"

	for name, f := range map[string]normalize.Format{
		"MissingAmountColumn": missingAmount,
		"NoDateLayouts":       noLayouts,
		"UnknownSign":         badSign,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := normalize.New(f)
			assert.ErrorIs(t, err, normalize.ErrInvalidFormat)
		})
	}
}
