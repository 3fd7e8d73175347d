// Package normalize turns raw statement rows into canonical transactions:
// typed dates, an uppercased noise-stripped merchant, and exact integer
// cents. Each supported export source is described by a Format; parsing is
// a pure transformation with no side effects.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cardledger/cardledger/internal/transaction"
)

// ErrMalformedRecord marks a row whose date or amount cannot be parsed.
// The row is reported and skipped; it never aborts the batch.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError carries which field of a row failed and why.
type MalformedRecordError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: field %q value %q: %s", e.Field, e.Value, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// Record is one raw statement row as column name → cell value.
type Record map[string]string

var whitespaceRun = regexp.MustCompile(`\s+`)

// merchantTrimSet is the punctuation stripped from the edges of a
// normalized merchant string.
const merchantTrimSet = " .,*-#/"

// Normalizer converts raw records of one export format into canonical
// transactions. Construct via New, which validates the format.
type Normalizer struct {
	format Format
	noise  []noiseRule
}

func New(f Format) (*Normalizer, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	noise, err := compileNoise(f)
	if err != nil {
		return nil, err
	}

	return &Normalizer{format: f, noise: noise}, nil
}

// Format returns the format this normalizer was built from.
func (n *Normalizer) Format() Format { return n.format }

// RequiredCols returns the header columns an export must carry.
func (n *Normalizer) RequiredCols() []string { return n.format.requiredCols() }

// Normalize converts one raw record into a canonical transaction. The
// result carries no account label, fingerprint, or category; those are
// attached further down the pipeline.
func (n *Normalizer) Normalize(rec Record) (*transaction.Transaction, error) {
	posted, err := n.parseDate(n.format.PostedDateCol, rec)
	if err != nil {
		return nil, err
	}

	txnDate := posted

	if n.format.TransactionDateCol != "" {
		txnDate, err = n.parseDate(n.format.TransactionDateCol, rec)
		if err != nil {
			return nil, err
		}
	}

	raw := strings.TrimSpace(rec[n.format.MerchantCol])
	if raw == "" {
		return nil, &MalformedRecordError{Field: n.format.MerchantCol, Reason: "empty merchant description"}
	}

	cents, err := n.parseAmount(rec)
	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		PostedDate:         posted,
		TransactionDate:    txnDate,
		MerchantRaw:        raw,
		MerchantNormalized: n.Merchant(raw),
		AmountCents:        cents,
		SourceCategory:     strings.TrimSpace(rec[n.format.CategoryCol]),
	}, nil
}

// Merchant produces the canonical matching form of a description:
// uppercased, noise-stripped, internal whitespace collapsed to single
// spaces, leading and trailing punctuation trimmed.
func (n *Normalizer) Merchant(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))

	for _, rule := range n.noise {
		s = rule.re.ReplaceAllString(s, rule.replacement)
	}

	s = whitespaceRun.ReplaceAllString(s, " ")

	return strings.Trim(s, merchantTrimSet)
}

func (n *Normalizer) parseDate(col string, rec Record) (time.Time, error) {
	s := strings.TrimSpace(rec[col])
	if s == "" {
		return time.Time{}, &MalformedRecordError{Field: col, Reason: "empty date"}
	}

	for _, layout := range n.format.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &MalformedRecordError{
		Field:  col,
		Value:  s,
		Reason: fmt.Sprintf("does not match any of the layouts %v", n.format.DateLayouts),
	}
}

func (n *Normalizer) parseAmount(rec Record) (int64, error) {
	s := strings.TrimSpace(rec[n.format.AmountCol])
	if s == "" {
		return 0, &MalformedRecordError{Field: n.format.AmountCol, Reason: "empty amount"}
	}

	cents, err := ParseCents(s)
	if err != nil {
		return 0, &MalformedRecordError{Field: n.format.AmountCol, Value: s, Reason: err.Error()}
	}

	if n.format.Sign == SignInverted {
		cents = -cents
	}

	return cents, nil
}
