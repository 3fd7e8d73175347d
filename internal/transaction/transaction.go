package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CategoryUnclassified is the sentinel category assigned when no
// classification rule matches a transaction's merchant.
const CategoryUnclassified = "Unclassified"

// ErrNotFound is returned when a transaction does not exist in the store.
var ErrNotFound = errors.New("transaction not found")

// Transaction is the canonical, post-normalization form of a statement row.
//
// Identity fields (dates, merchant, amount, account, fingerprint) are written
// once at ingestion and never change. Category is the only mutable field and
// is only ever rewritten by a reclassification run.
type Transaction struct {
	ID uuid.UUID

	// PostedDate is when the charge settled; TransactionDate is when it
	// occurred. Both are calendar dates, stored timezone-naive.
	PostedDate      time.Time
	TransactionDate time.Time

	// MerchantRaw preserves the export's description verbatim for audit.
	// MerchantNormalized is the uppercased, whitespace-collapsed form that
	// rules match against.
	MerchantRaw        string
	MerchantNormalized string

	// AmountCents is the signed amount in cents. Debits (money out) are
	// negative, credits and refunds positive. Money is never a float.
	AmountCents int64

	// AccountLabel identifies the source account. It is supplied by the
	// caller at ingestion time, not parsed from the record.
	AccountLabel string

	// SourceCategory is the category text the upstream export supplied,
	// kept for reference only. It never feeds classification.
	SourceCategory string

	// Fingerprint is the stable content hash used for deduplication. It is
	// the uniqueness key enforced by the store.
	Fingerprint string

	// Category is the resolved spending category. Empty until the
	// classifier has run.
	Category string

	CreatedAt time.Time
	UpdatedAt *time.Time
}
