// Package fingerprint derives the stable content identifier used to
// deduplicate transactions across overlapping statement exports.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/cardledger/cardledger/internal/transaction"
)

// sep joins the identity fields. The unit separator control character
// cannot survive merchant normalization and is rejected from account
// labels upstream, so no field collision can forge a boundary.
const sep = "\x1f"

// Compute hashes the ordered identity tuple (posted date, amount cents,
// normalized merchant, account label) with SHA-256 and returns it hex
// encoded. Identical tuples always produce identical fingerprints.
//
// Two genuinely distinct charges with the same date, amount, merchant,
// and account are indistinguishable by construction and will collide.
// That false-duplicate suppression is accepted; the alternative, keyed on
// row position, would break idempotent re-ingestion.
func Compute(tx *transaction.Transaction) string {
	h := sha256.New()
	h.Write([]byte(tx.PostedDate.Format("2006-01-02")))
	h.Write([]byte(sep))
	h.Write([]byte(strconv.FormatInt(tx.AmountCents, 10)))
	h.Write([]byte(sep))
	h.Write([]byte(tx.MerchantNormalized))
	h.Write([]byte(sep))
	h.Write([]byte(tx.AccountLabel))

	return hex.EncodeToString(h.Sum(nil))
}
