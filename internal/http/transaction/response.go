package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardledger/cardledger/internal/transaction"
)

type transactionResponse struct {
	ID                 uuid.UUID `json:"id"`
	PostedDate         string    `json:"posted_date"`
	TransactionDate    string    `json:"transaction_date"`
	MerchantRaw        string    `json:"merchant_raw"`
	MerchantNormalized string    `json:"merchant_normalized"`
	AmountCents        int64     `json:"amount_cents"`
	AccountLabel       string    `json:"account_label"`
	SourceCategory     string    `json:"source_category,omitempty"`
	Fingerprint        string    `json:"fingerprint"`
	Category           string    `json:"category"`
	CreatedAt          time.Time `json:"created_at"`
}

type listResponse struct {
	Count        int                   `json:"count"`
	Transactions []transactionResponse `json:"transactions"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:                 tx.ID,
		PostedDate:         tx.PostedDate.Format(time.DateOnly),
		TransactionDate:    tx.TransactionDate.Format(time.DateOnly),
		MerchantRaw:        tx.MerchantRaw,
		MerchantNormalized: tx.MerchantNormalized,
		AmountCents:        tx.AmountCents,
		AccountLabel:       tx.AccountLabel,
		SourceCategory:     tx.SourceCategory,
		Fingerprint:        tx.Fingerprint,
		Category:           tx.Category,
		CreatedAt:          tx.CreatedAt,
	}
}

func toListResponse(txs []*transaction.Transaction) listResponse {
	resp := listResponse{
		Count:        len(txs),
		Transactions: make([]transactionResponse, 0, len(txs)),
	}

	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, toResponse(tx))
	}

	return resp
}
