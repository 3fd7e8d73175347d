package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardledger/cardledger/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, posted_date, transaction_date, merchant_raw, merchant_normalized,
	amount_cents, account_label, source_category, fingerprint, category,
	created_at, updated_at
`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var category sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.PostedDate, &tx.TransactionDate, &tx.MerchantRaw, &tx.MerchantNormalized,
		&tx.AmountCents, &tx.AccountLabel, &tx.SourceCategory, &tx.Fingerprint, &category,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Category = category.String

	return &tx, nil
}

// InsertIfNew inserts the transaction unless its fingerprint is already
// stored. The unique index on fingerprint makes the check-and-insert one
// atomic statement: under concurrent ingestion one writer inserts and
// every other sees a skip, never a second row.
func (s *Store) InsertIfNew(ctx context.Context, tx *transaction.Transaction) (bool, error) {
	query := `
		INSERT INTO transactions (
			posted_date, transaction_date, merchant_raw, merchant_normalized,
			amount_cents, account_label, source_category, fingerprint, category,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NOW())
		ON CONFLICT (fingerprint) DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.PostedDate,
		tx.TransactionDate,
		tx.MerchantRaw,
		tx.MerchantNormalized,
		tx.AmountCents,
		tx.AccountLabel,
		tx.SourceCategory,
		tx.Fingerprint,
		tx.Category,
	).Scan(&tx.ID, &tx.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		// Conflict on fingerprint: the row already exists.
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("inserting transaction: %w", err)
	}

	return true, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND posted_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND posted_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.Account != nil {
		query += fmt.Sprintf(" AND account_label = $%d", argIdx)

		args = append(args, *filter.Account)
		argIdx++
	}

	query += " ORDER BY posted_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

// UpdateCategory overwrites the resolved category of one transaction.
// Only category and updated_at are written.
func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, category string) error {
	query := `
		UPDATE transactions
		SET category = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, category, id)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
