package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cardledger/cardledger/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Spend is debits only: amount_cents < 0, reported positive. Credits and
// refunds never inflate the totals.
func (s *Store) MonthlySummary(ctx context.Context, year int) ([]report.MonthlySpend, error) {
	query := `
		SELECT
			to_char(transaction_date, 'YYYY-MM') AS month,
			COALESCE(SUM(-amount_cents) FILTER (WHERE amount_cents < 0), 0) AS spend_cents,
			COUNT(*) FILTER (WHERE amount_cents < 0) AS txn_count
		FROM transactions
	`

	var args []any

	if year != 0 {
		query += ` WHERE EXTRACT(YEAR FROM transaction_date) = $1`

		args = append(args, year)
	}

	query += ` GROUP BY month ORDER BY month ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying monthly summary: %w", err)
	}
	defer rows.Close()

	var months []report.MonthlySpend

	for rows.Next() {
		var m report.MonthlySpend
		if err := rows.Scan(&m.Month, &m.SpendCents, &m.TxnCount); err != nil {
			return nil, fmt.Errorf("scanning monthly summary: %w", err)
		}

		months = append(months, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly summary: %w", err)
	}

	return months, nil
}

func (s *Store) CategoryBreakdown(ctx context.Context, year int) ([]report.CategorySpend, error) {
	query := `
		SELECT
			to_char(transaction_date, 'YYYY-MM') AS month,
			COALESCE(NULLIF(category, ''), 'Unclassified') AS category,
			SUM(-amount_cents) AS spend_cents,
			COUNT(*) AS txn_count
		FROM transactions
		WHERE amount_cents < 0
	`

	var args []any

	if year != 0 {
		query += ` AND EXTRACT(YEAR FROM transaction_date) = $1`

		args = append(args, year)
	}

	query += ` GROUP BY month, category ORDER BY month ASC, spend_cents DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying category breakdown: %w", err)
	}
	defer rows.Close()

	var cells []report.CategorySpend

	for rows.Next() {
		var c report.CategorySpend
		if err := rows.Scan(&c.Month, &c.Category, &c.SpendCents, &c.TxnCount); err != nil {
			return nil, fmt.Errorf("scanning category breakdown: %w", err)
		}

		cells = append(cells, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category breakdown: %w", err)
	}

	return cells, nil
}
