// Package report exposes the pre-aggregated spending summaries that
// downstream analytics and narrative consumers read. All totals are
// computed in SQL over integer cents; consumers receive final numbers and
// never see raw rows or do arithmetic of their own.
package report

import (
	"context"
)

// MonthlySpend is one month's spending rollup. Spend counts only debits
// and is reported positive. AvgPerTxnCents is integer cents, truncated.
type MonthlySpend struct {
	Month          string `json:"month"`
	SpendCents     int64  `json:"spend_cents"`
	TxnCount       int64  `json:"txn_count"`
	AvgPerTxnCents int64  `json:"avg_per_txn_cents"`
}

// CategorySpend is one (month, category) cell of the breakdown.
type CategorySpend struct {
	Month      string `json:"month"`
	Category   string `json:"category"`
	SpendCents int64  `json:"spend_cents"`
	TxnCount   int64  `json:"txn_count"`
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	// MonthlySummary returns per-month debit totals ordered by month.
	// A zero year means all years.
	MonthlySummary(ctx context.Context, year int) ([]MonthlySpend, error)
	// CategoryBreakdown returns per-month, per-category debit totals
	// ordered by month then spend descending. A zero year means all years.
	CategoryBreakdown(ctx context.Context, year int) ([]CategorySpend, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) MonthlySummary(ctx context.Context, year int) ([]MonthlySpend, error) {
	months, err := s.repo.MonthlySummary(ctx, year)
	if err != nil {
		return nil, err
	}

	for i := range months {
		if months[i].TxnCount > 0 {
			months[i].AvgPerTxnCents = months[i].SpendCents / months[i].TxnCount
		}
	}

	return months, nil
}

func (s *Service) CategoryBreakdown(ctx context.Context, year int) ([]CategorySpend, error) {
	return s.repo.CategoryBreakdown(ctx, year)
}
