// Package reclassify re-runs the rule engine over transactions that are
// already stored, after the rule set has changed. Source files are never
// re-read; only the category column is touched.
package reclassify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardledger/cardledger/internal/rules"
	"github.com/cardledger/cardledger/internal/transaction"
)

// Result reports one reclassification run. Unchanged counts rows whose
// resolved category already matched, so a repeat run with the same rules
// reports Updated == 0.
type Result struct {
	Examined  int
	Updated   int
	Unchanged int
}

type Service struct {
	rules *rules.Service
	repo  transaction.Repository
}

func NewService(ruleSvc *rules.Service, repo transaction.Repository) *Service {
	return &Service{rules: ruleSvc, repo: repo}
}

// Run recomputes the category of every stored transaction in the optional
// posted-date range and overwrites it where it differs. Identity fields
// are never written; the store's UpdateCategory statement cannot reach
// them. Running twice with unchanged rules is an observable no-op.
func (s *Service) Run(ctx context.Context, startDate, endDate *time.Time) (*Result, error) {
	engine, err := s.rules.LoadEngine(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.ListTransactions(ctx, transaction.ListFilter{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	result := &Result{Examined: len(txs)}

	for _, tx := range txs {
		category := engine.Resolve(tx.MerchantNormalized)
		if category == tx.Category {
			result.Unchanged++
			continue
		}

		if err := s.repo.UpdateCategory(ctx, tx.ID, category); err != nil {
			return result, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}

		result.Updated++
	}

	slog.Info("reclassification run finished",
		"examined", result.Examined,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
	)

	return result, nil
}
