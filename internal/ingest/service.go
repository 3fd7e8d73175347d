// Package ingest orchestrates one statement import: read raw records,
// normalize, fingerprint, classify, and insert into the store, skipping
// rows whose fingerprint is already present. Re-running the same file is
// a no-op by construction.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cardledger/cardledger/internal/fingerprint"
	"github.com/cardledger/cardledger/internal/normalize"
	"github.com/cardledger/cardledger/internal/rules"
	"github.com/cardledger/cardledger/internal/transaction"
)

// RowFailure records one malformed row and why it was rejected.
type RowFailure struct {
	Row int
	Err error
}

// Result reports what happened to every row of a run. A skipped duplicate
// and a failed row are always distinguishable; nothing is silently lost.
type Result struct {
	Inserted int
	Skipped  int
	Failed   int
	Failures []RowFailure
}

type Service struct {
	formats *normalize.Registry
	rules   *rules.Service
	repo    transaction.Repository
}

func NewService(formats *normalize.Registry, ruleSvc *rules.Service, repo transaction.Repository) *Service {
	return &Service{formats: formats, rules: ruleSvc, repo: repo}
}

// Run ingests one export file for one account. The rule engine is loaded
// once up front, so a broken rule set aborts before any write. Each row's
// insert is an independent atomic statement: a storage failure mid-run
// aborts with the partial result, leaving every committed row valid, and
// the idempotent fingerprint check makes the whole run safe to retry.
func (s *Service) Run(ctx context.Context, format, accountLabel string, r io.Reader) (*Result, error) {
	norm, err := s.formats.Get(format)
	if err != nil {
		return nil, err
	}

	if err := validateAccountLabel(accountLabel); err != nil {
		return nil, err
	}

	engine, err := s.rules.LoadEngine(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := readRecords(r, norm.RequiredCols())
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for _, row := range rows {
		tx, err := norm.Normalize(row.rec)
		if err != nil {
			if !errors.Is(err, normalize.ErrMalformedRecord) {
				return result, fmt.Errorf("row %d: %w", row.num, err)
			}

			result.Failed++
			result.Failures = append(result.Failures, RowFailure{Row: row.num, Err: err})

			continue
		}

		tx.AccountLabel = accountLabel
		tx.Fingerprint = fingerprint.Compute(tx)
		tx.Category = engine.Resolve(tx.MerchantNormalized)

		inserted, err := s.repo.InsertIfNew(ctx, tx)
		if err != nil {
			return result, fmt.Errorf("row %d: %w", row.num, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	slog.Info("ingestion run finished",
		"format", format,
		"account", accountLabel,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

// validateAccountLabel rejects labels that could break fingerprint field
// boundaries or make stored rows ambiguous.
func validateAccountLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("account label is required")
	}

	for _, r := range label {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("account label contains control characters")
		}
	}

	return nil
}
