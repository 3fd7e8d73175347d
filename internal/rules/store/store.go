package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardledger/cardledger/internal/rules"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListRules returns the full rule set ordered by priority descending, then
// created_at ascending, then id. The ordering mirrors resolution
// precedence so the engine's pick is always reproducible.
func (s *Store) ListRules(ctx context.Context) ([]rules.Rule, error) {
	query := `
		SELECT id, match_type, pattern, category, priority, created_at
		FROM rules
		ORDER BY priority DESC, created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var ruleSet []rules.Rule

	for rows.Next() {
		var r rules.Rule

		var matchType string

		if err := rows.Scan(&r.ID, &matchType, &r.Pattern, &r.Category, &r.Priority, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		r.MatchType = rules.MatchType(matchType)

		ruleSet = append(ruleSet, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return ruleSet, nil
}

func (s *Store) CreateRule(ctx context.Context, r *rules.Rule) error {
	query := `
		INSERT INTO rules (match_type, pattern, category, priority, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.MatchType,
		r.Pattern,
		r.Category,
		r.Priority,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) DeleteRule(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	return nil
}
