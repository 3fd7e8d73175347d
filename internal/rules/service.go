package rules

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rules
type Repository interface {
	// ListRules returns the full active rule set, ordered by priority
	// descending then created_at ascending.
	ListRules(ctx context.Context) ([]Rule, error)
	CreateRule(ctx context.Context, r *Rule) error
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LoadEngine reads the active rule set once and builds an engine from it.
// Each ingestion or reclassification run loads its own engine, so rule
// edits made mid-run never affect matching in flight.
func (s *Service) LoadEngine(ctx context.Context) (*Engine, error) {
	ruleSet, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	return NewEngine(ruleSet)
}

func (s *Service) List(ctx context.Context) ([]Rule, error) {
	return s.repo.ListRules(ctx)
}

// Create validates the rule before storing it, so a broken pattern can
// never enter the active set.
func (s *Service) Create(ctx context.Context, r *Rule) error {
	if _, err := NewEngine([]Rule{*r}); err != nil {
		return err
	}

	return s.repo.CreateRule(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, id)
}
