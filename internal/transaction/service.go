package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// InsertIfNew stores the transaction unless a row with the same
	// fingerprint already exists. It reports whether a row was inserted.
	// The uniqueness check and the insert are a single atomic statement
	// in the store, so concurrent writers cannot race in a duplicate.
	InsertIfNew(ctx context.Context, tx *Transaction) (bool, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// UpdateCategory overwrites the resolved category of a stored
	// transaction. No other field is touched.
	UpdateCategory(ctx context.Context, id uuid.UUID, category string) error
}

// ListFilter narrows ListTransactions by posted date and/or category.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Account   *string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}
