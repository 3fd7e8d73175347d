package reclassify_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cardledger/cardledger/internal/reclassify"
	"github.com/cardledger/cardledger/internal/rules"
	"github.com/cardledger/cardledger/internal/transaction"
)

func stored(merchant, category string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:                 uuid.New(),
		MerchantNormalized: merchant,
		Category:           category,
	}
}

func TestRun_UpdatesOnlyChangedCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ruleRepo := rules.NewMockRepository(ctrl)
	txRepo := transaction.NewMockRepository(ctrl)
	svc := reclassify.NewService(rules.NewService(ruleRepo), txRepo)

	ruleRepo.EXPECT().ListRules(gomock.Any()).Return([]rules.Rule{
		{MatchType: rules.MatchContains, Pattern: "UBER", Category: "Transport", Priority: 5},
	}, nil)

	unchanged := stored("UBER TRIP", "Transport")
	outdated := stored("UBER EATS", "Dining") // the old EXACT rule was deleted
	orphaned := stored("CORNER SHOP", "Groceries")

	txRepo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{}).
		Return([]*transaction.Transaction{unchanged, outdated, orphaned}, nil)

	txRepo.EXPECT().UpdateCategory(gomock.Any(), outdated.ID, "Transport").Return(nil)
	txRepo.EXPECT().UpdateCategory(gomock.Any(), orphaned.ID, transaction.CategoryUnclassified).Return(nil)

	result, err := svc.Run(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Examined)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Unchanged)
}

func TestRun_RepeatRunIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ruleRepo := rules.NewMockRepository(ctrl)
	txRepo := transaction.NewMockRepository(ctrl)
	svc := reclassify.NewService(rules.NewService(ruleRepo), txRepo)

	ruleSet := []rules.Rule{
		{MatchType: rules.MatchContains, Pattern: "UBER", Category: "Transport", Priority: 5},
	}
	ruleRepo.EXPECT().ListRules(gomock.Any()).Return(ruleSet, nil).Times(2)

	txs := []*transaction.Transaction{
		stored("UBER TRIP", ""),
		stored("CORNER SHOP", ""),
	}
	txRepo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
			return txs, nil
		}).
		Times(2)

	// First run assigns categories; the fake applies the updates.
	txRepo.EXPECT().
		UpdateCategory(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, category string) error {
			for _, tx := range txs {
				if tx.ID == id {
					tx.Category = category
				}
			}
			return nil
		}).
		Times(2)

	first, err := svc.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Updated)

	// Second run with the same rules updates nothing.
	second, err := svc.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, second.Updated)
	assert.Equal(t, 2, second.Unchanged)
}

func TestRun_PassesDateRangeFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ruleRepo := rules.NewMockRepository(ctrl)
	txRepo := transaction.NewMockRepository(ctrl)
	svc := reclassify.NewService(rules.NewService(ruleRepo), txRepo)

	ruleRepo.EXPECT().ListRules(gomock.Any()).Return(nil, nil)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	txRepo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{StartDate: &from, EndDate: &to}).
		Return(nil, nil)

	result, err := svc.Run(context.Background(), &from, &to)
	require.NoError(t, err)
	assert.Zero(t, result.Examined)
}

func TestRun_BrokenRuleSetAbortsBeforeReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ruleRepo := rules.NewMockRepository(ctrl)
	txRepo := transaction.NewMockRepository(ctrl)
	svc := reclassify.NewService(rules.NewService(ruleRepo), txRepo)

	ruleRepo.EXPECT().ListRules(gomock.Any()).Return([]rules.Rule{
		{MatchType: rules.MatchRegex, Pattern: "([", Category: "Shopping"},
	}, nil)

	_, err := svc.Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrInvalidRule)
}
