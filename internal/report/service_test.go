package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cardledger/cardledger/internal/report"
)

func TestMonthlySummary_ComputesAverage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	svc := report.NewService(repo)

	repo.EXPECT().MonthlySummary(gomock.Any(), 2025).Return([]report.MonthlySpend{
		{Month: "2025-01", SpendCents: 123450, TxnCount: 10},
		{Month: "2025-02", SpendCents: 0, TxnCount: 0},
	}, nil)

	months, err := svc.MonthlySummary(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, months, 2)

	assert.Equal(t, int64(12345), months[0].AvgPerTxnCents)
	// A month of credits only must not divide by zero.
	assert.Zero(t, months[1].AvgPerTxnCents)
}

func TestCategoryBreakdown_PassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	svc := report.NewService(repo)

	cells := []report.CategorySpend{
		{Month: "2025-01", Category: "Dining", SpendCents: 5000, TxnCount: 4},
	}
	repo.EXPECT().CategoryBreakdown(gomock.Any(), 0).Return(cells, nil)

	got, err := svc.CategoryBreakdown(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, cells, got)
}
