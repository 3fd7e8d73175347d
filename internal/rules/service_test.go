package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cardledger/cardledger/internal/rules"
)

func TestService_LoadEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rules.NewMockRepository(ctrl)
	svc := rules.NewService(repo)

	repo.EXPECT().ListRules(gomock.Any()).Return([]rules.Rule{
		rule(rules.MatchContains, "UBER", "Transport", 5, t0),
	}, nil)

	engine, err := svc.LoadEngine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, engine.Len())
}

func TestService_LoadEngine_InvalidRuleFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rules.NewMockRepository(ctrl)
	svc := rules.NewService(repo)

	repo.EXPECT().ListRules(gomock.Any()).Return([]rules.Rule{
		rule(rules.MatchRegex, "([", "Shopping", 0, t0),
	}, nil)

	_, err := svc.LoadEngine(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrInvalidRule)
}

func TestService_LoadEngine_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rules.NewMockRepository(ctrl)
	svc := rules.NewService(repo)

	repo.EXPECT().ListRules(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.LoadEngine(context.Background())
	assert.Error(t, err)
}

func TestService_Create_ValidatesBeforeStoring(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rules.NewMockRepository(ctrl)
	svc := rules.NewService(repo)

	// No CreateRule expectation: a broken rule never reaches the store.
	bad := rule(rules.MatchRegex, "([", "Shopping", 0, t0)
	err := svc.Create(context.Background(), &bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrInvalidRule)

	good := rule(rules.MatchExact, "NETFLIX.COM", "Entertainment", 3, t0)
	repo.EXPECT().CreateRule(gomock.Any(), &good).Return(nil)

	assert.NoError(t, svc.Create(context.Background(), &good))
}
