package rules_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardledger/cardledger/internal/rules"
	"github.com/cardledger/cardledger/internal/transaction"
)

func rule(mt rules.MatchType, pattern, category string, priority int, createdAt time.Time) rules.Rule {
	return rules.Rule{
		ID:        uuid.New(),
		MatchType: mt,
		Pattern:   pattern,
		Category:  category,
		Priority:  priority,
		CreatedAt: createdAt,
	}
}

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEngine_MatchTypes(t *testing.T) {
	engine, err := rules.NewEngine([]rules.Rule{
		rule(rules.MatchExact, "NETFLIX.COM", "Entertainment", 0, t0),
		rule(rules.MatchContains, "WHOLE FOODS", "Groceries", 0, t0),
		rule(rules.MatchRegex, `^AMZN( MKTP)? US`, "Shopping", 0, t0),
	})
	require.NoError(t, err)

	tests := []struct {
		merchant string
		want     string
	}{
		{"NETFLIX.COM", "Entertainment"},
		{"NETFLIX.COM HELP", transaction.CategoryUnclassified}, // EXACT is equality, not prefix
		{"WHOLE FOODS MARKET 123", "Groceries"},
		{"AMZN MKTP US", "Shopping"},
		{"AMZN US", "Shopping"},
		{"SOME OTHER SHOP", transaction.CategoryUnclassified},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.Resolve(tt.merchant), "merchant=%q", tt.merchant)
	}
}

func TestEngine_HigherPriorityWins(t *testing.T) {
	// The specific EXACT rule outranks the broader CONTAINS rule
	// regardless of insertion order.
	broad := rule(rules.MatchContains, "UBER", "Transport", 5, t0)
	specific := rule(rules.MatchExact, "UBER EATS", "Dining", 10, t0.Add(time.Hour))

	for name, ruleSet := range map[string][]rules.Rule{
		"SpecificFirst": {specific, broad},
		"BroadFirst":    {broad, specific},
	} {
		t.Run(name, func(t *testing.T) {
			engine, err := rules.NewEngine(ruleSet)
			require.NoError(t, err)

			assert.Equal(t, "Dining", engine.Resolve("UBER EATS"))
			assert.Equal(t, "Transport", engine.Resolve("UBER TRIP"))
		})
	}
}

func TestEngine_EqualPriorityEarliestCreatedWins(t *testing.T) {
	older := rule(rules.MatchContains, "MARKET", "Groceries", 7, t0)
	newer := rule(rules.MatchContains, "FARMERS", "Dining", 7, t0.Add(24*time.Hour))

	for name, ruleSet := range map[string][]rules.Rule{
		"OlderFirst": {older, newer},
		"NewerFirst": {newer, older},
	} {
		t.Run(name, func(t *testing.T) {
			engine, err := rules.NewEngine(ruleSet)
			require.NoError(t, err)

			// Both match; the earlier-created rule wins every time.
			for i := 0; i < 10; i++ {
				assert.Equal(t, "Groceries", engine.Resolve("FARMERS MARKET"))
			}
		})
	}
}

func TestNewEngine_RejectsBrokenRules(t *testing.T) {
	tests := []struct {
		name string
		r    rules.Rule
	}{
		{"BadRegex", rule(rules.MatchRegex, "([", "Shopping", 0, t0)},
		{"EmptyPattern", rule(rules.MatchExact, "", "Shopping", 0, t0)},
		{"EmptyCategory", rule(rules.MatchExact, "X", "", 0, t0)},
		{"UnknownMatchType", rule("GLOB", "X*", "Shopping", 0, t0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.NewEngine([]rules.Rule{tt.r})
			require.Error(t, err)
			assert.ErrorIs(t, err, rules.ErrInvalidRule)
		})
	}
}

func TestEngine_EmptyRuleSet(t *testing.T) {
	engine, err := rules.NewEngine(nil)
	require.NoError(t, err)

	assert.Equal(t, transaction.CategoryUnclassified, engine.Resolve("ANYTHING"))
	assert.Zero(t, engine.Len())
}
