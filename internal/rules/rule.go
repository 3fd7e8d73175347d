// Package rules holds the classification rule set and the engine that
// resolves a spending category for a normalized merchant string.
package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRule marks a rule that cannot make deterministic matching
// guarantees: an uncompilable REGEX pattern or a missing required field.
// It is raised when the rule set is loaded, before any matching runs.
var ErrInvalidRule = errors.New("invalid rule")

// MatchType selects how a rule's pattern is interpreted.
type MatchType string

const (
	// MatchExact requires string equality with the normalized merchant.
	MatchExact MatchType = "EXACT"
	// MatchContains is a substring test. Merchants are uppercased during
	// normalization, so uppercase patterns are effectively
	// case-insensitive end to end.
	MatchContains MatchType = "CONTAINS"
	// MatchRegex searches the pattern anywhere in the merchant string.
	MatchRegex MatchType = "REGEX"
)

// Rule maps merchants to a category. Among several matching rules the
// highest priority wins; priority ties fall back to the earliest CreatedAt.
type Rule struct {
	ID        uuid.UUID
	MatchType MatchType
	Pattern   string
	Category  string
	Priority  int
	CreatedAt time.Time
}

func (r Rule) validate() error {
	if r.Pattern == "" {
		return fmt.Errorf("%w: rule %s has an empty pattern", ErrInvalidRule, r.ID)
	}

	if r.Category == "" {
		return fmt.Errorf("%w: rule %s has an empty category", ErrInvalidRule, r.ID)
	}

	switch r.MatchType {
	case MatchExact, MatchContains, MatchRegex:
		return nil
	default:
		return fmt.Errorf("%w: rule %s has unknown match type %q", ErrInvalidRule, r.ID, r.MatchType)
	}
}
