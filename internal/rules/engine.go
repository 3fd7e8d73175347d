package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cardledger/cardledger/internal/transaction"
)

type compiledRule struct {
	Rule
	re *regexp.Regexp // non-nil only for MatchRegex
}

// Engine resolves categories against an immutable snapshot of the rule
// set. Construction validates every rule and compiles every regex, so
// Resolve itself cannot fail. An Engine is safe for concurrent readers.
type Engine struct {
	rules []compiledRule
}

// NewEngine validates the rule set and returns a ready engine. A single
// broken rule fails construction with ErrInvalidRule: an engine holding a
// rule it cannot evaluate would make resolution nondeterministic.
func NewEngine(ruleSet []Rule) (*Engine, error) {
	compiled := make([]compiledRule, 0, len(ruleSet))

	for _, r := range ruleSet {
		if err := r.validate(); err != nil {
			return nil, err
		}

		cr := compiledRule{Rule: r}

		if r.MatchType == MatchRegex {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %s pattern %q: %v", ErrInvalidRule, r.ID, r.Pattern, err)
			}

			cr.re = re
		}

		compiled = append(compiled, cr)
	}

	return &Engine{rules: compiled}, nil
}

// Len returns the number of rules in the engine.
func (e *Engine) Len() int { return len(e.rules) }

// Resolve returns the category for a normalized merchant string, or the
// Unclassified sentinel when no rule matches. Every rule is evaluated;
// among matches the highest priority wins, and a priority tie goes to the
// rule created first. Given the same merchant and rule set the result is
// always the same.
func (e *Engine) Resolve(merchant string) string {
	var best *compiledRule

	for i := range e.rules {
		cr := &e.rules[i]
		if !cr.matches(merchant) {
			continue
		}

		if best == nil || cr.outranks(best) {
			best = cr
		}
	}

	if best == nil {
		return transaction.CategoryUnclassified
	}

	return best.Category
}

func (cr *compiledRule) matches(merchant string) bool {
	switch cr.MatchType {
	case MatchExact:
		return merchant == cr.Pattern
	case MatchContains:
		return strings.Contains(merchant, cr.Pattern)
	case MatchRegex:
		return cr.re.MatchString(merchant)
	}

	// Unreachable: NewEngine rejects unknown match types.
	return false
}

func (cr *compiledRule) outranks(other *compiledRule) bool {
	if cr.Priority != other.Priority {
		return cr.Priority > other.Priority
	}

	return cr.CreatedAt.Before(other.CreatedAt)
}
