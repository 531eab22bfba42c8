package rules

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-sitegen/internal/items"
)

var (
	// ErrPatternAmbiguity indicates two patterns in one rule set can match
	// the same identifier, making precedence depend on registration order.
	ErrPatternAmbiguity = errors.New("rules: ambiguous pattern overlap")
	// ErrStepFailed indicates a compiler step aborted an item's chain.
	ErrStepFailed = errors.New("rules: compiler step failed")
	// ErrInvalidRule indicates a rule was registered without a pattern or
	// route.
	ErrInvalidRule = errors.New("rules: invalid rule")
)

// AmbiguousRuleError reports overlapping patterns within one rule set. In
// strict mode registration fails with this error; otherwise the earlier
// registration wins, which is a documented footgun.
type AmbiguousRuleError struct {
	Set    string
	First  string
	Second string
}

func (e *AmbiguousRuleError) Error() string {
	return fmt.Sprintf("rules: ambiguous pattern overlap: set=%s first=%q second=%q", e.Set, e.First, e.Second)
}

func (e *AmbiguousRuleError) Unwrap() error { return ErrPatternAmbiguity }

// StepError reports a compiler step failure for one item under one rule. It
// carries enough to locate the failure without rerunning: the identifier,
// the rule, and the step's position and name. Other items' builds continue.
type StepError struct {
	Identifier items.Identifier
	Rule       string
	StepIndex  int
	StepName   string
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("rules: compiler step failed: identifier=%s rule=%s step=%d (%s): %v", e.Identifier, e.Rule, e.StepIndex, e.StepName, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrStepFailed, e.Err}
}
