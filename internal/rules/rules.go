package rules

import (
	"context"
	"fmt"

	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/patterns"
	"github.com/goliatone/go-sitegen/internal/routes"
)

// Dependency declares what data a rule's compilers read, so the engine can
// schedule producers before consumers.
type Dependency int

const (
	// DependSelf marks a rule whose compilers read only the item they were
	// invoked with. Such rules may compile in parallel.
	DependSelf Dependency = iota
	// DependAllItems marks a rule whose compilers read other items'
	// snapshots or the tag index. Such rules run only after every
	// self-dependent rule finished.
	DependAllItems
)

func (d Dependency) String() string {
	if d == DependAllItems {
		return "all-items"
	}
	return "self"
}

// Compiler is one transformation step in a rule's chain. Steps receive the
// previous step's output and the shared build context; they may capture
// snapshots mid-chain through it.
type Compiler interface {
	Name() string
	Compile(ctx context.Context, build *BuildContext, item *items.Item, input []byte) ([]byte, error)
}

type step struct {
	name string
	fn   func(ctx context.Context, build *BuildContext, item *items.Item, input []byte) ([]byte, error)
}

// NewStep adapts a function into a named Compiler.
func NewStep(name string, fn func(ctx context.Context, build *BuildContext, item *items.Item, input []byte) ([]byte, error)) Compiler {
	if fn == nil {
		panic("rules: step function cannot be nil")
	}
	return &step{name: name, fn: fn}
}

func (s *step) Name() string { return s.name }

func (s *step) Compile(ctx context.Context, build *BuildContext, item *items.Item, input []byte) ([]byte, error) {
	return s.fn(ctx, build, item, input)
}

// CaptureSnapshot is a pass-through step that records the chain's current
// output under name. It lets one expensive transform feed several downstream
// consumers without recomputation.
func CaptureSnapshot(name string) Compiler {
	return NewStep(fmt.Sprintf("snapshot(%s)", name), func(_ context.Context, build *BuildContext, item *items.Item, input []byte) ([]byte, error) {
		build.Snapshots.Capture(item.ID, name, input)
		return input, nil
	})
}

// Rule binds a pattern to a route strategy and an ordered compiler chain.
type Rule struct {
	// Name defaults to the pattern expression when empty.
	Name    string
	Pattern patterns.Pattern
	Route   routes.Route
	Steps   []Compiler
	Depends Dependency
}

// DisplayName is the rule's diagnostic name: the explicit name when set,
// otherwise the pattern expression.
func (r Rule) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Pattern != nil {
		return r.Pattern.String()
	}
	return "(unnamed)"
}

func (r Rule) validate() error {
	if r.Pattern == nil {
		return fmt.Errorf("%w: rule %q has no pattern", ErrInvalidRule, r.DisplayName())
	}
	if r.Route == nil {
		return fmt.Errorf("%w: rule %q has no route", ErrInvalidRule, r.DisplayName())
	}
	return nil
}

// RunChain executes the rule's steps over the item's body. A step failure
// stops only this item-by-rule product and is reported as a StepError; the
// caller decides how failures aggregate across the run.
func RunChain(ctx context.Context, build *BuildContext, rule Rule, item *items.Item) ([]byte, error) {
	output := append([]byte(nil), item.Body...)
	for i, compiler := range rule.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := compiler.Compile(ctx, build, item, output)
		if err != nil {
			return nil, &StepError{
				Identifier: item.ID,
				Rule:       rule.DisplayName(),
				StepIndex:  i,
				StepName:   compiler.Name(),
				Err:        err,
			}
		}
		output = next
	}
	return output, nil
}
