package rules

import (
	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/patterns"
	"github.com/goliatone/go-sitegen/internal/routes"
)

// DefaultSet is the rule set used when callers do not name one.
const DefaultSet = "default"

// Registry holds the site's rule sets. Within one set the first matching
// rule wins, so overlapping patterns there are ambiguous; strict mode
// (default) rejects them at registration time. Separate sets are independent
// passes over the items: the same post can compile under a page rule in one
// set and a feed-snapshot rule in another.
type Registry struct {
	strict bool
	order  []string
	sets   map[string]*Set
}

// Option configures a registry.
type Option func(*Registry)

// WithStrict toggles registration-time ambiguity detection. Disabling it
// restores first-registered-wins for site configs that relied on overlap
// ordering.
func WithStrict(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// NewRegistry creates an empty registry. Strict pattern checking is on
// unless disabled through WithStrict(false).
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{strict: true, sets: map[string]*Set{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set returns the named rule set, creating it on first use. Sets keep
// creation order, which fixes product ordering for deterministic builds.
func (r *Registry) Set(name string) *Set {
	if name == "" {
		name = DefaultSet
	}
	if existing, ok := r.sets[name]; ok {
		return existing
	}
	set := &Set{name: name, strict: r.strict}
	r.sets[name] = set
	r.order = append(r.order, name)
	return set
}

// Register adds a rule to the default set.
func (r *Registry) Register(rule Rule) error {
	return r.Set(DefaultSet).Register(rule)
}

// Sets returns the rule sets in creation order.
func (r *Registry) Sets() []*Set {
	out := make([]*Set, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sets[name])
	}
	return out
}

// Len reports the total number of registered rules.
func (r *Registry) Len() int {
	total := 0
	for _, set := range r.sets {
		total += len(set.rules)
	}
	return total
}

// Match describes one rule selected for an identifier, with the captures its
// pattern bound.
type Match struct {
	Set      string
	Rule     Rule
	Captures []string
}

// MatchAll returns at most one match per rule set, in set creation order.
// Within a set the first registered matching rule is selected; matching
// itself depends only on pattern and identifier shapes.
func (r *Registry) MatchAll(id items.Identifier) []Match {
	var out []Match
	for _, name := range r.order {
		set := r.sets[name]
		if match, ok := set.match(id); ok {
			out = append(out, match)
		}
	}
	return out
}

// Set is one independent group of rules.
type Set struct {
	name   string
	strict bool
	rules  []Rule
}

// Name returns the set's name.
func (s *Set) Name() string { return s.name }

// Rules returns the set's rules in registration order.
func (s *Set) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Register validates the rule and, in strict mode, rejects patterns that
// overlap one already registered in this set.
func (s *Set) Register(rule Rule) error {
	if err := rule.validate(); err != nil {
		return err
	}
	if s.strict {
		for _, existing := range s.rules {
			if patterns.Overlaps(existing.Pattern, rule.Pattern) {
				return &AmbiguousRuleError{
					Set:    s.name,
					First:  existing.Pattern.String(),
					Second: rule.Pattern.String(),
				}
			}
		}
	}
	s.rules = append(s.rules, rule)
	return nil
}

// MustRegister panics on registration failure; for hand-written site
// configurations where a bad rule is a programming error.
func (s *Set) MustRegister(rule Rule) {
	if err := s.Register(rule); err != nil {
		panic(err)
	}
}

// Match starts a fluent rule binding for the given pattern.
func (s *Set) Match(pattern patterns.Pattern) *Binding {
	return &Binding{set: s, rule: Rule{Pattern: pattern}}
}

func (s *Set) match(id items.Identifier) (Match, bool) {
	for _, rule := range s.rules {
		captures, ok := rule.Pattern.Capture(id)
		if !ok {
			continue
		}
		return Match{Set: s.name, Rule: rule, Captures: captures}, true
	}
	return Match{}, false
}

// Binding accumulates a rule under construction.
type Binding struct {
	set  *Set
	rule Rule
}

// Named sets the rule's display name.
func (b *Binding) Named(name string) *Binding {
	b.rule.Name = name
	return b
}

// Route sets the rule's route strategy.
func (b *Binding) Route(route routes.Route) *Binding {
	b.rule.Route = route
	return b
}

// Depends declares the rule's data dependency.
func (b *Binding) Depends(dep Dependency) *Binding {
	b.rule.Depends = dep
	return b
}

// Compile finalises the binding with the ordered compiler chain and
// registers the rule.
func (b *Binding) Compile(steps ...Compiler) error {
	b.rule.Steps = steps
	return b.set.Register(b.rule)
}
