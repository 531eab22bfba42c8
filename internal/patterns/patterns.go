package patterns

import (
	"strings"

	"github.com/goliatone/go-sitegen/internal/items"
)

// Pattern is a predicate over item identifiers. Matching depends only on the
// pattern expression and the identifier shape, never on the order patterns
// were declared.
type Pattern interface {
	// Matches reports whether the identifier satisfies the pattern.
	Matches(id items.Identifier) bool
	// Capture returns the substrings bound by wildcard segments in
	// declaration order, and whether the identifier matched at all. Patterns
	// without wildcards yield an empty capture list on a match.
	Capture(id items.Identifier) ([]string, bool)
	String() string
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenStar
	tokenGlobstar
)

type token struct {
	kind tokenKind
	lit  string
}

type glob struct {
	expr   string
	tokens []token
}

// Glob compiles a glob expression into a pattern. `*` matches any run of
// characters within one path segment, `**` matches across segments; both may
// match the empty string. Everything else is literal.
func Glob(expr string) Pattern {
	return &glob{expr: expr, tokens: tokenize(expr)}
}

func tokenize(expr string) []token {
	var tokens []token
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, lit: lit.String()})
			lit.Reset()
		}
	}
	runes := []rune(expr)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '*' {
			lit.WriteRune(runes[i])
			continue
		}
		flush()
		if i+1 < len(runes) && runes[i+1] == '*' {
			tokens = append(tokens, token{kind: tokenGlobstar})
			i++
			continue
		}
		tokens = append(tokens, token{kind: tokenStar})
	}
	flush()
	return tokens
}

func (g *glob) String() string { return g.expr }

func (g *glob) Matches(id items.Identifier) bool {
	_, ok := g.Capture(id)
	return ok
}

func (g *glob) Capture(id items.Identifier) ([]string, bool) {
	return matchTokens(g.tokens, string(id), nil)
}

// matchTokens backtracks through the token list. Wildcards try their longest
// binding first so capture results are deterministic when several bindings
// would match.
func matchTokens(tokens []token, input string, captures []string) ([]string, bool) {
	if len(tokens) == 0 {
		if input == "" {
			if captures == nil {
				captures = []string{}
			}
			return captures, true
		}
		return nil, false
	}
	tok := tokens[0]
	switch tok.kind {
	case tokenLiteral:
		if !strings.HasPrefix(input, tok.lit) {
			return nil, false
		}
		return matchTokens(tokens[1:], input[len(tok.lit):], captures)
	case tokenStar:
		limit := len(input)
		if slash := strings.IndexByte(input, '/'); slash >= 0 {
			limit = slash
		}
		for n := limit; n >= 0; n-- {
			if out, ok := matchTokens(tokens[1:], input[n:], appendCapture(captures, input[:n])); ok {
				return out, true
			}
		}
		return nil, false
	default: // tokenGlobstar
		for n := len(input); n >= 0; n-- {
			if out, ok := matchTokens(tokens[1:], input[n:], appendCapture(captures, input[:n])); ok {
				return out, true
			}
		}
		return nil, false
	}
}

// appendCapture copies before appending so sibling backtracking branches
// never share a backing array.
func appendCapture(captures []string, segment string) []string {
	out := make([]string, 0, len(captures)+1)
	out = append(out, captures...)
	return append(out, segment)
}

type list struct {
	order   []items.Identifier
	members map[items.Identifier]struct{}
}

// List enumerates a finite set of exact identifiers. Useful for single named
// resources (about page, 404) that carry no wildcard structure.
func List(ids ...items.Identifier) Pattern {
	members := make(map[items.Identifier]struct{}, len(ids))
	order := make([]items.Identifier, 0, len(ids))
	for _, id := range ids {
		if _, ok := members[id]; ok {
			continue
		}
		members[id] = struct{}{}
		order = append(order, id)
	}
	return &list{order: order, members: members}
}

// Literal matches exactly one identifier.
func Literal(id items.Identifier) Pattern {
	return List(id)
}

func (l *list) String() string {
	parts := make([]string, 0, len(l.order))
	for _, id := range l.order {
		parts = append(parts, string(id))
	}
	return strings.Join(parts, "|")
}

func (l *list) Matches(id items.Identifier) bool {
	_, ok := l.members[id]
	return ok
}

func (l *list) Capture(id items.Identifier) ([]string, bool) {
	if !l.Matches(id) {
		return nil, false
	}
	return []string{}, true
}
