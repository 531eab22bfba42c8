package patterns

import (
	"fmt"
	"sort"
	"strings"
)

// Overlaps reports whether some identifier could match both patterns. Rule
// registries use this to reject ambiguous configurations up front instead of
// relying on registration order. Glob pairs are decided exactly through NFA
// intersection; enumerated patterns are checked member by member. Custom
// Pattern implementations outside this package cannot be analysed and are
// treated as non-overlapping.
func Overlaps(a, b Pattern) bool {
	if a == nil || b == nil {
		return false
	}
	if al, ok := a.(*list); ok {
		return listOverlaps(al, b)
	}
	if bl, ok := b.(*list); ok {
		return listOverlaps(bl, a)
	}
	ag, aok := a.(*glob)
	bg, bok := b.(*glob)
	if aok && bok {
		return nfaOverlap(ag.tokens, bg.tokens)
	}
	return false
}

func listOverlaps(l *list, other Pattern) bool {
	for _, id := range l.order {
		if other.Matches(id) {
			return true
		}
	}
	return false
}

// The intersection check treats each glob as an NFA over a reduced alphabet:
// every rune that appears in either pattern's literals, the path separator,
// and one representative for "any other rune". If the product automaton
// reaches a state where both sides accept, a witness identifier exists.

type nfaState struct {
	tok int
	off int
}

const otherRune = '�'

func nfaOverlap(a, b []token) bool {
	alphabet := buildAlphabet(a, b)

	start := pairKeyed{
		a: closureSet(a, []nfaState{normalize(a, nfaState{0, 0})}),
		b: closureSet(b, []nfaState{normalize(b, nfaState{0, 0})}),
	}

	seen := map[string]struct{}{start.key(): {}}
	queue := []pairKeyed{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if accepts(a, cur.a) && accepts(b, cur.b) {
			return true
		}
		for _, c := range alphabet {
			na := closureSet(a, stepSet(a, cur.a, c))
			nb := closureSet(b, stepSet(b, cur.b, c))
			if len(na) == 0 || len(nb) == 0 {
				continue
			}
			next := pairKeyed{a: na, b: nb}
			key := next.key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}

type pairKeyed struct {
	a []nfaState
	b []nfaState
}

func (p pairKeyed) key() string {
	var sb strings.Builder
	for _, s := range p.a {
		fmt.Fprintf(&sb, "a%d.%d;", s.tok, s.off)
	}
	for _, s := range p.b {
		fmt.Fprintf(&sb, "b%d.%d;", s.tok, s.off)
	}
	return sb.String()
}

func buildAlphabet(a, b []token) []rune {
	set := map[rune]struct{}{'/': {}, otherRune: {}}
	for _, toks := range [][]token{a, b} {
		for _, tok := range toks {
			if tok.kind != tokenLiteral {
				continue
			}
			for _, r := range tok.lit {
				set[r] = struct{}{}
			}
		}
	}
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// normalize advances past fully consumed literal tokens so states always sit
// either at a literal offset, on a wildcard, or at the accept position.
func normalize(toks []token, s nfaState) nfaState {
	for s.tok < len(toks) {
		tok := toks[s.tok]
		if tok.kind == tokenLiteral && s.off >= len([]rune(tok.lit)) {
			s = nfaState{s.tok + 1, 0}
			continue
		}
		break
	}
	return s
}

// closureSet expands wildcard states with their empty-match epsilon moves and
// returns a deduplicated, sorted set.
func closureSet(toks []token, states []nfaState) []nfaState {
	set := map[nfaState]struct{}{}
	for _, s := range states {
		cur := normalize(toks, s)
		for {
			set[cur] = struct{}{}
			if cur.tok >= len(toks) || toks[cur.tok].kind == tokenLiteral {
				break
			}
			cur = normalize(toks, nfaState{cur.tok + 1, 0})
		}
	}
	out := make([]nfaState, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].tok != out[j].tok {
			return out[i].tok < out[j].tok
		}
		return out[i].off < out[j].off
	})
	return out
}

func stepSet(toks []token, states []nfaState, c rune) []nfaState {
	var out []nfaState
	for _, s := range states {
		if s.tok >= len(toks) {
			continue
		}
		tok := toks[s.tok]
		switch tok.kind {
		case tokenLiteral:
			runes := []rune(tok.lit)
			if s.off < len(runes) && runes[s.off] == c {
				out = append(out, normalize(toks, nfaState{s.tok, s.off + 1}))
			}
		case tokenStar:
			if c != '/' {
				out = append(out, s)
			}
		case tokenGlobstar:
			out = append(out, s)
		}
	}
	return out
}

func accepts(toks []token, states []nfaState) bool {
	for _, s := range states {
		if s.tok >= len(toks) {
			return true
		}
	}
	return false
}
