package engine

import (
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/rules"
)

// product is one item-by-rule pairing scheduled for compilation. Every rule
// whose pattern matches an item yields its own product, so the same post can
// compile to a page under one set and contribute a snapshot under another.
type product struct {
	item     *items.Item
	set      string
	rule     rules.Rule
	captures []string
	route    string
}

// CompiledProduct is the finished output of one product: the compiled body
// plus where it publishes. Synthesized outputs (tag pages) use derived
// identifiers since no source file backs them.
type CompiledProduct struct {
	Identifier items.Identifier
	Set        string
	Rule       string
	Route      string
	Body       []byte
	Checksum   string
	Modified   time.Time
	Duration   time.Duration
}

// ProductDiagnostic records the outcome of one product for build reporting.
type ProductDiagnostic struct {
	Identifier items.Identifier
	Set        string
	Rule       string
	Route      string
	Duration   time.Duration
	Skipped    bool
	Err        error
}

type compileOutcome struct {
	product    CompiledProduct
	diagnostic ProductDiagnostic
	err        error
	skipped    bool
}

// buildPlan is the run's pre-write schedule: every product with its resolved
// route, the items that matched at least one rule, and each item's primary
// route for link generation.
type buildPlan struct {
	products []product
	matched  []*items.Item
	primary  map[items.Identifier]string
}

// routeFor reports the public URL path of an item's primary product. The
// primary product is the first match in set creation order, which is the page
// rule for conventionally registered sites.
func (p buildPlan) routeFor(id items.Identifier) (string, bool) {
	route, ok := p.primary[id]
	if !ok {
		return "", false
	}
	return publicPath(route), true
}

// publicPath converts an output-relative file path into the URL path it is
// served under, folding directory indexes onto their directory.
func publicPath(route string) string {
	trimmed := strings.Trim(strings.TrimSpace(route), "/")
	if trimmed == "" || trimmed == "index.html" {
		return "/"
	}
	if dir, ok := strings.CutSuffix(trimmed, "/index.html"); ok {
		return "/" + dir + "/"
	}
	return "/" + trimmed
}

// tagIdentifier derives the synthetic identifier for one tag's listing page.
func tagIdentifier(segment string) items.Identifier {
	return items.Identifier(path.Join("tags", segment))
}
