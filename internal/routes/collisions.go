package routes

import (
	"sort"
	"sync"

	"github.com/goliatone/go-sitegen/internal/items"
)

// Collisions tracks which claimant owns each output path during build
// planning. Claims happen before any artifact is written, so a collision
// fails the run while the output tree is still untouched.
type Collisions struct {
	mu     sync.Mutex
	byPath map[string]claimant
}

type claimant struct {
	id     items.Identifier
	source string
}

// NewCollisions returns an empty claim table.
func NewCollisions() *Collisions {
	return &Collisions{byPath: map[string]claimant{}}
}

// Claim records that id, producing on behalf of source (a rule set or a
// synthetic producer like "feed"), will write path. Re-claiming from the same
// identifier and source is a no-op; any other claimant yields a
// CollisionError naming both, so two sets routing the same item to the same
// path fail instead of overwriting each other.
func (c *Collisions) Claim(path string, id items.Identifier, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.byPath[path]
	if !ok {
		c.byPath[path] = claimant{id: id, source: source}
		return nil
	}
	if existing.id == id && existing.source == source {
		return nil
	}
	return &CollisionError{
		Path:         path,
		First:        existing.id,
		FirstSource:  existing.source,
		Second:       id,
		SecondSource: source,
	}
}

// Paths lists every claimed path, sorted. Used for sitemap synthesis.
func (c *Collisions) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.byPath))
	for p := range c.byPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
