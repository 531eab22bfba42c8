package routes

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-sitegen/internal/items"
)

// ErrRouteCollision indicates two identifiers resolved to the same output
// path. This is a broken site topology, fatal before anything is written.
var ErrRouteCollision = errors.New("routes: output path collision")

// CollisionError names the contested path and both claimants so the
// offending sources can be fixed without spelunking. The sources tell the two
// claims apart when a single item reaches the same path through different
// rule sets.
type CollisionError struct {
	Path         string
	First        items.Identifier
	FirstSource  string
	Second       items.Identifier
	SecondSource string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("routes: output path collision: path=%s first=%s second=%s",
		e.Path, e.claimLabel(e.First, e.FirstSource), e.claimLabel(e.Second, e.SecondSource))
}

func (e *CollisionError) claimLabel(id items.Identifier, source string) string {
	if source == "" {
		return string(id)
	}
	return fmt.Sprintf("%s (%s)", id, source)
}

func (e *CollisionError) Unwrap() error { return ErrRouteCollision }
