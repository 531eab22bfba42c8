package snapshots

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-sitegen/internal/items"
)

// ErrSnapshotNotFound indicates a requested snapshot has not been captured.
// Within a build this is an ordering violation: the rule producing the
// snapshot must be scheduled before the rule consuming it.
var ErrSnapshotNotFound = errors.New("snapshots: snapshot not found")

// NotFoundError reports a missing snapshot. The message distinguishes an item
// with no captures at all from an item whose captures lack the requested
// name, which makes dependency-ordering mistakes diagnosable at a glance.
type NotFoundError struct {
	Identifier items.Identifier
	Snapshot   string
	Captured   []string
}

func (e *NotFoundError) Error() string {
	if len(e.Captured) == 0 {
		return fmt.Sprintf("snapshots: snapshot not found: no snapshots captured for identifier=%s (requested %q); ensure the producing rule runs before its consumers", e.Identifier, e.Snapshot)
	}
	return fmt.Sprintf("snapshots: snapshot not found: identifier=%s has no snapshot %q (captured: %s); ensure the producing rule runs before its consumers", e.Identifier, e.Snapshot, strings.Join(e.Captured, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrSnapshotNotFound }
