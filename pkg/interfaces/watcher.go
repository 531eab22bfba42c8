package interfaces

import (
	"context"
	"time"
)

// ChangeKind classifies a source tree mutation observed by a watcher.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// ChangeEvent describes a single observed source mutation.
type ChangeEvent struct {
	Path string
	Kind ChangeKind
	At   time.Time
}

// Watcher is the dev-server collaborator contract. The engine never watches
// files itself; hosts that want rebuild-on-change wire an implementation and
// trigger builds from the event stream. No implementation ships with this
// module.
type Watcher interface {
	Watch(ctx context.Context, roots []string, events chan<- ChangeEvent) error
}
