package snapshots

import (
	"sort"
	"sync"

	"github.com/goliatone/go-sitegen/internal/items"
)

// Store holds named captures of compiled item content for one build run.
// Captures are immutable once taken: both Capture and Load copy, so later
// pipeline stages can keep transforming their working buffer without
// corrupting what the feed or another rule already snapshotted. The store is
// safe for concurrent use by parallel item compilations.
type Store struct {
	mu   sync.RWMutex
	data map[items.Identifier]map[string][]byte
}

// NewStore returns an empty snapshot store scoped to a single build run.
func NewStore() *Store {
	return &Store{data: map[items.Identifier]map[string][]byte{}}
}

// Capture records content under (id, name). Re-capturing the same name
// overwrites the previous content.
func (s *Store) Capture(id items.Identifier, name string, content []byte) {
	copied := append([]byte(nil), content...)
	s.mu.Lock()
	defer s.mu.Unlock()
	byName := s.data[id]
	if byName == nil {
		byName = map[string][]byte{}
		s.data[id] = byName
	}
	byName[name] = copied
}

// Load returns the content most recently captured under (id, name). Loading
// never recomputes; a missing capture is returned as a NotFoundError rather
// than any default.
func (s *Store) Load(id items.Identifier, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byName, ok := s.data[id]
	if !ok {
		return nil, &NotFoundError{Identifier: id, Snapshot: name}
	}
	content, ok := byName[name]
	if !ok {
		return nil, &NotFoundError{Identifier: id, Snapshot: name, Captured: sortedNames(byName)}
	}
	return append([]byte(nil), content...), nil
}

// Has reports whether (id, name) was captured.
func (s *Store) Has(id items.Identifier, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byName, ok := s.data[id]
	if !ok {
		return false
	}
	_, ok = byName[name]
	return ok
}

// Names lists the snapshot names captured for id, sorted.
func (s *Store) Names(id items.Identifier) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byName, ok := s.data[id]
	if !ok {
		return nil
	}
	return sortedNames(byName)
}

// Len reports the total number of captures across all items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, byName := range s.data {
		total += len(byName)
	}
	return total
}

func sortedNames(byName map[string][]byte) []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
