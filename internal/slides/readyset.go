// Package slides holds the ordered set of images the slideshow can show.
//
// A ReadySet is shared by exactly one writer (the acquirer, or the theme
// watcher) and one reader (the renderer). It only grows: the single removal
// is the eviction of the bootstrap placeholder, which happens atomically with
// the first real append so the length is never observed as zero.
package slides

import "sync"

// Item is a path to one displayable image on disk.
type Item string

// Path returns the item's file path.
func (i Item) Path() string {
	return string(i)
}

// ReadySet is a mutex-guarded, append-only list of items.
type ReadySet struct {
	mu          sync.Mutex
	items       []Item
	placeholder bool
}

// NewWithPlaceholder returns a set holding only placeholder. The placeholder
// is dropped when the first real item is appended.
func NewWithPlaceholder(placeholder Item) *ReadySet {
	return &ReadySet{
		items:       []Item{placeholder},
		placeholder: true,
	}
}

// New returns a set already holding items, with no placeholder.
func New(items ...Item) *ReadySet {
	cp := make([]Item, len(items))
	copy(cp, items)
	return &ReadySet{items: cp}
}

// Append adds item to the end of the set. The first append to a set built
// with NewWithPlaceholder also evicts the placeholder, in the same critical
// section.
func (s *ReadySet) Append(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
	if s.placeholder {
		s.items = s.items[1:]
		s.placeholder = false
	}
}

// Len returns the current number of items.
func (s *ReadySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the item at index, or false when index is out of range.
func (s *ReadySet) Get(index int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return "", false
	}
	return s.items[index], true
}

// HasPlaceholder reports whether the bootstrap placeholder is still present.
func (s *ReadySet) HasPlaceholder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholder
}

// Contains reports whether item is in the set.
func (s *ReadySet) Contains(item Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing == item {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the items in order.
func (s *ReadySet) Snapshot() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Item, len(s.items))
	copy(cp, s.items)
	return cp
}
