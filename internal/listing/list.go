// Package listing provides the filterable, toggleable in-memory list shared
// by the locations and search pages.
package listing

import (
	"errors"
	"strings"
	"sync"
)

// ErrDuplicate is returned when adding an item whose key already exists.
var ErrDuplicate = errors.New("item with the same key already exists")

// Keyed is implemented by list items.
type Keyed interface {
	Key() string
}

// List is an ordered, concurrency-safe list of keyed items.
type List[T Keyed] struct {
	mu    sync.RWMutex
	items []T
}

// New creates a list seeded with a copy of items.
func New[T Keyed](seed []T) *List[T] {
	return &List[T]{items: append([]T(nil), seed...)}
}

// Items returns a snapshot of the list in order.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Get returns the item with the given key.
func (l *List[T]) Get(key string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.index(key); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Add appends item unless its key is already present.
func (l *List[T]) Add(item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index(item.Key()) >= 0 {
		return ErrDuplicate
	}
	l.items = append(l.items, item)
	return nil
}

// Update replaces the item with the given key by fn's result. Other items
// are left untouched. It reports whether the key was found.
func (l *List[T]) Update(key string, fn func(T) T) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(key)
	if i < 0 {
		var zero T
		return zero, false
	}
	l.items[i] = fn(l.items[i])
	return l.items[i], true
}

// Remove drops the item with the given key. Removing a missing key is a no-op.
func (l *List[T]) Remove(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(key)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

// Filter returns the items for which keep returns true, in order.
func (l *List[T]) Filter(keep func(T) bool) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, 0, len(l.items))
	for _, it := range l.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Partition splits the list into the items matching pred and the rest.
func (l *List[T]) Partition(pred func(T) bool) (matched, rest []T) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.items {
		if pred(it) {
			matched = append(matched, it)
		} else {
			rest = append(rest, it)
		}
	}
	return matched, rest
}

func (l *List[T]) index(key string) int {
	for i, it := range l.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// Matches reports whether any field contains query, ignoring case.
// The empty query matches everything.
func Matches(query string, fields ...string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
