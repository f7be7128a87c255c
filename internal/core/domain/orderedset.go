package domain

import "strings"

// OrderedSet is a deduplicating set of strings that remembers insertion order.
type OrderedSet struct {
	items []string
	index map[string]struct{}
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{index: make(map[string]struct{})}
}

// Add appends s unless it is already present. It reports whether s was added.
func (o *OrderedSet) Add(s string) bool {
	if _, ok := o.index[s]; ok {
		return false
	}
	o.index[s] = struct{}{}
	o.items = append(o.items, s)
	return true
}

// Contains reports whether s is in the set.
func (o *OrderedSet) Contains(s string) bool {
	_, ok := o.index[s]
	return ok
}

// Len returns the number of elements.
func (o *OrderedSet) Len() int {
	return len(o.items)
}

// Slice returns the elements in insertion order.
func (o *OrderedSet) Slice() []string {
	out := make([]string, len(o.items))
	copy(out, o.items)
	return out
}

// String joins the elements with single spaces.
func (o *OrderedSet) String() string {
	return strings.Join(o.items, " ")
}
