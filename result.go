package treequery

import (
	"iter"

	"github.com/valyala/fastjson"
)

// Matches is the lazy, finite sequence of nodes selected by a query. It is
// restartable: every range over it re-runs the traversal against the same
// tree, producing the same nodes in the same deterministic order. A Matches
// never outlives the usefulness of the tree it was created from; the nodes
// it yields are views into that tree, not copies.
type Matches iter.Seq[*fastjson.Value]

// All returns the sequence as a plain iter.Seq for use with the slices and
// maps iterator helpers.
func (m Matches) All() iter.Seq[*fastjson.Value] {
	return iter.Seq[*fastjson.Value](m)
}

// First returns the first match and true, or nil and false when the
// sequence is empty. Traversal stops as soon as the first match is found.
func (m Matches) First() (*fastjson.Value, bool) {
	for v := range m.All() {
		return v, true
	}
	return nil, false
}

// Collect materializes the sequence into a slice.
func (m Matches) Collect() []*fastjson.Value {
	var out []*fastjson.Value
	for v := range m.All() {
		out = append(out, v)
	}
	return out
}

// Count runs the traversal and returns the number of matches.
func (m Matches) Count() int {
	n := 0
	for range m.All() {
		n++
	}
	return n
}
