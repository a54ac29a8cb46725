package treequery

import (
	"github.com/agentable/treequery/internal/ast"
	"github.com/valyala/fastjson"
)

// walk applies the remaining segments to node, yielding every match. It
// returns false as soon as the consumer stops taking values, which is what
// lets SelectFirst short-circuit deep traversals.
//
// Structural mismatches (wrong node kind, missing key, index out of range)
// never fail; they simply contribute no matches.
func walk(node *fastjson.Value, segments []ast.Segment, yield func(*fastjson.Value) bool) bool {
	if node == nil {
		return true
	}
	if len(segments) == 0 {
		return yield(node)
	}

	seg, rest := &segments[0], segments[1:]
	switch seg.Kind {
	case ast.Property:
		if node.Type() == fastjson.TypeObject {
			if child := node.Get(seg.Name); child != nil {
				return walk(child, rest, yield)
			}
		}
	case ast.Wildcard:
		return walkChildren(node, rest, yield)
	case ast.Index:
		if arr, err := node.Array(); err == nil && seg.Index < len(arr) {
			return walk(arr[seg.Index], rest, yield)
		}
	case ast.RecursiveDescent:
		return descend(node, rest, yield)
	case ast.Filter:
		return walkFiltered(node, seg.Predicate, rest, yield)
	}
	return true
}

// walkChildren applies the remaining segments to every child of node, in
// document order: object property values in insertion order, array elements
// in index order. Scalars have no children.
func walkChildren(node *fastjson.Value, rest []ast.Segment, yield func(*fastjson.Value) bool) bool {
	switch node.Type() {
	case fastjson.TypeObject:
		obj, err := node.Object()
		if err != nil {
			return true
		}
		// fastjson's Visit cannot break early, so a stopped flag skips the
		// remaining siblings once the consumer is done.
		stopped := false
		obj.Visit(func(_ []byte, child *fastjson.Value) {
			if stopped {
				return
			}
			if !walk(child, rest, yield) {
				stopped = true
			}
		})
		return !stopped
	case fastjson.TypeArray:
		arr, err := node.Array()
		if err != nil {
			return true
		}
		for _, child := range arr {
			if !walk(child, rest, yield) {
				return false
			}
		}
	}
	return true
}

// descend applies the remaining segments to node and, depth-first, to every
// descendant. The node itself comes first, then its descendants in document
// order, so matches arrive in pre-order. Duplicates are not removed.
func descend(node *fastjson.Value, rest []ast.Segment, yield func(*fastjson.Value) bool) bool {
	if !walk(node, rest, yield) {
		return false
	}

	switch node.Type() {
	case fastjson.TypeObject:
		obj, err := node.Object()
		if err != nil {
			return true
		}
		stopped := false
		obj.Visit(func(_ []byte, child *fastjson.Value) {
			if stopped {
				return
			}
			if !descend(child, rest, yield) {
				stopped = true
			}
		})
		return !stopped
	case fastjson.TypeArray:
		arr, err := node.Array()
		if err != nil {
			return true
		}
		for _, child := range arr {
			if !descend(child, rest, yield) {
				return false
			}
		}
	}
	return true
}

// walkFiltered applies the remaining segments to the children of node that
// satisfy pred, preserving document order. Candidates come from an array or
// object child expansion, matching how a filter follows an array or
// wildcard step.
func walkFiltered(node *fastjson.Value, pred *ast.Predicate, rest []ast.Segment, yield func(*fastjson.Value) bool) bool {
	switch node.Type() {
	case fastjson.TypeObject:
		obj, err := node.Object()
		if err != nil {
			return true
		}
		stopped := false
		obj.Visit(func(_ []byte, child *fastjson.Value) {
			if stopped || !pred.Holds(child) {
				return
			}
			if !walk(child, rest, yield) {
				stopped = true
			}
		})
		return !stopped
	case fastjson.TypeArray:
		arr, err := node.Array()
		if err != nil {
			return true
		}
		for _, child := range arr {
			if !pred.Holds(child) {
				continue
			}
			if !walk(child, rest, yield) {
				return false
			}
		}
	}
	return true
}
