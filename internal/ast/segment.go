// Package ast defines the compiled form of a treequery path expression: an
// ordered sequence of segments plus the predicate tree used by filter
// segments. Evaluation order invariant: segment i+1 only ever sees nodes
// selected by segment i.
package ast

import (
	"strconv"
	"strings"
)

// SegmentKind identifies the variant stored in a [Segment].
type SegmentKind uint8

const (
	Property         SegmentKind = iota // exact key match on an object
	Wildcard                            // all children of an object or array
	Index                               // array position
	RecursiveDescent                    // the node itself plus every descendant, pre-order
	Filter                              // children passing a predicate
)

// Segment is one step of a compiled path. It is a tagged union represented
// as a concrete struct so segment slices stay contiguous in memory.
type Segment struct {
	Kind      SegmentKind
	Name      string     // Property: the key to look up
	Index     int        // Index: the array position, never negative
	Predicate *Predicate // Filter
}

// PropertySegment returns a Segment matching the object key name.
func PropertySegment(name string) Segment {
	return Segment{Kind: Property, Name: name}
}

// WildcardSegment returns a Segment matching all children.
func WildcardSegment() Segment {
	return Segment{Kind: Wildcard}
}

// IndexSegment returns a Segment matching the array element at idx.
func IndexSegment(idx int) Segment {
	return Segment{Kind: Index, Index: idx}
}

// RecursiveDescentSegment returns a Segment matching the current node and,
// depth-first, every descendant. The parser always pairs it with a following
// segment to apply at each visited node.
func RecursiveDescentSegment() Segment {
	return Segment{Kind: RecursiveDescent}
}

// FilterSegment returns a Segment keeping only children for which pred holds.
func FilterSegment(pred *Predicate) Segment {
	return Segment{Kind: Filter, Predicate: pred}
}

// writeTo writes the canonical text of s to buf. afterDescent is true when
// the preceding segment was a recursive descent, in which case a property
// name follows the ".." directly.
func (s *Segment) writeTo(buf *strings.Builder, afterDescent bool) {
	switch s.Kind {
	case Property:
		if !afterDescent {
			buf.WriteByte('.')
		}
		buf.WriteString(s.Name)
	case Wildcard:
		buf.WriteString(".*")
	case Index:
		buf.WriteByte('[')
		buf.WriteString(strconv.Itoa(s.Index))
		buf.WriteByte(']')
	case RecursiveDescent:
		buf.WriteString("..")
	case Filter:
		buf.WriteString("[?(")
		s.Predicate.writeTo(buf)
		buf.WriteString(")]")
	}
}

// Format returns the canonical text of a compiled segment sequence,
// including the leading root anchor. The result parses back to an
// equivalent sequence.
func Format(segments []Segment) string {
	var buf strings.Builder
	buf.WriteByte('$')
	afterDescent := false
	for i := range segments {
		segments[i].writeTo(&buf, afterDescent)
		afterDescent = segments[i].Kind == RecursiveDescent
	}
	return buf.String()
}
