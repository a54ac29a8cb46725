// Package treequery implements a small JSONPath-like query language over
// parsed fastjson documents. A path expression such as
//
//	$.items[?(@.value > 500)].name
//
// selects zero or more nodes from an already-parsed tree. Supported steps
// are property access (.name), wildcards (.* and [*]), array indexing
// ([3]), recursive descent (..name), and filter predicates with a single
// comparison ([?(@.a.b == "x")]). Queries never mutate the tree;
// structural mismatches select nothing rather than failing.
package treequery

import (
	"errors"
	"fmt"

	"github.com/agentable/treequery/internal/ast"
	"github.com/agentable/treequery/internal/parser"
	"github.com/valyala/fastjson"
)

// ErrPathSyntax is returned when a path expression cannot be parsed. The
// wrapped error chain carries the offending expression, the reason, and the
// byte position where parsing failed.
var ErrPathSyntax = errors.New("treequery: invalid path expression")

// Path is a compiled path expression. Safe for concurrent use.
type Path struct {
	segments []ast.Segment
}

// Parse compiles a path expression. Returns an error wrapping
// [ErrPathSyntax] for any expression outside the grammar.
func Parse(expr string) (*Path, error) {
	p, err := parser.New(expr)
	if err != nil {
		return nil, syntaxError(expr, err)
	}
	segments, err := p.Parse()
	if err != nil {
		return nil, syntaxError(expr, err)
	}
	return &Path{segments: segments}, nil
}

// MustParse compiles a path expression. Panics on failure.
func MustParse(expr string) *Path {
	path, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return path
}

// Valid reports whether expr is a syntactically valid path expression.
func Valid(expr string) bool {
	_, err := Parse(expr)
	return err == nil
}

// Select returns the lazy match sequence for p evaluated against root.
// Traversal happens on each enumeration of the result, so ranging twice
// re-runs the query and yields the same matches in the same order.
func (p *Path) Select(root *fastjson.Value) Matches {
	segments := p.segments
	return func(yield func(*fastjson.Value) bool) {
		if root == nil {
			return
		}
		walk(root, segments, yield)
	}
}

// SelectFirst returns the first node matched by p in root, or nil if there
// is none. It traverses no more of the tree than needed.
func (p *Path) SelectFirst(root *fastjson.Value) *fastjson.Value {
	first, _ := p.Select(root).First()
	return first
}

// String returns the canonical text of the compiled path, e.g. $.a[0].
func (p *Path) String() string {
	return ast.Format(p.segments)
}

// MarshalText implements encoding.TextMarshaler.
func (p *Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	path, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = *path
	return nil
}

// Query parses expr and returns its lazy match sequence over root. Syntax
// errors surface here, before any tree traversal.
func Query(root *fastjson.Value, expr string) (Matches, error) {
	path, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return path.Select(root), nil
}

// QueryFirst parses expr and returns the first node it matches in root, or
// nil if nothing matches.
func QueryFirst(root *fastjson.Value, expr string) (*fastjson.Value, error) {
	path, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return path.SelectFirst(root), nil
}

// syntaxError wraps a parse failure with the sentinel and the expression.
func syntaxError(expr string, err error) error {
	return fmt.Errorf("%w: %q: %w", ErrPathSyntax, expr, err)
}
