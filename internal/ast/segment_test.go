package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		segments []Segment
		want     string
	}{
		{
			name:     "root only",
			segments: nil,
			want:     "$",
		},
		{
			name:     "property chain",
			segments: []Segment{PropertySegment("store"), PropertySegment("book")},
			want:     "$.store.book",
		},
		{
			name:     "wildcard",
			segments: []Segment{PropertySegment("store"), WildcardSegment()},
			want:     "$.store.*",
		},
		{
			name:     "index",
			segments: []Segment{PropertySegment("book"), IndexSegment(2)},
			want:     "$.book[2]",
		},
		{
			name:     "recursive descent pairs with following property",
			segments: []Segment{RecursiveDescentSegment(), PropertySegment("price")},
			want:     "$..price",
		},
		{
			name: "filter",
			segments: []Segment{
				PropertySegment("items"),
				FilterSegment(&Predicate{Steps: []string{"value"}, Op: Greater, Literal: 500.0}),
			},
			want: "$.items[?(@.value > 500)]",
		},
		{
			name: "string literal filter",
			segments: []Segment{
				FilterSegment(&Predicate{Steps: []string{"name"}, Op: Equal, Literal: "bob"}),
			},
			want: `$[?(@.name == "bob")]`,
		},
		{
			name: "boolean literal filter",
			segments: []Segment{
				FilterSegment(&Predicate{Steps: []string{"on"}, Op: NotEqual, Literal: true}),
			},
			want: "$[?(@.on != true)]",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Format(tc.segments))
		})
	}
}

func TestCompOpString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   CompOp
		want string
	}{
		{Equal, "=="},
		{NotEqual, "!="},
		{Less, "<"},
		{LessEqual, "<="},
		{Greater, ">"},
		{GreaterEqual, ">="},
		{CompOp(99), "?"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.op.String())
	}
}

func TestPredicateString(t *testing.T) {
	t.Parallel()

	p := &Predicate{Steps: []string{"a", "b"}, Op: LessEqual, Literal: 1.5}
	assert.Equal(t, "@.a.b <= 1.5", p.String())
}
