package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestPredicateHolds(t *testing.T) {
	t.Parallel()

	candidate := fastjson.MustParse(`{
		"value": 500,
		"price": 9.99,
		"name": "widget",
		"active": true,
		"nested": {"depth": 2},
		"tags": ["a", "b"]
	}`)

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{
			name: "number equal",
			pred: Predicate{Steps: []string{"value"}, Op: Equal, Literal: 500.0},
			want: true,
		},
		{
			name: "number not equal",
			pred: Predicate{Steps: []string{"value"}, Op: NotEqual, Literal: 499.0},
			want: true,
		},
		{
			name: "integer and decimal compare in one representation",
			pred: Predicate{Steps: []string{"price"}, Op: Less, Literal: 10.0},
			want: true,
		},
		{
			name: "greater false on equal values",
			pred: Predicate{Steps: []string{"value"}, Op: Greater, Literal: 500.0},
			want: false,
		},
		{
			name: "greater equal true on equal values",
			pred: Predicate{Steps: []string{"value"}, Op: GreaterEqual, Literal: 500.0},
			want: true,
		},
		{
			name: "less equal",
			pred: Predicate{Steps: []string{"value"}, Op: LessEqual, Literal: 499.0},
			want: false,
		},
		{
			name: "string equal",
			pred: Predicate{Steps: []string{"name"}, Op: Equal, Literal: "widget"},
			want: true,
		},
		{
			name: "string not equal",
			pred: Predicate{Steps: []string{"name"}, Op: NotEqual, Literal: "gadget"},
			want: true,
		},
		{
			name: "boolean equal",
			pred: Predicate{Steps: []string{"active"}, Op: Equal, Literal: true},
			want: true,
		},
		{
			name: "boolean not equal",
			pred: Predicate{Steps: []string{"active"}, Op: NotEqual, Literal: false},
			want: true,
		},
		{
			name: "multi-step relative path",
			pred: Predicate{Steps: []string{"nested", "depth"}, Op: Equal, Literal: 2.0},
			want: true,
		},
		{
			name: "missing property is false",
			pred: Predicate{Steps: []string{"missing"}, Op: Equal, Literal: 1.0},
			want: false,
		},
		{
			name: "step through non-object is false",
			pred: Predicate{Steps: []string{"name", "length"}, Op: Equal, Literal: 6.0},
			want: false,
		},
		{
			name: "step through array is false",
			pred: Predicate{Steps: []string{"tags", "first"}, Op: Equal, Literal: "a"},
			want: false,
		},
		{
			name: "type mismatch on ordering is false",
			pred: Predicate{Steps: []string{"name"}, Op: Greater, Literal: 5.0},
			want: false,
		},
		{
			name: "string literal ordering is false even on numbers",
			pred: Predicate{Steps: []string{"value"}, Op: Greater, Literal: "500"},
			want: false,
		},
		{
			name: "type mismatch on equality is false",
			pred: Predicate{Steps: []string{"name"}, Op: Equal, Literal: 5.0},
			want: false,
		},
		{
			name: "type mismatch on inequality is true",
			pred: Predicate{Steps: []string{"name"}, Op: NotEqual, Literal: 5.0},
			want: true,
		},
		{
			name: "container never equals a scalar literal",
			pred: Predicate{Steps: []string{"nested"}, Op: Equal, Literal: 2.0},
			want: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.pred.Holds(candidate))
		})
	}
}

func TestPredicateHoldsOnScalarCandidate(t *testing.T) {
	t.Parallel()

	// A scalar candidate cannot resolve any relative path.
	pred := Predicate{Steps: []string{"value"}, Op: Equal, Literal: 1.0}
	assert.False(t, pred.Holds(fastjson.MustParse(`42`)))
	assert.False(t, pred.Holds(nil))
}
