package ast

import (
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// CompOp is a comparison operator.
type CompOp uint8

const (
	Equal        CompOp = iota // ==
	NotEqual                   // !=
	Less                       // <
	LessEqual                  // <=
	Greater                    // >
	GreaterEqual               // >=
)

var compOpNames = [...]string{
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
}

// String returns the operator's source text.
func (op CompOp) String() string {
	if int(op) < len(compOpNames) {
		return compOpNames[op]
	}
	return "?"
}

// Predicate is a single filter comparison: a candidate-relative property
// path (@.a.b), an operator, and a literal right operand. Literal holds a
// float64, string, or bool; integer literals are widened to float64 at
// parse time so all numeric comparison happens in one representation.
type Predicate struct {
	Steps   []string
	Op      CompOp
	Literal any
}

// Holds reports whether the predicate is true for candidate. A relative
// path that cannot be resolved (missing key, non-object step) makes the
// predicate false; it never fails.
func (p *Predicate) Holds(candidate *fastjson.Value) bool {
	node := candidate
	for _, step := range p.Steps {
		if node == nil || node.Type() != fastjson.TypeObject {
			return false
		}
		node = node.Get(step)
	}
	if node == nil {
		return false
	}

	switch p.Op {
	case Equal:
		return equalTo(node, p.Literal)
	case NotEqual:
		return !equalTo(node, p.Literal)
	default:
		return ordered(node, p.Op, p.Literal)
	}
}

// equalTo reports whether the resolved node equals the literal by value.
// Equality is defined within a type family only: number against number,
// string against string, bool against bool. Anything else is unequal.
func equalTo(node *fastjson.Value, literal any) bool {
	switch lit := literal.(type) {
	case float64:
		n, err := node.Float64()
		return err == nil && n == lit
	case string:
		s, err := node.StringBytes()
		return err == nil && string(s) == lit
	case bool:
		b, err := node.Bool()
		return err == nil && b == lit
	}
	return false
}

// ordered evaluates <, <=, >, >= with the node on the left. Ordering is
// numeric only; a non-numeric side makes the comparison false.
func ordered(node *fastjson.Value, op CompOp, literal any) bool {
	lit, ok := literal.(float64)
	if !ok {
		return false
	}
	n, err := node.Float64()
	if err != nil {
		return false
	}
	switch op {
	case Less:
		return n < lit
	case LessEqual:
		return n <= lit
	case Greater:
		return n > lit
	case GreaterEqual:
		return n >= lit
	}
	return false
}

// writeTo writes the canonical text of p to buf, e.g. @.price > 10.
func (p *Predicate) writeTo(buf *strings.Builder) {
	buf.WriteByte('@')
	for _, step := range p.Steps {
		buf.WriteByte('.')
		buf.WriteString(step)
	}
	buf.WriteByte(' ')
	buf.WriteString(p.Op.String())
	buf.WriteByte(' ')
	switch lit := p.Literal.(type) {
	case float64:
		buf.WriteString(strconv.FormatFloat(lit, 'f', -1, 64))
	case string:
		buf.WriteString(strconv.Quote(lit))
	case bool:
		buf.WriteString(strconv.FormatBool(lit))
	}
}

// String returns the canonical text of the predicate.
func (p *Predicate) String() string {
	var buf strings.Builder
	p.writeTo(&buf)
	return buf.String()
}
