// Package parser provides a recursive descent parser for treequery path
// expressions. It consumes tokens from the lexer and produces the segment
// sequence evaluated by the root package.
package parser

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/agentable/treequery/internal/ast"
	"github.com/agentable/treequery/internal/lexer"
)

// SyntaxError describes a path expression rejected by the lexer or parser.
// Pos is the byte offset of the offending token, or -1 when the problem is
// at the end of the input.
type SyntaxError struct {
	Pos    int
	Reason string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%s at end of input", e.Reason)
	}
	return fmt.Sprintf("%s at position %d", e.Reason, e.Pos)
}

// Parser parses one path expression into a segment sequence.
type Parser struct {
	src    string
	tokens []lexer.Token
	pos    int
}

// New lexes src and creates a Parser for it. Lex errors surface here as
// a [SyntaxError].
func New(src string) (*Parser, error) {
	lex := lexer.New(src)
	tokens := make([]lexer.Token, 0, len(src)/3+1)
	for {
		tok := lex.Scan()
		tokens = append(tokens, tok)
		if tok.Kind == lexer.EOF || tok.Kind == lexer.Invalid {
			break
		}
	}

	if last := tokens[len(tokens)-1]; last.Kind == lexer.Invalid {
		return nil, &SyntaxError{Pos: last.Start, Reason: last.Value}
	}

	return &Parser{src: src, tokens: tokens}, nil
}

// Parse parses the full expression. The grammar is total: every input
// either produces a segment sequence or a location-bearing [SyntaxError].
func (p *Parser) Parse() ([]ast.Segment, error) {
	if !p.match(lexer.Dollar) {
		return nil, p.errorAt(p.peek(), "path must start with '$'")
	}

	var segments []ast.Segment
	for !p.isAtEnd() {
		switch {
		case p.match(lexer.Dot):
			seg, err := p.parseDotStep()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		case p.match(lexer.DotDot):
			// Recursive descent is always paired with the property that
			// follows it.
			seg, err := p.parseDescentStep()
			if err != nil {
				return nil, err
			}
			segments = append(segments, ast.RecursiveDescentSegment(), seg)
		case p.match(lexer.LeftBracket):
			seg, err := p.parseBracketStep(p.previous())
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		default:
			return nil, p.errorAt(p.peek(), fmt.Sprintf("unexpected %s", p.peek().Kind))
		}
	}

	return segments, nil
}

// parseDotStep parses the remainder of ".name" or ".*".
func (p *Parser) parseDotStep() (ast.Segment, error) {
	if p.match(lexer.Star) {
		return ast.WildcardSegment(), nil
	}
	if p.checkName() {
		return ast.PropertySegment(p.advance().Val(p.src)), nil
	}
	return ast.Segment{}, p.errorAt(p.peek(), "expected identifier or '*' after '.'")
}

// parseDescentStep parses the property following "..".
func (p *Parser) parseDescentStep() (ast.Segment, error) {
	if p.checkName() {
		return ast.PropertySegment(p.advance().Val(p.src)), nil
	}
	return ast.Segment{}, p.errorAt(p.peek(), "expected identifier after '..'")
}

// parseBracketStep parses the remainder of "[i]", "[*]", or "[?( pred )]".
// open is the already-consumed '[' token, reported when the bracket is
// never closed.
func (p *Parser) parseBracketStep(open lexer.Token) (ast.Segment, error) {
	if p.isAtEnd() {
		return ast.Segment{}, p.unclosed(open)
	}

	var seg ast.Segment
	switch {
	case p.check(lexer.Int):
		tok := p.advance()
		raw := tok.Val(p.src)
		if raw[0] == '-' {
			return ast.Segment{}, p.errorAt(tok, "negative array indices are not supported")
		}
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return ast.Segment{}, p.errorAt(tok, "array index out of range")
		}
		seg = ast.IndexSegment(idx)
	case p.check(lexer.Number):
		return ast.Segment{}, p.errorAt(p.peek(), "array index must be an integer")
	case p.match(lexer.Star):
		seg = ast.WildcardSegment()
	case p.match(lexer.Question):
		if !p.match(lexer.LeftParen) {
			return ast.Segment{}, p.errorAt(p.peek(), "expected '(' after '?'")
		}
		pred, err := p.parsePredicate()
		if err != nil {
			return ast.Segment{}, err
		}
		if !p.match(lexer.RightParen) {
			if p.isAtEnd() {
				return ast.Segment{}, p.unclosed(open)
			}
			return ast.Segment{}, p.errorAt(p.peek(), "expected ')'")
		}
		seg = ast.FilterSegment(pred)
	default:
		return ast.Segment{}, p.errorAt(p.peek(), "expected index, '*', or filter after '['")
	}

	if !p.match(lexer.RightBracket) {
		if p.isAtEnd() {
			return ast.Segment{}, p.unclosed(open)
		}
		return ast.Segment{}, p.errorAt(p.peek(), "expected ']'")
	}
	return seg, nil
}

// parsePredicate parses a filter comparison:
//
//	"@" ("." ident)+ cmp-op literal
func (p *Parser) parsePredicate() (*ast.Predicate, error) {
	if !p.match(lexer.At) {
		return nil, p.errorAt(p.peek(), "filter must start with '@'")
	}

	var steps []string
	for p.match(lexer.Dot) {
		if !p.checkName() {
			return nil, p.errorAt(p.peek(), "expected identifier after '.'")
		}
		steps = append(steps, p.advance().Val(p.src))
	}
	if len(steps) == 0 {
		return nil, p.errorAt(p.peek(), "expected '.' after '@'")
	}

	if !p.peek().Kind.IsComparison() {
		return nil, p.errorAt(p.peek(), "expected comparison operator")
	}
	op := compOp(p.advance().Kind)

	literal, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}

	return &ast.Predicate{Steps: steps, Op: op, Literal: literal}, nil
}

// parseLiteral parses the right operand of a comparison: a number, quoted
// string, or boolean. Numbers always become float64 so the evaluator
// compares in a single numeric representation.
func (p *Parser) parseLiteral() (any, error) {
	switch {
	case p.check(lexer.Int), p.check(lexer.Number):
		tok := p.advance()
		n, err := strconv.ParseFloat(tok.Val(p.src), 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid number literal")
		}
		return n, nil
	case p.check(lexer.String):
		return p.advance().Value, nil
	case p.match(lexer.True):
		return true, nil
	case p.match(lexer.False):
		return false, nil
	}
	return nil, p.errorAt(p.peek(), "expected number, string, or boolean literal")
}

// compOp maps a comparison token kind to its ast operator.
func compOp(kind lexer.Kind) ast.CompOp {
	switch kind {
	case lexer.NotEqual:
		return ast.NotEqual
	case lexer.Less:
		return ast.Less
	case lexer.LessEqual:
		return ast.LessEqual
	case lexer.Greater:
		return ast.Greater
	case lexer.GreaterEqual:
		return ast.GreaterEqual
	default:
		return ast.Equal
	}
}

// Token navigation helpers

func (p *Parser) match(kinds ...lexer.Kind) bool {
	if slices.ContainsFunc(kinds, p.check) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(kind lexer.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

// checkName reports whether the current token can serve as a property name.
// The keywords true and false are ordinary names outside literal position.
func (p *Parser) checkName() bool {
	return p.check(lexer.Ident) || p.check(lexer.True) || p.check(lexer.False)
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.tokens) || p.peek().Kind == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Kind: lexer.EOF}
}

func (p *Parser) previous() lexer.Token {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		return p.tokens[p.pos-1]
	}
	return lexer.Token{Kind: lexer.Invalid}
}

// errorAt builds a [SyntaxError] located at tok.
func (p *Parser) errorAt(tok lexer.Token, reason string) error {
	pos := tok.Start
	if tok.Kind == lexer.EOF {
		pos = -1
	}
	return &SyntaxError{Pos: pos, Reason: reason}
}

// unclosed reports a bracket opened at open that never found its ']'.
func (p *Parser) unclosed(open lexer.Token) error {
	return &SyntaxError{Pos: open.Start, Reason: "Unclosed bracket"}
}
