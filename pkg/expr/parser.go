package expr

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyExpression is returned when the input contains no expression.
var ErrEmptyExpression = errors.New("empty expression")

type tokenKind int

const (
	tokVariable tokenKind = iota
	tokAnd
	tokOr
	tokXor
	tokNot
	tokLParen
	tokRParen
	tokEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokVariable:
		return "variable"
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokXor:
		return "XOR"
	case tokNot:
		return "NOT"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokEOF:
		return "end of input"
	default:
		return "unknown token"
	}
}

type token struct {
	kind  tokenKind
	value string
	pos   int
}

type lexer struct {
	text string
	pos  int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (l *lexer) boundaryAt(i int) bool {
	if i < 0 || i >= len(l.text) {
		return true
	}
	c := l.text[i]
	return isSpace(c) || c == '(' || c == ')'
}

// keywords are recognized only at word boundaries, so variable names
// like ANDREW or ORDER still lex as variables.
var keywords = []struct {
	word string
	kind tokenKind
}{
	{"AND", tokAnd},
	{"XOR", tokXor},
	{"NOT", tokNot},
	{"OR", tokOr},
}

func (l *lexer) next() token {
	for l.pos < len(l.text) && isSpace(l.text[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.text) {
		return token{kind: tokEOF, pos: l.pos}
	}

	start := l.pos
	for _, kw := range keywords {
		end := l.pos + len(kw.word)
		if end <= len(l.text) && l.text[l.pos:end] == kw.word &&
			l.boundaryAt(l.pos-1) && l.boundaryAt(end) {
			l.pos = end
			return token{kind: kw.kind, value: kw.word, pos: start}
		}
	}

	switch l.text[l.pos] {
	case '(':
		l.pos++
		return token{kind: tokLParen, value: "(", pos: start}
	case ')':
		l.pos++
		return token{kind: tokRParen, value: ")", pos: start}
	}

	for l.pos < len(l.text) && !isSpace(l.text[l.pos]) &&
		l.text[l.pos] != '(' && l.text[l.pos] != ')' {
		l.pos++
	}
	return token{kind: tokVariable, value: l.text[start:l.pos], pos: start}
}

type parser struct {
	lex lexer
	cur token
}

func (p *parser) advance() {
	p.cur = p.lex.next()
}

func (p *parser) expect(kind tokenKind) error {
	if p.cur.kind != kind {
		return fmt.Errorf("expected %s but got %s at position %d", kind, p.cur.kind, p.cur.pos)
	}
	p.advance()
	return nil
}

func (p *parser) parsePrimary() (Node, error) {
	switch p.cur.kind {
	case tokVariable:
		n := &Variable{Name: p.cur.value}
		p.advance()
		return n, nil
	case tokLParen:
		p.advance()
		n, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("expected variable or '(' at position %d", p.cur.pos)
	}
}

func (p *parser) parseNot() (Node, error) {
	if p.cur.kind == tokNot {
		p.advance()
		operand, err := p.parseNot() // right-associative
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseXor() (Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokXor {
		p.advance()
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = &Xor{Left: left, Right: right}
	}
	return left, nil
}

// Parse parses a boolean expression string into its AST.
func Parse(input string) (Node, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmptyExpression
	}

	p := parser{lex: lexer{text: trimmed}}
	p.advance()
	root, err := p.parseXor()
	if err != nil {
		return nil, fmt.Errorf("parse expression %q: %w", trimmed, err)
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("parse expression %q: unexpected token after expression at position %d", trimmed, p.cur.pos)
	}
	return root, nil
}

// ParseFile reads an expression from a text file and parses it. Empty
// lines and lines starting with '#' are skipped; the remaining lines
// join with spaces into a single expression.
func ParseFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read expression: %w", err)
	}
	defer f.Close()

	var parts []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts = append(parts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read expression: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no expression found in %s", ErrEmptyExpression, path)
	}
	return Parse(strings.Join(parts, " "))
}
