package predicate

import (
	"fmt"
	"strconv"
	"strings"
)

const maxDepth = 64

// Expr is a parsed boolean condition.
type Expr interface {
	compile(c *compiler) error
}

type logicalExpr struct {
	op          string // AND or OR
	left, right Expr
}

type notExpr struct {
	x Expr
}

type comparisonExpr struct {
	col   string
	op    string
	right operand
}

type isNullExpr struct {
	col string
	not bool
}

type inExpr struct {
	col    string
	not    bool
	values []literal
}

type betweenExpr struct {
	col    string
	not    bool
	lo, hi literal
}

type likeExpr struct {
	col     string
	not     bool
	pattern literal
}

type operand struct {
	ident string // set when the operand is a column.
	lit   literal
}

type literal struct {
	value   interface{} // bind argument.
	keyword string      // CURRENT_DATE or CURRENT_TIMESTAMP, emitted as is.
}

type parser struct {
	toks  []token
	pos   int
	depth int
}

// Parse parses condition into an Expr.
// An empty or blank condition returns a nil Expr and no error.
func Parse(condition string) (Expr, error) {
	if strings.TrimSpace(condition) == "" {
		return nil, nil
	}
	toks, err := lex(condition)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return e, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokKeyword && t.text == kw
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		t := p.peek()
		return p.errorf(t, "expected %v", kw)
	}
	return nil
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	if t.kind == tokEOF {
		return &ParseError{Pos: t.pos, Msg: fmt.Sprintf(format, args...) + " at end of condition"}
	}
	return &ParseError{Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf(p.peek(), "condition is nested too deeply")
	}
	return nil
}

func (p *parser) parseOr() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("OR") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalExpr{op: "OR", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("AND") {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &logicalExpr{op: "AND", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.acceptKeyword("NOT") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer func() { p.depth-- }()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notExpr{x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	if t.kind == tokLParen {
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if t = p.next(); t.kind != tokRParen {
			return nil, p.errorf(t, "expected ')'")
		}
		return e, nil
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (Expr, error) {
	t := p.next()
	if t.kind != tokIdent {
		return nil, p.errorf(t, "expected a column name but found %q", t.text)
	}
	col := t.text
	// ident cmp operand
	if op := p.peek(); op.kind == tokOperator {
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &comparisonExpr{col: col, op: op.text, right: right}, nil
	}
	// ident IS [NOT] NULL
	if p.acceptKeyword("IS") {
		not := p.acceptKeyword("NOT")
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return &isNullExpr{col: col, not: not}, nil
	}
	not := p.acceptKeyword("NOT")
	switch {
	case p.acceptKeyword("IN"):
		if t = p.next(); t.kind != tokLParen {
			return nil, p.errorf(t, "expected '(' after IN")
		}
		values := make([]literal, 0)
		for {
			l, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			values = append(values, l)
			t = p.next()
			if t.kind == tokRParen {
				break
			}
			if t.kind != tokComma {
				return nil, p.errorf(t, "expected ',' or ')' in IN list")
			}
		}
		return &inExpr{col: col, not: not, values: values}, nil
	case p.acceptKeyword("BETWEEN"):
		lo, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if err = p.expectKeyword("AND"); err != nil {
			return nil, err
		}
		hi, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &betweenExpr{col: col, not: not, lo: lo, hi: hi}, nil
	case p.acceptKeyword("LIKE"):
		pattern, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &likeExpr{col: col, not: not, pattern: pattern}, nil
	}
	t = p.peek()
	return nil, p.errorf(t, "expected a comparison after column %q", col)
}

func (p *parser) parseOperand() (operand, error) {
	if t := p.peek(); t.kind == tokIdent {
		p.next()
		return operand{ident: t.text}, nil
	}
	l, err := p.parseLiteral()
	return operand{lit: l}, err
}

func (p *parser) parseLiteral() (literal, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return literal{value: t.text}, nil
	case tokNumber:
		if i, err := strconv.ParseInt(t.text, 10, 64); err == nil {
			return literal{value: i}, nil
		}
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return literal{}, p.errorf(t, "bad number %q", t.text)
		}
		return literal{value: f}, nil
	case tokKeyword:
		switch t.text {
		case "TRUE":
			return literal{value: true}, nil
		case "FALSE":
			return literal{value: false}, nil
		case "CURRENT_DATE", "CURRENT_TIMESTAMP":
			return literal{keyword: t.text}, nil
		}
	}
	return literal{}, p.errorf(t, "expected a literal value but found %q", t.text)
}
