package predicate

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokKeyword
	tokString
	tokNumber
	tokOperator
	tokLParen
	tokRParen
	tokComma
)

var keywords = map[string]struct{}{
	"AND": {}, "OR": {}, "NOT": {}, "IS": {}, "NULL": {}, "IN": {}, "BETWEEN": {}, "LIKE": {},
	"TRUE": {}, "FALSE": {}, "CURRENT_DATE": {}, "CURRENT_TIMESTAMP": {},
}

var comparisonOperators = map[string]struct{}{
	"=": {}, "<>": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

type token struct {
	kind tokenKind
	text string // keywords are upper cased; strings are unquoted.
	pos  int
}

// ParseError reports where a condition stopped making sense.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("filter parse error at position %v: %v", e.Pos, e.Msg)
}

func lex(s string) ([]token, error) {
	toks := make([]token, 0)
	r := []rune(s)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case c == '\'':
			start := i
			var b strings.Builder
			i++
			closed := false
			for i < len(r) {
				if r[i] == '\'' {
					if i+1 < len(r) && r[i+1] == '\'' { // escaped quote.
						b.WriteRune('\'')
						i += 2
						continue
					}
					closed = true
					i++
					break
				}
				b.WriteRune(r[i])
				i++
			}
			if !closed {
				return nil, &ParseError{Pos: start, Msg: "unterminated string literal"}
			}
			toks = append(toks, token{kind: tokString, text: b.String(), pos: start})
		case c == '=' || c == '<' || c == '>' || c == '!':
			start := i
			op := string(c)
			if i+1 < len(r) && (r[i+1] == '=' || (c == '<' && r[i+1] == '>')) {
				op += string(r[i+1])
			}
			if _, ok := comparisonOperators[op]; !ok {
				return nil, &ParseError{Pos: start, Msg: fmt.Sprintf("unknown operator %q", op)}
			}
			i += len(op)
			toks = append(toks, token{kind: tokOperator, text: op, pos: start})
		case unicode.IsDigit(c) || ((c == '-' || c == '.') && i+1 < len(r) && unicode.IsDigit(r[i+1])):
			start := i
			i++
			for i < len(r) && (unicode.IsDigit(r[i]) || r[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: string(r[start:i]), pos: start})
		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(r) && (r[i] == '_' || r[i] == '$' || unicode.IsLetter(r[i]) || unicode.IsDigit(r[i])) {
				i++
			}
			word := string(r[start:i])
			upper := strings.ToUpper(word)
			if _, ok := keywords[upper]; ok {
				toks = append(toks, token{kind: tokKeyword, text: upper, pos: start})
			} else {
				toks = append(toks, token{kind: tokIdent, text: word, pos: start})
			}
		default:
			return nil, &ParseError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(r)})
	return toks, nil
}
