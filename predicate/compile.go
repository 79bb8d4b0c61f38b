package predicate

import (
	"fmt"
	"strings"

	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

// UnknownColumnError is returned when a condition names a column that is not in the allow-list.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q in filter", e.Column)
}

type compiler struct {
	columns map[string]struct{}
	bind    shared.BindStyle
	sql     strings.Builder
	args    []interface{}
}

// Compile renders e as SQL using bind variables of style bind.
// Every column must be one of columns (case insensitive); columns are emitted upper cased.
// A nil Expr gives empty SQL and no args.
func Compile(e Expr, columns []string, bind shared.BindStyle) (string, []interface{}, error) {
	if e == nil {
		return "", nil, nil
	}
	c := &compiler{
		columns: make(map[string]struct{}, len(columns)),
		bind:    bind,
		args:    make([]interface{}, 0),
	}
	for _, col := range columns {
		c.columns[strings.ToUpper(col)] = struct{}{}
	}
	if err := e.compile(c); err != nil {
		return "", nil, err
	}
	return c.sql.String(), c.args, nil
}

// ParseAndCompile is Parse followed by Compile.
func ParseAndCompile(condition string, columns []string, bind shared.BindStyle) (string, []interface{}, error) {
	e, err := Parse(condition)
	if err != nil {
		return "", nil, err
	}
	return Compile(e, columns, bind)
}

func (c *compiler) column(name string) error {
	upper := strings.ToUpper(name)
	if _, ok := c.columns[upper]; !ok {
		return &UnknownColumnError{Column: name}
	}
	c.sql.WriteString(upper)
	return nil
}

func (c *compiler) literal(l literal) {
	if l.keyword != "" {
		c.sql.WriteString(l.keyword)
		return
	}
	c.args = append(c.args, l.value)
	c.sql.WriteString(c.bind.Placeholder(len(c.args)))
}

func (c *compiler) not(not bool) {
	if not {
		c.sql.WriteString(" NOT")
	}
}

func (e *logicalExpr) compile(c *compiler) error {
	c.sql.WriteString("(")
	if err := e.left.compile(c); err != nil {
		return err
	}
	c.sql.WriteString(" " + e.op + " ")
	if err := e.right.compile(c); err != nil {
		return err
	}
	c.sql.WriteString(")")
	return nil
}

func (e *notExpr) compile(c *compiler) error {
	c.sql.WriteString("NOT (")
	if err := e.x.compile(c); err != nil {
		return err
	}
	c.sql.WriteString(")")
	return nil
}

func (e *comparisonExpr) compile(c *compiler) error {
	if err := c.column(e.col); err != nil {
		return err
	}
	op := e.op
	if op == "!=" {
		op = "<>"
	}
	c.sql.WriteString(" " + op + " ")
	if e.right.ident != "" {
		return c.column(e.right.ident)
	}
	c.literal(e.right.lit)
	return nil
}

func (e *isNullExpr) compile(c *compiler) error {
	if err := c.column(e.col); err != nil {
		return err
	}
	c.sql.WriteString(" IS")
	c.not(e.not)
	c.sql.WriteString(" NULL")
	return nil
}

func (e *inExpr) compile(c *compiler) error {
	if err := c.column(e.col); err != nil {
		return err
	}
	c.not(e.not)
	c.sql.WriteString(" IN (")
	for idx, v := range e.values {
		if idx > 0 {
			c.sql.WriteString(", ")
		}
		c.literal(v)
	}
	c.sql.WriteString(")")
	return nil
}

func (e *betweenExpr) compile(c *compiler) error {
	if err := c.column(e.col); err != nil {
		return err
	}
	c.not(e.not)
	c.sql.WriteString(" BETWEEN ")
	c.literal(e.lo)
	c.sql.WriteString(" AND ")
	c.literal(e.hi)
	return nil
}

func (e *likeExpr) compile(c *compiler) error {
	if err := c.column(e.col); err != nil {
		return err
	}
	c.not(e.not)
	c.sql.WriteString(" LIKE ")
	c.literal(e.pattern)
	return nil
}
