package shared

import (
	"fmt"
	"strings"

	om "github.com/cevaris/ordered_map"
	"github.com/majormguarde-bit/megre-guard-db/logger"
)

// BindStyle is the bind variable syntax understood by a database driver.
type BindStyle int

const (
	BindQuestionMark BindStyle = iota // ?
	BindDollar                        // $1, $2
	BindAtP                           // @p1, @p2
)

// Placeholder returns the bind variable for the n'th arg, where n starts at 1.
func (b BindStyle) Placeholder(n int) string {
	switch b {
	case BindDollar:
		return fmt.Sprintf("$%v", n)
	case BindAtP:
		return fmt.Sprintf("@p%v", n)
	default:
		return "?"
	}
}

// DmlGeneratorTxt generates plain SQL text with bind variables in the style given.
type DmlGeneratorTxt struct {
	Bind BindStyle
}

func (d *DmlGeneratorTxt) GetBindStyle() BindStyle {
	return d.Bind
}

type SqlStatementGeneratorConfig struct {
	Log             logger.Logger
	OutputSchema    string
	SchemaSeparator string
	OutputTable     string
	TargetKeyCols   *om.OrderedMap // ordered map of: key = record field name; value = target table column name
	TargetOtherCols *om.OrderedMap // ordered map of: key = record field name; value = target table column name
}

type sqlCoreCfg struct {
	sqlStmt string
	colList []string // target table columns in bind order.
	bind    BindStyle
}

func (o *sqlCoreCfg) GetStatement() string {
	return o.sqlStmt
}

func (o *sqlCoreCfg) GetColumns() []string {
	return o.colList
}

// getBindList returns "p1,p2,...pn" for numCols bind variables.
func getBindList(b BindStyle, numCols int) string {
	binds := make([]string, numCols)
	for idx := range binds {
		binds[idx] = b.Placeholder(idx + 1)
	}
	return strings.Join(binds, ",")
}
