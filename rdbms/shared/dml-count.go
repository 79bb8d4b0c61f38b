package shared

import (
	"fmt"
	"strings"

	h "github.com/majormguarde-bit/megre-guard-db/helper"
)

// SqlCountTxt generates a statement that counts the rows matching every TargetKeyCols value.
type SqlCountTxt struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlCoreCfg
}

// NewCountGenerator creates a new SqlStmtGenerator for the existence check on TargetKeyCols.
// TargetOtherCols is ignored.
func (d *DmlGeneratorTxt) NewCountGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator {
	mustFixSqlStatementGeneratorConfig(cfg)
	cfg.Log.Debug("Creating NewCountGenerator")
	o := &SqlCountTxt{SqlStatementGeneratorConfig: *cfg, sqlCoreCfg: sqlCoreCfg{bind: d.Bind}}
	o.setupSqlStatement()
	return o
}

func (o *SqlCountTxt) setupSqlStatement() {
	o.colList = h.OrderedMapValuesToStringSlice(o.TargetKeyCols)
	preds := make([]string, len(o.colList))
	for idx, c := range o.colList { // for each key column...
		preds[idx] = fmt.Sprintf("%v = %v", c, o.bind.Placeholder(idx+1))
	}
	o.sqlStmt = `select count(*) from <SCHEMA><SEPARATOR><TABLE> where <PREDICATES>`
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SCHEMA>", o.OutputSchema, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SEPARATOR>", o.SchemaSeparator, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TABLE>", o.OutputTable, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<PREDICATES>", strings.Join(preds, " and "), 1)
	o.Log.Debug("setup COUNT generator with SQL: ", o.sqlStmt)
}
