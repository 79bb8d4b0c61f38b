package shared

import (
	"strings"

	h "github.com/majormguarde-bit/megre-guard-db/helper"
)

// SqlInsertTxt generates a single row INSERT statement.
type SqlInsertTxt struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlCoreCfg
}

// NewInsertGenerator creates a new SqlStmtGenerator that inserts one row into all of
// TargetKeyCols followed by TargetOtherCols.
func (d *DmlGeneratorTxt) NewInsertGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator {
	mustFixSqlStatementGeneratorConfig(cfg)
	cfg.Log.Debug("Creating NewInsertGenerator")
	o := &SqlInsertTxt{SqlStatementGeneratorConfig: *cfg, sqlCoreCfg: sqlCoreCfg{bind: d.Bind}}
	o.setupSqlStatement()
	return o
}

func (o *SqlInsertTxt) setupSqlStatement() {
	// Build the list of column names.
	o.colList = make([]string, 0, o.TargetKeyCols.Len()+o.TargetOtherCols.Len())
	o.colList = append(o.colList, h.OrderedMapValuesToStringSlice(o.TargetKeyCols)...)   // "key" columns.
	o.colList = append(o.colList, h.OrderedMapValuesToStringSlice(o.TargetOtherCols)...) // "other" columns.
	// Populate the SQL template.
	o.sqlStmt = `insert into <SCHEMA><SEPARATOR><TABLE> (<TGT-COLS>) values (<VALUES>)`
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SCHEMA>", o.OutputSchema, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SEPARATOR>", o.SchemaSeparator, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TABLE>", o.OutputTable, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TGT-COLS>", strings.Join(o.colList, ","), 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<VALUES>", getBindList(o.bind, len(o.colList)), 1)
	o.Log.Debug("setup INSERT generator with SQL: ", o.sqlStmt)
}
