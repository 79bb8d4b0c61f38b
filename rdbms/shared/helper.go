package shared

import (
	"errors"

	"github.com/majormguarde-bit/megre-guard-db/logger"
)

// FixSqlStatementGeneratorConfig validates cfg and sets the schema separator.
func FixSqlStatementGeneratorConfig(cfg *SqlStatementGeneratorConfig) error {
	if cfg.Log == nil {
		cfg.Log = logger.NewDiscardLogger()
	}
	if cfg.OutputTable == "" {
		return errors.New("missing output table name")
	}
	if cfg.OutputSchema == "" {
		cfg.SchemaSeparator = ""
	} else {
		cfg.SchemaSeparator = "."
	}
	return nil
}

// mustFixSqlStatementGeneratorConfig panics on a missing table since generators are only built after validation.
func mustFixSqlStatementGeneratorConfig(cfg *SqlStatementGeneratorConfig) {
	if err := FixSqlStatementGeneratorConfig(cfg); err != nil {
		cfg.Log.Panic(err)
	}
}
