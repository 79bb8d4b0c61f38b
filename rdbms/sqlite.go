package rdbms

import (
	"context"
	"database/sql"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
	_ "modernc.org/sqlite"
)

// newSqliteConnection opens the SQLite database file given by the connection path.
func newSqliteConnection(ctx context.Context, log logger.Logger, c shared.ConnectionDetails) (shared.Connector, error) {
	dsn, err := c.GetSqliteDsn()
	if err != nil {
		return nil, err
	}
	log.Info("Opening SQLite database: ", dsn)
	conn := &shared.HpConnection{
		Dml:    &shared.DmlGeneratorTxt{Bind: shared.BindQuestionMark},
		DbType: constants.ConnectionTypeSqlite,
	}
	if conn.DbSql, err = sql.Open("sqlite", dsn); err != nil {
		return nil, err
	}
	// One connection only, so a ":memory:" database lives as long as the Connector.
	conn.DbSql.SetMaxOpenConns(1)
	if err = pingConnection(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}
