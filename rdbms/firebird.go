package rdbms

import (
	"context"
	"database/sql"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
	_ "github.com/nakagami/firebirdsql"
)

// newFirebirdConnection opens the Firebird database connection specified in c.
func newFirebirdConnection(ctx context.Context, log logger.Logger, c shared.ConnectionDetails) (shared.Connector, error) {
	dsn, err := c.GetFirebirdDsn()
	if err != nil {
		return nil, err
	}
	log.Info("Opening Firebird connection: ", c.Redacted())
	conn := &shared.HpConnection{
		Dml:    &shared.DmlGeneratorTxt{Bind: shared.BindQuestionMark},
		DbType: constants.ConnectionTypeFirebird,
	}
	if conn.DbSql, err = sql.Open("firebirdsql", dsn); err != nil {
		return nil, err
	}
	if err = pingConnection(ctx, conn); err != nil {
		return nil, err
	}
	log.Info("Successful database connection to Firebird.")
	return conn, nil
}
