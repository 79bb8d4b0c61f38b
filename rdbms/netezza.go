package rdbms

import (
	"context"
	"database/sql"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

// newNetezzaConnection opens the Netezza database connection specified in d.
func newNetezzaConnection(ctx context.Context, log logger.Logger, d *shared.NetezzaConnectionDetails) (shared.Connector, error) {
	conn := &shared.HpConnection{
		Dml:    &shared.DmlGeneratorTxt{Bind: shared.BindDollar},
		DbType: constants.ConnectionTypeNetezza,
	}
	var err error
	var dsn string
	if dsn, err = d.GetNzgoConnectionString(); err != nil {
		return nil, err
	}
	log.Info("Opening Netezza connection: ", d)
	if conn.DbSql, err = sql.Open("nzgo", dsn); err != nil {
		return nil, err
	}
	if err = pingConnection(ctx, conn); err != nil {
		return nil, err
	}
	log.Info("Successful database connection to Netezza.")
	return conn, nil
}
