package rdbms

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/IBM/nzgo/v12"
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/lib/pq"
	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
	_ "github.com/snowflakedb/gosnowflake"
)

// dsnBindStyles holds the supported generic DSN connection types and the bind variable style of each driver.
// Firebird, SQLite and Netezza connections are handled explicitly so do not need to be here.
var dsnBindStyles = map[string]shared.BindStyle{
	constants.ConnectionTypeSqlServer: shared.BindAtP,
	constants.ConnectionTypePostgres:  shared.BindDollar,
	constants.ConnectionTypeSnowflake: shared.BindQuestionMark,
}

// Provisioner opens database connections for a transfer run.
// Credentials are applied to any connection that does not carry its own user.
type Provisioner struct {
	Log         logger.Logger
	Credentials shared.Credentials
}

// Open opens and pings the connection described by c.
func (p *Provisioner) Open(ctx context.Context, c shared.ConnectionDetails) (shared.Connector, error) {
	if c.User == "" {
		c.Credentials = p.Credentials
	}
	return OpenDbConnection(ctx, p.Log, c)
}

// OpenDbConnection opens a database connection using the supplied ConnectionDetails struct in c.
func OpenDbConnection(ctx context.Context, log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", c.Type, " with logicalName ", c.LogicalName) // don't log password details in c!
	switch c.Type {
	case constants.ConnectionTypeFirebird:
		db, err = newFirebirdConnection(ctx, log, c)
	case constants.ConnectionTypeSqlite:
		db, err = newSqliteConnection(ctx, log, c)
	case constants.ConnectionTypeNetezza:
		db, err = newNetezzaConnection(ctx, log, &shared.NetezzaConnectionDetails{Dsn: c.Dsn})
	default:
		if _, ok := dsnBindStyles[c.Type]; ok { // if the connection type is supported...
			var d *shared.DsnConnectionDetails
			if d, err = shared.GetDsnConnectionDetails(&c); err != nil {
				return nil, err
			}
			db, err = newConnectionWithDsn(ctx, log, c.Type, d)
		} else { // else we have an unsupported database...
			err = fmt.Errorf("unsupported database type, %q", c.Type)
		}
	}
	return
}

func newConnectionWithDsn(ctx context.Context, log logger.Logger, connType string, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	log.Info("Opening database connection: ", d)
	u, err := d.Parse()
	if err != nil { // if the DSN could not be parsed...
		return nil, err
	}
	conn := &shared.HpConnection{
		Dml:    &shared.DmlGeneratorTxt{Bind: dsnBindStyles[connType]},
		DbType: connType,
	}
	if conn.DbSql, err = sql.Open(u.Driver, u.DSN); err != nil {
		return nil, err
	}
	if err = pingConnection(ctx, conn); err != nil {
		return nil, err
	}
	log.Info("Successful connection to: ", d)
	return conn, nil
}

// pingConnection tests the connection and closes it if the test fails.
func pingConnection(ctx context.Context, conn *shared.HpConnection) error {
	if err := conn.DbSql.PingContext(ctx); err != nil {
		_ = conn.Close()
		return err
	}
	return nil
}
