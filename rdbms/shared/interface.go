package shared

import (
	"context"
)

// Connector abstracts all access to Go SQL functionality.
type Connector interface {
	// Go SQL entry points:
	BeginTx(ctx context.Context) (Transacter, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error)
	Close() error
	// Transfer functionality:
	GetType() string
	GetDmlGenerator() DmlGenerator
}

// Transacter is the single destination transaction owned by a transfer run.
// Queries issued through it see the rows it has already inserted.
type Transacter interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error)
	Commit() error
	Rollback() error
}

type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Querier is satisfied by both Connector and Transacter.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error)
}

// DmlGenerator creates SQL statements using the bind variable style of the connection.
type DmlGenerator interface {
	NewCountGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator
	NewInsertGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator
	GetBindStyle() BindStyle
}

// SqlStmtGenerator is implemented by the count and insert generators.
// GetColumns returns the columns whose values must be supplied as args, in bind order.
type SqlStmtGenerator interface {
	GetStatement() string
	GetColumns() []string
}

type SqlResultHandler interface {
	HandleHeader(i []interface{}) error
	HandleRow(i []interface{}) error
}
