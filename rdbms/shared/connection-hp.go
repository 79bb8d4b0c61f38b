package shared

import (
	"context"
	"database/sql"
	"errors"
)

// HpConnection is a wrapper around Go native sql.DB.
// It also adds the DmlGenerator interface for use by the transfer engine.
type HpConnection struct {
	DbSql  *sql.DB
	Dml    DmlGenerator
	DbType string
}

// Connector:

func (c *HpConnection) BeginTx(ctx context.Context) (Transacter, error) {
	if c.DbSql == nil {
		return nil, errors.New("HpConnection was not configured correctly: DbSql is missing")
	}
	tx, err := c.DbSql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &HpTx{txSql: tx}, nil
}

func (c *HpConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return c.DbSql.ExecContext(ctx, query, args...)
}

func (c *HpConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error) {
	r, err := c.DbSql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &HpRows{rowsSql: r}, nil
}

func (c *HpConnection) Close() error {
	if c.DbSql == nil {
		return nil
	}
	return c.DbSql.Close()
}

func (c *HpConnection) GetDmlGenerator() DmlGenerator {
	return c.Dml
}

func (c *HpConnection) GetType() string {
	return c.DbType
}

// Transacter:

type HpTx struct {
	txSql *sql.Tx
}

func (t *HpTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return t.txSql.ExecContext(ctx, query, args...)
}

func (t *HpTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error) {
	r, err := t.txSql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &HpRows{rowsSql: r}, nil
}

func (t *HpTx) Commit() error {
	return t.txSql.Commit()
}

func (t *HpTx) Rollback() error {
	return t.txSql.Rollback()
}

// Rows:

type HpRows struct {
	rowsSql *sql.Rows
}

func (r *HpRows) Close() error {
	return r.rowsSql.Close()
}

func (r *HpRows) Columns() ([]string, error) {
	return r.rowsSql.Columns()
}

func (r *HpRows) Err() error {
	return r.rowsSql.Err()
}

func (r *HpRows) Next() bool {
	return r.rowsSql.Next()
}

func (r *HpRows) Scan(dest ...interface{}) error {
	return r.rowsSql.Scan(dest...)
}
