package rdbms

import (
	"context"
	"fmt"

	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
	"github.com/majormguarde-bit/megre-guard-db/stream"
)

// SqlQuery executes sqltext with args and sends the header and every row to the handler i.
// It stops early with ctx.Err() if ctx is cancelled.
func SqlQuery(ctx context.Context, log logger.Logger, db shared.Querier, sqltext string, args []interface{}, i shared.SqlResultHandler) error {
	rows, err := db.QueryContext(ctx, sqltext, args...)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	// Set up column types for Scan(...)
	log.Debug("fetching column types...")
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("error fetching columns for SQL: '%v': %w", sqltext, err)
	}
	// Scan the values dynamically.
	lenCols := len(cols)
	scanPtrs := make([]interface{}, lenCols)
	scanVals := make([]interface{}, lenCols)
	for idx := 0; idx < lenCols; idx++ { // for each column...
		scanPtrs[idx] = &scanVals[idx]
	}
	// Build and send the header.
	header := make([]interface{}, lenCols)
	for idx := range cols {
		header[idx] = cols[idx]
	}
	if err = i.HandleHeader(header); err != nil {
		return err
	}
	// Send the rows via callback interface.
	for rows.Next() {
		if err = ctx.Err(); err != nil { // quit if asked to...
			return err
		}
		if err = rows.Scan(scanPtrs...); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		// Make a new row.
		row := make([]interface{}, lenCols)
		for idx := range scanVals { // for each value...
			row[idx] = copyScanValue(scanVals[idx])
		}
		if err = i.HandleRow(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// copyScanValue copies driver owned byte slices, which are only valid until the next Scan.
func copyScanValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		c := make([]byte, len(b))
		copy(c, b)
		return c
	}
	return v
}

// recordCollector implements shared.SqlResultHandler and saves each row as a stream.Record.
type recordCollector struct {
	cols    []string
	records []stream.Record
}

func (c *recordCollector) HandleHeader(i []interface{}) error {
	c.cols = make([]string, len(i))
	for idx, v := range i {
		c.cols[idx] = fmt.Sprintf("%v", v)
	}
	return nil
}

func (c *recordCollector) HandleRow(i []interface{}) error {
	r, err := stream.NewRecordFromRow(c.cols, i)
	if err != nil {
		return err
	}
	c.records = append(c.records, r)
	return nil
}

// FetchRecords executes sqltext and returns all rows, in result order, with upper cased column names.
func FetchRecords(ctx context.Context, log logger.Logger, db shared.Querier, sqltext string, args []interface{}) ([]stream.Record, error) {
	c := &recordCollector{records: make([]stream.Record, 0)}
	if err := SqlQuery(ctx, log, db, sqltext, args, c); err != nil {
		return nil, err
	}
	log.Debug("fetched ", len(c.records), " rows")
	return c.records, nil
}

// GetTableColumns returns the upper cased column names of table st in table order.
// No rows are fetched.
func GetTableColumns(ctx context.Context, db shared.Querier, st SchemaTable) ([]string, error) {
	sqltext := fmt.Sprintf("select * from %v where 1=0", st.String())
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return nil, fmt.Errorf("error reading columns of table %v: %w", st.String(), err)
	}
	defer func() {
		_ = rows.Close()
	}()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading columns of table %v: %w", st.String(), err)
	}
	retval := make([]string, len(cols))
	for idx, c := range cols {
		retval[idx] = toUpper(c)
	}
	return retval, nil
}

// QueryCount executes a select count(*) statement and returns the single value.
func QueryCount(ctx context.Context, db shared.Querier, sqltext string, args []interface{}) (int64, error) {
	rows, err := db.QueryContext(ctx, sqltext, args...)
	if err != nil {
		return 0, fmt.Errorf("error during count using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var count int64
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("no row returned by count using SQL: '%v'", sqltext)
	}
	if err = rows.Scan(&count); err != nil {
		return 0, fmt.Errorf("error scanning count: %w", err)
	}
	return count, nil
}
