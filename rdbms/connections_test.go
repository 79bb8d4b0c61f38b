package rdbms

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

func openTestSqlite(t *testing.T) shared.Connector {
	t.Helper()
	p := &Provisioner{Log: logger.NewDiscardLogger()}
	db, err := p.Open(context.Background(), shared.ConnectionDetails{
		Type:        constants.ConnectionTypeSqlite,
		LogicalName: "test",
		Path:        filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	for _, s := range []string{
		"create table events (eventsid integer primary key autoincrement, readerid integer, cardnum text, eventsdate text)",
		"insert into events (readerid, cardnum, eventsdate) values (1, 'A1', '2026-01-02')",
		"insert into events (readerid, cardnum, eventsdate) values (2, 'B2', '2026-01-03')",
		"insert into events (readerid, cardnum, eventsdate) values (3, NULL, '2026-01-04')",
	} {
		if _, err = db.ExecContext(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestOpenDbConnection_Unsupported(t *testing.T) {
	_, err := OpenDbConnection(context.Background(), logger.NewDiscardLogger(), shared.ConnectionDetails{Type: "oracle"})
	if err == nil {
		t.Fatal("expected error for an unsupported database type")
	}
	_, err = OpenDbConnection(context.Background(), logger.NewDiscardLogger(), shared.ConnectionDetails{Type: constants.ConnectionTypeSqlite})
	if err == nil {
		t.Fatal("expected error for a sqlite connection without a path")
	}
}

func TestOpenDbConnection_Sqlite(t *testing.T) {
	db := openTestSqlite(t)
	if db.GetType() != constants.ConnectionTypeSqlite {
		t.Fatalf("unexpected connection type %q", db.GetType())
	}
	if db.GetDmlGenerator().GetBindStyle() != shared.BindQuestionMark {
		t.Fatal("expected ? bind style for sqlite")
	}
}

func TestGetTableColumns(t *testing.T) {
	db := openTestSqlite(t)
	got, err := GetTableColumns(context.Background(), db, SchemaTable{SchemaTable: "EVENTS"})
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"EVENTSID", "READERID", "CARDNUM", "EVENTSDATE"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	if _, err = GetTableColumns(context.Background(), db, SchemaTable{SchemaTable: "MISSING"}); err == nil {
		t.Fatal("expected error for a missing table")
	}
}

func TestFetchRecords(t *testing.T) {
	db := openTestSqlite(t)
	recs, err := FetchRecords(context.Background(), logger.NewDiscardLogger(), db,
		"select readerid, cardnum from events where readerid >= ? order by readerid", []interface{}{2})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records; got %v", len(recs))
	}
	if !reflect.DeepEqual(recs[0].GetFieldNames(), []string{"READERID", "CARDNUM"}) {
		t.Fatalf("unexpected field names %v", recs[0].GetFieldNames())
	}
	if v := recs[0].GetData("READERID"); v != int64(2) {
		t.Fatalf("expected READERID 2; got %v (%T)", v, v)
	}
	if v := recs[1].GetData("CARDNUM"); v != nil {
		t.Fatalf("expected NULL CARDNUM; got %v", v)
	}
}

func TestFetchRecords_Cancelled(t *testing.T) {
	db := openTestSqlite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FetchRecords(ctx, logger.NewDiscardLogger(), db, "select * from events", nil); err == nil {
		t.Fatal("expected error with a cancelled context")
	}
}

func TestQueryCount(t *testing.T) {
	db := openTestSqlite(t)
	ctx := context.Background()
	tx, err := db.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback() }()
	n, err := QueryCount(ctx, tx, "select count(*) from events where readerid = ? and cardnum = ?", []interface{}{1, "A1"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected count 1; got %v", n)
	}
	// Rows inserted by the transaction are visible to its own count.
	if _, err = tx.ExecContext(ctx, "insert into events (readerid, cardnum) values (?, ?)", 9, "Z9"); err != nil {
		t.Fatal(err)
	}
	if n, err = QueryCount(ctx, tx, "select count(*) from events where readerid = ?", []interface{}{9}); err != nil || n != 1 {
		t.Fatalf("expected count 1 inside the transaction; got %v, err %v", n, err)
	}
}
