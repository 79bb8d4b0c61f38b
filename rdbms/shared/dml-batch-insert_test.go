package shared

import (
	"reflect"
	"testing"

	"github.com/cevaris/ordered_map"
	"github.com/majormguarde-bit/megre-guard-db/logger"
)

func newTestGeneratorConfig() *SqlStatementGeneratorConfig {
	omKeys := ordered_map.NewOrderedMap()
	omKeys.Set("READERID", "READERID")
	omKeys.Set("CARDNUM", "CARDNUM")
	omCols := ordered_map.NewOrderedMap()
	omCols.Set("EVENTSDATE", "EVENTSDATE")
	return &SqlStatementGeneratorConfig{
		Log:             logger.NewDiscardLogger(),
		OutputTable:     "EVENTS",
		TargetKeyCols:   omKeys,
		TargetOtherCols: omCols,
	}
}

func TestSqlInsert(t *testing.T) {
	cases := []struct {
		bind     BindStyle
		expected string
	}{
		{BindQuestionMark, "insert into EVENTS (READERID,CARDNUM,EVENTSDATE) values (?,?,?)"},
		{BindDollar, "insert into EVENTS (READERID,CARDNUM,EVENTSDATE) values ($1,$2,$3)"},
		{BindAtP, "insert into EVENTS (READERID,CARDNUM,EVENTSDATE) values (@p1,@p2,@p3)"},
	}
	for _, c := range cases {
		dml := &DmlGeneratorTxt{Bind: c.bind}
		o := dml.NewInsertGenerator(newTestGeneratorConfig())
		if got := o.GetStatement(); got != c.expected {
			t.Fatalf("Bad SQL INSERT generated: expected = '%v'; got = '%v'", c.expected, got)
		}
		expectedCols := []string{"READERID", "CARDNUM", "EVENTSDATE"}
		if got := o.GetColumns(); !reflect.DeepEqual(got, expectedCols) {
			t.Fatalf("expected columns %v; got %v", expectedCols, got)
		}
	}
}

func TestSqlInsertWithSchema(t *testing.T) {
	cfg := newTestGeneratorConfig()
	cfg.OutputSchema = "main"
	o := (&DmlGeneratorTxt{}).NewInsertGenerator(cfg)
	expected := "insert into main.EVENTS (READERID,CARDNUM,EVENTSDATE) values (?,?,?)"
	if got := o.GetStatement(); got != expected {
		t.Fatalf("expected = '%v'; got = '%v'", expected, got)
	}
}

func TestSqlCount(t *testing.T) {
	cases := []struct {
		bind     BindStyle
		expected string
	}{
		{BindQuestionMark, "select count(*) from EVENTS where READERID = ? and CARDNUM = ?"},
		{BindDollar, "select count(*) from EVENTS where READERID = $1 and CARDNUM = $2"},
		{BindAtP, "select count(*) from EVENTS where READERID = @p1 and CARDNUM = @p2"},
	}
	for _, c := range cases {
		o := (&DmlGeneratorTxt{Bind: c.bind}).NewCountGenerator(newTestGeneratorConfig())
		if got := o.GetStatement(); got != c.expected {
			t.Fatalf("Bad SQL COUNT generated: expected = '%v'; got = '%v'", c.expected, got)
		}
		if got := o.GetColumns(); !reflect.DeepEqual(got, []string{"READERID", "CARDNUM"}) {
			t.Fatalf("unexpected count columns %v", got)
		}
	}
}

func TestFixSqlStatementGeneratorConfig(t *testing.T) {
	cfg := &SqlStatementGeneratorConfig{}
	if err := FixSqlStatementGeneratorConfig(cfg); err == nil {
		t.Fatal("expected error for a missing output table")
	}
	cfg.OutputTable = "T"
	cfg.OutputSchema = "S"
	if err := FixSqlStatementGeneratorConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.SchemaSeparator != "." {
		t.Fatalf("expected separator '.'; got %q", cfg.SchemaSeparator)
	}
}
