package predicate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

var testColumns = []string{"EVENTSID", "READERID", "EVENTSCODE", "EVENTSDATE", "CARDNUM"}

func TestCompile(t *testing.T) {
	cases := []struct {
		condition    string
		expectedSql  string
		expectedArgs []interface{}
	}{
		{"", "", nil},
		{"   ", "", nil},
		{"EVENTSDATE >= '01.01.2026'", "EVENTSDATE >= ?", []interface{}{"01.01.2026"}},
		{"eventsdate >= '01.01.2026' and readerid = 5", "(EVENTSDATE >= ? AND READERID = ?)", []interface{}{"01.01.2026", int64(5)}},
		{"READERID = 1 OR READERID = 2 AND CARDNUM = 'x'", "(READERID = ? OR (READERID = ? AND CARDNUM = ?))", []interface{}{int64(1), int64(2), "x"}},
		{"(READERID = 1 OR READERID = 2) AND NOT CARDNUM IS NULL", "((READERID = ? OR READERID = ?) AND NOT (CARDNUM IS NULL))", []interface{}{int64(1), int64(2)}},
		{"CARDNUM IS NOT NULL", "CARDNUM IS NOT NULL", []interface{}{}},
		{"READERID in (1, 2, 3)", "READERID IN (?, ?, ?)", []interface{}{int64(1), int64(2), int64(3)}},
		{"READERID NOT IN (-1)", "READERID NOT IN (?)", []interface{}{int64(-1)}},
		{"EVENTSCODE between 1.5 and 10", "EVENTSCODE BETWEEN ? AND ?", []interface{}{1.5, int64(10)}},
		{"CARDNUM not like 'AB%'", "CARDNUM NOT LIKE ?", []interface{}{"AB%"}},
		{"EVENTSDATE < CURRENT_TIMESTAMP", "EVENTSDATE < CURRENT_TIMESTAMP", []interface{}{}},
		{"READERID != EVENTSCODE", "READERID <> EVENTSCODE", []interface{}{}},
		{"CARDNUM = 'O''Brien'", "CARDNUM = ?", []interface{}{"O'Brien"}},
		{"CARDNUM = 'x; drop table EVENTS --'", "CARDNUM = ?", []interface{}{"x; drop table EVENTS --"}},
	}
	for _, c := range cases {
		gotSql, gotArgs, err := ParseAndCompile(c.condition, testColumns, shared.BindQuestionMark)
		if err != nil {
			t.Fatalf("condition %q: unexpected error: %v", c.condition, err)
		}
		if gotSql != c.expectedSql {
			t.Fatalf("condition %q: expected SQL %q; got %q", c.condition, c.expectedSql, gotSql)
		}
		if len(c.expectedArgs) == 0 && len(gotArgs) == 0 {
			continue
		}
		if !reflect.DeepEqual(gotArgs, c.expectedArgs) {
			t.Fatalf("condition %q: expected args %v; got %v", c.condition, c.expectedArgs, gotArgs)
		}
	}
}

func TestCompile_BindStyles(t *testing.T) {
	condition := "READERID = 1 AND CARDNUM IN ('a', 'b')"
	sql, _, err := ParseAndCompile(condition, testColumns, shared.BindDollar)
	if err != nil {
		t.Fatal(err)
	}
	if expected := "(READERID = $1 AND CARDNUM IN ($2, $3))"; sql != expected {
		t.Fatalf("expected %q; got %q", expected, sql)
	}
	sql, _, err = ParseAndCompile(condition, testColumns, shared.BindAtP)
	if err != nil {
		t.Fatal(err)
	}
	if expected := "(READERID = @p1 AND CARDNUM IN (@p2, @p3))"; sql != expected {
		t.Fatalf("expected %q; got %q", expected, sql)
	}
}

func TestParse_Rejects(t *testing.T) {
	bad := []string{
		"READERID = 1; DROP TABLE EVENTS",
		"READERID = 1 --",
		"READERID = 1 /* x */",
		"READERID = 'unterminated",
		"READERID",
		"READERID =",
		"= 1",
		"READERID = 1 AND",
		"(READERID = 1",
		"READERID == 1",
		"READERID IN ()",
		"READERID IN (1 2)",
		"READERID BETWEEN 1",
		"READERID IS 1",
		"1 = 1",
		"READERID = 1 READERID = 2",
		"READERID = (SELECT 1)",
		"READERID = NULL",
	}
	for _, s := range bad {
		_, err := Parse(s)
		if err == nil {
			t.Fatalf("expected parse error for %q", s)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected *ParseError for %q; got %T", s, err)
		}
	}
}

func TestParse_TooDeep(t *testing.T) {
	s := ""
	for i := 0; i < 100; i++ {
		s += "("
	}
	s += "READERID = 1"
	for i := 0; i < 100; i++ {
		s += ")"
	}
	if _, err := Parse(s); err == nil {
		t.Fatal("expected error for a deeply nested condition")
	}
	s = ""
	for i := 0; i < 100; i++ {
		s += "NOT "
	}
	if _, err := Parse(s + "READERID = 1"); err == nil {
		t.Fatal("expected error for deeply nested NOT")
	}
}

func TestCompile_UnknownColumn(t *testing.T) {
	for _, s := range []string{"PASSWORD = 'x'", "READERID = SECRET", "READERID = 1 OR BADCOL IS NULL"} {
		_, _, err := ParseAndCompile(s, testColumns, shared.BindQuestionMark)
		var uc *UnknownColumnError
		if !errors.As(err, &uc) {
			t.Fatalf("expected *UnknownColumnError for %q; got %v", s, err)
		}
	}
}
