package helper

import (
	"reflect"
	"testing"
	"time"
)

func TestCsvToStringSliceTrimSpaces(t *testing.T) {
	// Test 1 - the default check columns.
	got := CsvToStringSliceTrimSpaces("READERID, EVENTSCODE, EVENTSDATE, CARDNUM")
	expected := []string{"READERID", "EVENTSCODE", "EVENTSDATE", "CARDNUM"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	// Test 2 - blanks are dropped.
	got = CsvToStringSliceTrimSpaces(" , a,, b ,")
	expected = []string{"a", "b"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	// Test 3 - empty input gives an empty, non-nil slice.
	got = CsvToStringSliceTrimSpaces("   ")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice; got %v", got)
	}
}

func TestOrderedMapValuesToStringSlice(t *testing.T) {
	m := StringSliceToOrderedMap([]string{"C", "A", "B"})
	got := OrderedMapValuesToStringSlice(m)
	expected := []string{"C", "A", "B"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected insertion order %v; got %v", expected, got)
	}
}

func TestGetStringFromInterface(t *testing.T) {
	ts := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		in       interface{}
		expected string
	}{
		{int64(42), "42"},
		{1.5, "1.5"},
		{"x", "x"},
		{[]byte("raw"), "raw"},
		{nil, ""},
		{true, "true"},
		{ts, "20260101T100000+0000"},
	}
	for _, c := range cases {
		if got := GetStringFromInterface(c.in, true); got != c.expected {
			t.Fatalf("input %v: expected %q; got %q", c.in, c.expected, got)
		}
	}
}

func TestValidateStructIsPopulated(t *testing.T) {
	type inner struct {
		Host string `errorTxt:"host" mandatory:"yes"`
	}
	type outer struct {
		Table   string   `errorTxt:"table" mandatory:"yes"`
		Columns []string `errorTxt:"columns" mandatory:"yes"`
		Filter  string
		Src     inner
	}
	err := ValidateStructIsPopulated(&outer{})
	if err == nil {
		t.Fatal("expected an error for an empty struct")
	}
	expected := "please supply values for table, columns, host"
	if err.Error() != expected {
		t.Fatalf("expected %q; got %q", expected, err.Error())
	}
	err = ValidateStructIsPopulated(outer{Table: "T", Columns: []string{"A"}, Src: inner{Host: "h"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFlagNameToEnvVar(t *testing.T) {
	if got := FlagNameToEnvVar("src-host"); got != "MGDB_SRC_HOST" {
		t.Fatalf("unexpected env var name %q", got)
	}
}

func TestSplitRight(t *testing.T) {
	l, r := SplitRight("user/pa@ss@//host:5480/db", "@")
	if l != "user/pa@ss" || r != "//host:5480/db" {
		t.Fatalf("unexpected split %q, %q", l, r)
	}
	l, r = SplitRight("nothing", "@")
	if l != "nothing" || r != "" {
		t.Fatalf("unexpected split %q, %q", l, r)
	}
}
