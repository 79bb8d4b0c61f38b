package transfer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

func formGetter(m map[string]string) func(string) string {
	return func(name string) string { return m[name] }
}

func TestRequestFromForm(t *testing.T) {
	form := map[string]string{
		FieldSrcHost:      " 10.0.0.1 ",
		FieldSrcPort:      "3051",
		FieldSrcPath:      `C:\DB\SRC.FDB`,
		FieldSrcCharset:   "UTF8",
		FieldDstHost:      "localhost",
		FieldDstPath:      `C:\DB\DST.FDB`,
		FieldTableName:    "EVENTS",
		FieldSrcCondition: "EVENTSDATE >= '01.01.2026'",
		FieldCheckColumns: "READERID, EVENTSCODE,, ,CARDNUM",
	}
	r, err := RequestFromForm(formGetter(form))
	if err != nil {
		t.Fatal(err)
	}
	if r.Source.Host != "10.0.0.1" || r.Source.Port != 3051 || r.Destination.Port != 0 {
		t.Fatalf("unexpected connection specs %+v", r)
	}
	if !reflect.DeepEqual(r.CheckColumns, []string{"READERID", "EVENTSCODE", "CARDNUM"}) {
		t.Fatalf("unexpected check columns %v", r.CheckColumns)
	}
	// Round trip through the saved form.
	r2, err := RequestFromForm(formGetter(r.FormValues()))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r, r2) {
		t.Fatalf("expected %+v; got %+v", r, r2)
	}
}

func TestRequestFromForm_BadPort(t *testing.T) {
	_, err := RequestFromForm(formGetter(map[string]string{FieldDstPort: "30x0"}))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a ValidationError; got %v", err)
	}
}

func TestDefaultFormValues(t *testing.T) {
	r, err := RequestFromForm(formGetter(DefaultFormValues()))
	if err != nil {
		t.Fatal(err)
	}
	if r.Table != constants.DefaultTableName || len(r.CheckColumns) != 4 || r.Source.Port != constants.DefaultFirebirdPort {
		t.Fatalf("unexpected defaults %+v", r)
	}
}

func TestConnectionSpec_Details(t *testing.T) {
	creds := shared.Credentials{User: "u", Password: "p"}
	d := ConnectionSpec{Host: "h", Path: "/db.fdb"}.details(logicalNameSource, creds)
	if d.Type != constants.ConnectionTypeFirebird || d.Port != constants.DefaultFirebirdPort || d.Charset != constants.DefaultCharset {
		t.Fatalf("expected firebird defaults; got %+v", d)
	}
	if d.User != "u" || d.LogicalName != logicalNameSource {
		t.Fatalf("unexpected details %+v", d)
	}
	d = ConnectionSpec{Type: constants.ConnectionTypeSqlite, Path: "x.db"}.details(logicalNameDestination, creds)
	if d.Port != 0 || d.Charset != "" {
		t.Fatalf("expected no firebird defaults for sqlite; got %+v", d)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.Log == nil || c.ProgressEvery != constants.ProgressEveryDefault {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if !reflect.DeepEqual(c.ExcludeColumns, []string{"EVENTSID"}) {
		t.Fatalf("unexpected excluded columns %v", c.ExcludeColumns)
	}
	c = Config{ExcludeColumns: []string{}, Credentials: shared.Credentials{User: "me"}}.withDefaults()
	if len(c.ExcludeColumns) != 0 || c.Credentials.User != "me" {
		t.Fatalf("explicit values were overridden: %+v", c)
	}
}
