package transfer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestEvent_MarshalJSON(t *testing.T) {
	cases := []struct {
		event    Event
		expected string
	}{
		{NewInfoEvent("Connecting to source database..."), `{"status":"info","message":"Connecting to source database..."}`},
		{NewInfoEventWithTotal("Found 23 records. Starting transfer...", 23), `{"status":"info","message":"Found 23 records. Starting transfer...","total":23}`},
		{NewProgressEvent(10, 23, 9, 1), `{"status":"progress","current":10,"total":23,"inserted":9,"skipped":1}`},
		{NewCompletedEvent(0, 0, "No records found in source database matching criteria."), `{"status":"completed","inserted":0,"skipped":0,"message":"No records found in source database matching criteria."}`},
		{NewErrorEvent("boom"), `{"status":"error","message":"boom"}`},
	}
	for _, c := range cases {
		b, err := json.Marshal(c.event)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != c.expected {
			t.Fatalf("expected %v; got %v", c.expected, string(b))
		}
		var got Event
		if err = json.Unmarshal(b, &got); err != nil {
			t.Fatal(err)
		}
		if got != c.event {
			t.Fatalf("expected %v after unmarshal; got %v", c.event, got)
		}
	}
}

func TestEvent_BadStatus(t *testing.T) {
	if _, err := json.Marshal(Event{Status: "weird"}); err == nil {
		t.Fatal("expected an error marshalling an unknown status")
	}
	var e Event
	if err := json.Unmarshal([]byte(`{"status":"weird"}`), &e); err == nil {
		t.Fatal("expected an error unmarshalling an unknown status")
	}
}

func TestEvent_IsTerminal(t *testing.T) {
	if NewInfoEvent("x").IsTerminal() || NewProgressEvent(1, 1, 1, 0).IsTerminal() {
		t.Fatal("info and progress events are not terminal")
	}
	if !NewCompletedEvent(0, 0, "").IsTerminal() || !NewErrorEvent("").IsTerminal() {
		t.Fatal("completed and error events are terminal")
	}
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	events := []Event{NewInfoEvent("a"), NewProgressEvent(1, 2, 1, 0), NewErrorEvent("b")}
	for _, e := range events {
		if err := WriteEvent(&buf, e); err != nil {
			t.Fatal(err)
		}
	}
	sc := bufio.NewScanner(&buf)
	idx := 0
	for sc.Scan() {
		var got Event
		if err := json.Unmarshal(sc.Bytes(), &got); err != nil {
			t.Fatalf("line %v is not JSON: %v", idx, err)
		}
		if got != events[idx] {
			t.Fatalf("line %v: expected %v; got %v", idx, events[idx], got)
		}
		idx++
	}
	if idx != len(events) {
		t.Fatalf("expected %v lines; got %v", len(events), idx)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestWriteEvent_WriterError(t *testing.T) {
	if err := WriteEvent(failingWriter{}, NewInfoEvent("x")); err == nil {
		t.Fatal("expected an error from a failing writer")
	}
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	var ve *ValidationError
	if !errors.As(error(&ValidationError{Msg: "m", Err: cause}), &ve) || !errors.Is(ve, cause) {
		t.Fatal("expected ValidationError to unwrap to its cause")
	}
	ce := &ConnectionError{Side: "source", Err: cause}
	if ce.Error() != "error connecting to source database: cause" || !errors.Is(ce, cause) {
		t.Fatalf("unexpected connection error %v", ce)
	}
	qe := &QueryError{Msg: "row 1"}
	if qe.Error() != "row 1" || qe.Unwrap() != nil {
		t.Fatalf("unexpected query error %v", qe)
	}
}
