package transfer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

type EventStatus string

const (
	StatusInfo      EventStatus = "info"
	StatusProgress  EventStatus = "progress"
	StatusCompleted EventStatus = "completed"
	StatusError     EventStatus = "error"
)

// Event is one element of the ordered stream a run produces.
// Completed and Error are terminal; exactly one of them ends every stream.
type Event struct {
	Status   EventStatus
	Message  string
	Current  int
	Total    int
	Inserted int
	Skipped  int
}

func NewInfoEvent(msg string) Event {
	return Event{Status: StatusInfo, Message: msg}
}

func NewInfoEventWithTotal(msg string, total int) Event {
	return Event{Status: StatusInfo, Message: msg, Total: total}
}

func NewProgressEvent(current, total, inserted, skipped int) Event {
	return Event{Status: StatusProgress, Current: current, Total: total, Inserted: inserted, Skipped: skipped}
}

func NewCompletedEvent(inserted, skipped int, msg string) Event {
	return Event{Status: StatusCompleted, Inserted: inserted, Skipped: skipped, Message: msg}
}

func NewErrorEvent(msg string) Event {
	return Event{Status: StatusError, Message: msg}
}

// IsTerminal reports whether e ends the stream.
func (e Event) IsTerminal() bool {
	return e.Status == StatusCompleted || e.Status == StatusError
}

func (e Event) String() string {
	switch e.Status {
	case StatusProgress:
		return fmt.Sprintf("progress %v/%v inserted=%v skipped=%v", e.Current, e.Total, e.Inserted, e.Skipped)
	default:
		return fmt.Sprintf("%v: %v", e.Status, e.Message)
	}
}

type infoWire struct {
	Status  EventStatus `json:"status"`
	Message string      `json:"message"`
	Total   int         `json:"total,omitempty"`
}

type progressWire struct {
	Status   EventStatus `json:"status"`
	Current  int         `json:"current"`
	Total    int         `json:"total"`
	Inserted int         `json:"inserted"`
	Skipped  int         `json:"skipped"`
}

type completedWire struct {
	Status   EventStatus `json:"status"`
	Inserted int         `json:"inserted"`
	Skipped  int         `json:"skipped"`
	Message  string      `json:"message"`
}

type errorWire struct {
	Status  EventStatus `json:"status"`
	Message string      `json:"message"`
}

// MarshalJSON writes only the fields that belong to the event's status.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Status {
	case StatusInfo:
		return json.Marshal(infoWire{Status: e.Status, Message: e.Message, Total: e.Total})
	case StatusProgress:
		return json.Marshal(progressWire{Status: e.Status, Current: e.Current, Total: e.Total, Inserted: e.Inserted, Skipped: e.Skipped})
	case StatusCompleted:
		return json.Marshal(completedWire{Status: e.Status, Inserted: e.Inserted, Skipped: e.Skipped, Message: e.Message})
	case StatusError:
		return json.Marshal(errorWire{Status: e.Status, Message: e.Message})
	default:
		return nil, fmt.Errorf("unhandled event status %q in custom MarshalJSON() conversion", e.Status)
	}
}

// UnmarshalJSON reads any of the event encodings written by MarshalJSON.
func (e *Event) UnmarshalJSON(b []byte) error {
	var w struct {
		Status   EventStatus `json:"status"`
		Message  string      `json:"message"`
		Current  int         `json:"current"`
		Total    int         `json:"total"`
		Inserted int         `json:"inserted"`
		Skipped  int         `json:"skipped"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Status {
	case StatusInfo, StatusProgress, StatusCompleted, StatusError:
	default:
		return fmt.Errorf("unknown event status %q", w.Status)
	}
	*e = Event(w)
	return nil
}

// WriteEvent writes e to w as one line of newline delimited JSON.
func WriteEvent(w io.Writer, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err = w.Write(b); err != nil {
		return errors.Wrap(err, "error writing event")
	}
	return nil
}
