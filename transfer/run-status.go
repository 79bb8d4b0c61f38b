package transfer

import (
	"encoding/json"
	"fmt"
	"time"
)

// RunState is the lifecycle state of a launched run.
type RunState uint32

const (
	RunMissing RunState = iota
	RunStarting
	RunRunning
	RunComplete
	RunCompleteWithError
	RunShutdown
)

func (s RunState) String() string {
	switch s {
	case RunMissing:
		return ""
	case RunStarting:
		return "starting"
	case RunRunning:
		return "running"
	case RunComplete:
		return "complete"
	case RunCompleteWithError:
		return "complete with error"
	case RunShutdown:
		return "shutdown by user"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

func (s RunState) MarshalJSON() ([]byte, error) {
	if s > RunShutdown {
		return nil, fmt.Errorf("unhandled RunState value %v in custom MarshalJSON() conversion", uint32(s))
	}
	return json.Marshal(s.String())
}

type RunStatus struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	State     RunState  `json:"state"`
	Error     string    `json:"error"`
}

func (t *RunStatus) RunIsFinished() bool {
	if t.State == RunStarting || t.State == RunRunning { // if the run is live...
		return false // we're not finished!
	} else { // else the run is NOT live...
		return true
	}
}
