package transfer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/stats"
	"github.com/rs/xid"
)

// RunInfo is the registry entry for one launched run.
type RunInfo struct {
	Id           string             `json:"id"`
	Request      Request            `json:"request"`
	Status       RunStatus          `json:"status"`
	LastProgress *Event             `json:"lastProgress,omitempty"`
	Stats        stats.StatsFetcher `json:"-"`
	cancel       context.CancelFunc
	stopped      bool
}

// SafeMapRunInfo wraps a map[string]RunInfo with locking, via Load() and Store() methods.
type SafeMapRunInfo struct {
	sync.RWMutex
	Internal map[string]RunInfo
}

func NewSafeMapRunInfo() *SafeMapRunInfo {
	ri := SafeMapRunInfo{}
	ri.Internal = make(map[string]RunInfo)
	return &ri
}

func (t *SafeMapRunInfo) Load(key string) (ri RunInfo, ok bool) {
	t.RLock()
	ri, ok = t.Internal[key]
	t.RUnlock()
	return
}

func (t *SafeMapRunInfo) Store(key string, value RunInfo) {
	t.Lock()
	t.Internal[key] = value
	t.Unlock()
}

func (t *SafeMapRunInfo) Delete(key string) {
	t.Lock()
	delete(t.Internal, key)
	t.Unlock()
}

// List returns all runs, oldest first.
func (t *SafeMapRunInfo) List() []RunInfo {
	t.RLock()
	retval := make([]RunInfo, 0, len(t.Internal))
	for _, v := range t.Internal {
		retval = append(retval, v)
	}
	t.RUnlock()
	sort.Slice(retval, func(i, j int) bool {
		return retval[i].Id < retval[j].Id // xid ids sort by creation time.
	})
	return retval
}

// Stop cancels the run with the given id.
// It returns false if the id is unknown or the run has already finished.
func (t *SafeMapRunInfo) Stop(key string) bool {
	t.Lock()
	defer t.Unlock()
	ri, ok := t.Internal[key]
	if !ok || ri.Status.RunIsFinished() {
		return false
	}
	ri.stopped = true
	t.Internal[key] = ri
	ri.cancel()
	return true
}

// StopAll cancels every live run.
func (t *SafeMapRunInfo) StopAll() {
	for _, ri := range t.List() {
		t.Stop(ri.Id)
	}
}

// ConsumeRunEvent updates the status of run key from the event ev.
func (t *SafeMapRunInfo) ConsumeRunEvent(key string, ev Event) {
	t.Lock()
	defer t.Unlock()
	ri, ok := t.Internal[key]
	if !ok {
		return
	}
	switch ev.Status {
	case StatusInfo:
		if ri.Status.State == RunStarting {
			ri.Status.State = RunRunning
		}
	case StatusProgress:
		ri.Status.State = RunRunning
		e := ev
		ri.LastProgress = &e
	case StatusCompleted:
		ri.Status.State = RunComplete
		ri.Status.EndTime = time.Now()
	case StatusError:
		if ri.stopped {
			ri.Status.State = RunShutdown
		} else {
			ri.Status.State = RunCompleteWithError
		}
		ri.Status.EndTime = time.Now()
		ri.Status.Error = ev.Message
	}
	t.Internal[key] = ri
}

// Prune drops finished runs that ended more than retention ago and returns how many it dropped.
func (t *SafeMapRunInfo) Prune(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)
	t.Lock()
	defer t.Unlock()
	n := 0
	for k, ri := range t.Internal {
		if ri.Status.RunIsFinished() && ri.Status.EndTime.Before(cutoff) {
			delete(t.Internal, k)
			n++
		}
	}
	return n
}

// Launch starts req on engine e in a new goroutine and registers it under a new id.
// The returned channel carries the run's events and is closed after the terminal event.
// The run is cancelled when ctx is done or Stop is called; callers should drain the channel.
// Finished runs older than RunRetentionMinutes are pruned first.
func (t *SafeMapRunInfo) Launch(ctx context.Context, e *Engine, req Request) (string, <-chan Event) {
	t.Prune(constants.RunRetentionMinutes * time.Minute)
	id := xid.New().String()
	runCtx, cancel := context.WithCancel(ctx)
	log := e.cfg.Log
	if l, ok := log.(*logger.LoggerImpl); ok {
		log = l.WithTransferId(id)
	}
	sm := stats.NewRunStats(log, stats.SetStatsDumpFrequency(e.cfg.StatsDumpFrequencySeconds))
	t.Store(id, RunInfo{
		Id:      id,
		Request: req,
		Status:  RunStatus{State: RunStarting, StartTime: time.Now()},
		Stats:   sm,
		cancel:  cancel,
	})
	ch := make(chan Event, constants.EventChanSize)
	go func() {
		defer close(ch)
		defer cancel()
		e.executeWithLog(runCtx, req, sm, log, func(ev Event) {
			t.ConsumeRunEvent(id, ev)
			sendEvent(runCtx, ch, ev)
		})
	}()
	return id, ch
}
