package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cevaris/ordered_map"
	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
)

type StatsFetcher interface {
	GetStats() []Stats
}

// StatsManager is used by a transfer run to register its steps and dump their stats.
type StatsManager interface {
	StatsFetcher
	AddStepWatcher(stepName string) *StepWatcher
	StartDumping()
	StopDumping()
}

// RunStatsManager implements StatsManager and
// is used to save stats from each step of a transfer run added via calls to AddStepWatcher.
type RunStatsManager struct {
	ticker              *time.Ticker
	tickerDone          chan struct{}
	tickerIsRunningFlag int32
	tickerFrequency     int
	mu                  sync.Mutex
	log                 logger.Logger           // error|info|debug logging
	mapStepStats        *ordered_map.OrderedMap // map containing StepWatcher{} details of all steps that we are gathering stats from.
}

// SetStatsDumpFrequency returns a function that can be supplied as an option to constructor NewRunStats().
// Zero disables periodic dumping.
func SetStatsDumpFrequency(seconds int) func(t *RunStatsManager) {
	return func(t *RunStatsManager) {
		t.tickerFrequency = seconds
	}
}

// NewRunStats creates a new RunStatsManager struct.
// Optionally supply func SetStatsDumpFrequency() to override the default stats dump frequency.
func NewRunStats(log logger.Logger, options ...func(t *RunStatsManager)) *RunStatsManager {
	t := &RunStatsManager{log: log, tickerFrequency: constants.StatsDumpFrequencySecondsDflt}
	for _, option := range options {
		option(t)
	}
	t.tickerDone = make(chan struct{})
	t.mapStepStats = ordered_map.NewOrderedMap()
	return t
}

// AddStepWatcher creates a new StepWatcher and saves it into this RunStatsManager struct.
func (t *RunStatsManager) AddStepWatcher(stepName string) *StepWatcher {
	sw := NewStepWatcher(t.log, stepName)
	t.mu.Lock()
	t.mapStepStats.Set(stepName, sw)
	t.mu.Unlock()
	return sw
}

func (t *RunStatsManager) StartDumping() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if atomic.LoadInt32(&t.tickerIsRunningFlag) == 0 { // if we're not already dumping stats...
		if t.tickerFrequency > 0 { // if stats dumping is enabled...
			// Turn on stats dumping.
			t.ticker = time.NewTicker(time.Second * time.Duration(t.tickerFrequency))
			atomic.StoreInt32(&t.tickerIsRunningFlag, 1)
			go func() {
				t.log.Debug("stats dumper ticker started")
				for {
					select {
					case <-t.tickerDone:
						t.log.Debug("stats dumper ticker stopped")
						return
					case <-t.ticker.C:
						t.logStats()
					}
				}
			}()
		} else {
			t.log.Debug("stats dumper disabled")
		}
	} else {
		t.log.Debug("stats dumper ticker already running")
	}
}

// StopDumping will stop the ticker and dump the current stats,
// only if the ticker was already running via a call to StartDumping().
func (t *RunStatsManager) StopDumping() {
	t.mu.Lock()
	running := atomic.LoadInt32(&t.tickerIsRunningFlag) > 0
	if running { // if we started to dump stats...
		atomic.StoreInt32(&t.tickerIsRunningFlag, 0)
		t.ticker.Stop()
	}
	t.mu.Unlock()
	if running {
		t.tickerDone <- struct{}{} // cause the goroutine to exit (we can't close ticker.C)
		t.logStats()
	}
}

// logStats is called periodically to output stats of each registered step.
func (t *RunStatsManager) logStats() {
	for _, s := range t.GetStats() {
		t.log.Warn(s.String())
	}
}

// GetStats implements interface StatsFetcher{}.
func (t *RunStatsManager) GetStats() []Stats {
	t.mu.Lock()
	watchers := make([]*StepWatcher, 0, t.mapStepStats.Len())
	iter := t.mapStepStats.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each element in the map of steps...
		watchers = append(watchers, kv.Value.(*StepWatcher))
	}
	t.mu.Unlock()
	statsList := make([]Stats, 0, len(watchers))
	for _, sw := range watchers {
		statsList = append(statsList, sw.RenderStats())
	}
	return statsList
}
