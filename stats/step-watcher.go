package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	c "github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	uatomic "go.uber.org/atomic"
)

// StepWatcher saves stats for one step of a transfer run periodically.
// The step calls StartWatching() and StopWatching() around its row loop.
type StepWatcher struct {
	log             logger.Logger // debug logging
	stepName        string        // debug output can use the given step name.
	rowCountPtr     *int64        // ptr to the row count held by the step for which we are capturing stats.
	startTime       time.Time
	endTime         time.Time
	rowsPerSecDelta int64
	rowsPerSecAvg   int64
	totalRows       int64
	priorRowCount   int64     // allows us to calculate delta rows per sec between ticker timeout.
	priorTime       time.Time // allows us to calculate delta rows per sec between ticker timeout.
	mu              sync.Mutex
	ticker          *time.Ticker
	tickerDone      chan struct{}
	isRunning       uatomic.Bool
	isStarted       uatomic.Bool
}

type Stats struct {
	StepName           string `json:"stepName"`
	StatusText         string `json:"statusText"`
	StatusEmoji        string `json:"statusEmoji"`
	ElapsedTimeSec     int    `json:"elapsedTimeSec"`
	TotalRowsProcessed int    `json:"totalRowsProcessed"`
	RowsPerSecondAvg   int    `json:"rowsPerSecondAvg"`
	RowsPerSecondDelta int    `json:"rowsPerSecondDelta"`
}

func NewStepWatcher(log logger.Logger, stepName string) *StepWatcher {
	return &StepWatcher{log: log, stepName: stepName, tickerDone: make(chan struct{})}
}

// StartWatching samples the counter at rowCountPtr until StopWatching is called.
// The counter must only be changed with sync/atomic.
func (n *StepWatcher) StartWatching(rowCountPtr *int64) {
	n.mu.Lock()
	// Save pointer to rowCount that is held by the step.
	n.rowCountPtr = rowCountPtr
	// Save current time for delta calculations.
	n.startTime = time.Now()
	n.priorTime = n.startTime
	n.priorRowCount = 0
	atomic.StoreInt64(&n.totalRows, 0)
	n.mu.Unlock()
	n.isRunning.Store(true)
	n.isStarted.Store(true)
	// Calculate initial stats now.
	n.CalculateStats()
	// Calculate stats periodically on ticker timeout.
	n.ticker = time.NewTicker(time.Second * c.StatsCaptureFrequencySeconds)
	go func() {
		for {
			select {
			case <-n.ticker.C:
				n.CalculateStats()
			case <-n.tickerDone:
				return
			}
		}
	}()
}

// StopWatching stops the ticker and calculates the final stats.
// It does nothing unless StartWatching was called first.
func (n *StepWatcher) StopWatching() {
	if !n.isRunning.Load() {
		return
	}
	n.ticker.Stop()
	n.tickerDone <- struct{}{} // stop the goroutine that calculates stats.
	n.CalculateStats()         // force final stats calculation.
	n.mu.Lock()
	n.endTime = time.Now()
	n.mu.Unlock()
	n.isRunning.Store(false)
}

func (n *StepWatcher) CalculateStats() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.rowCountPtr == nil {
		return
	}
	// Calculate time delta since we last captured stats.
	deltaTime := int64(time.Since(n.priorTime).Seconds())
	if deltaTime < 1 { // if we will cause divide by 0 error...
		deltaTime = 1 // force div by 1.
	}
	rowCount := atomic.LoadInt64(n.rowCountPtr)
	deltaRowCount := rowCount - n.priorRowCount
	// Save current rows per second.
	atomic.StoreInt64(&n.rowsPerSecDelta, deltaRowCount/deltaTime)
	n.log.Debug("STATS: ", n.stepName, " processing ", deltaRowCount/deltaTime, " rows per sec")
	// Save current values for next ticker timeout.
	n.priorRowCount = rowCount
	n.priorTime = time.Now()
	// Save total rows processed so far - this may be the final value.
	total := atomic.AddInt64(&n.totalRows, deltaRowCount)
	// Save the avg rows per sec calculated using start time and total rows so far.
	atomic.StoreInt64(&n.rowsPerSecAvg, total/getNumSecondsSinceTimeOrOne(n.startTime))
}

// RenderStats gets a struct filled with stats at the point of time it is called.
func (n *StepWatcher) RenderStats() Stats {
	var statusText, statusEmoji string
	switch {
	case n.isRunning.Load():
		statusText = "running"
		statusEmoji = "\U0000231B" // hour glass
	case n.isStarted.Load():
		statusText = "complete"
		statusEmoji = "\U00002705" // green tick
	default:
		statusText = "waiting"
	}
	n.mu.Lock()
	var elapsed time.Duration
	if !n.startTime.IsZero() {
		end := n.endTime
		if end.IsZero() {
			end = time.Now()
		}
		elapsed = end.Sub(n.startTime)
	}
	n.mu.Unlock()
	return Stats{
		StepName:           n.stepName,
		StatusText:         statusText,
		StatusEmoji:        statusEmoji,
		ElapsedTimeSec:     int(elapsed.Seconds()),
		TotalRowsProcessed: int(atomic.LoadInt64(&n.totalRows)),
		RowsPerSecondAvg:   int(atomic.LoadInt64(&n.rowsPerSecAvg)),
		RowsPerSecondDelta: int(atomic.LoadInt64(&n.rowsPerSecDelta)),
	}
}

// String will format the stats for general logging.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats for %v %v %v "+
			"elapsedTimeSec=%v "+
			"totalRowsProcessed=%v "+
			"rowsPerSecondAvg=%v "+
			"rowsPerSecondDelta=%v",
		s.StepName, s.StatusText, s.StatusEmoji,
		s.ElapsedTimeSec,
		s.TotalRowsProcessed,
		s.RowsPerSecondAvg,
		s.RowsPerSecondDelta,
	)
}

func getNumSecondsSinceTimeOrOne(t time.Time) (seconds int64) {
	seconds = int64(time.Since(t).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return
}
