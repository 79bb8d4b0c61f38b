package transfer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	om "github.com/cevaris/ordered_map"
	"github.com/majormguarde-bit/megre-guard-db/constants"
	h "github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/predicate"
	"github.com/majormguarde-bit/megre-guard-db/rdbms"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
	"github.com/majormguarde-bit/megre-guard-db/stats"
	"github.com/majormguarde-bit/megre-guard-db/stream"
	"github.com/pkg/errors"
)

const (
	logicalNameSource      = "source"
	logicalNameDestination = "destination"
)

// Provisioner opens database connections.
type Provisioner interface {
	Open(ctx context.Context, c shared.ConnectionDetails) (shared.Connector, error)
}

// Engine runs transfers. It holds no per-run state so one Engine may run many transfers at once.
type Engine struct {
	cfg  Config
	prov Provisioner
}

func NewEngine(cfg Config, prov Provisioner) *Engine {
	return &Engine{cfg: cfg.withDefaults(), prov: prov}
}

// Run starts a transfer and returns its events. The channel is closed after the terminal event.
// Callers should drain the channel; cancel ctx to stop the run early.
// A consumer that stops reading must cancel ctx so the run can roll back and release its connections.
func (e *Engine) Run(ctx context.Context, req Request) <-chan Event {
	ch := make(chan Event, constants.EventChanSize)
	go func() {
		defer close(ch)
		e.Execute(ctx, req, func(ev Event) { sendEvent(ctx, ch, ev) })
	}()
	return ch
}

// sendEvent delivers ev on ch and reports whether it was taken.
// Once ctx is done the consumer gets EventDeliveryGraceMillis to take ev before it is dropped.
func sendEvent(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
	}
	t := time.NewTimer(constants.EventDeliveryGraceMillis * time.Millisecond)
	defer t.Stop()
	select {
	case ch <- ev:
		return true
	case <-t.C:
		return false
	}
}

// Execute runs a transfer and delivers each event to emit, in order, on the calling goroutine.
func (e *Engine) Execute(ctx context.Context, req Request, emit func(Event)) {
	sm := stats.NewRunStats(e.cfg.Log, stats.SetStatsDumpFrequency(e.cfg.StatsDumpFrequencySeconds))
	e.ExecuteWithStats(ctx, req, sm, emit)
}

// ExecuteWithStats is Execute with the caller's stats manager, so stats can be read while the run is live.
func (e *Engine) ExecuteWithStats(ctx context.Context, req Request, sm stats.StatsManager, emit func(Event)) {
	e.executeWithLog(ctx, req, sm, e.cfg.Log, emit)
}

func (e *Engine) executeWithLog(ctx context.Context, req Request, sm stats.StatsManager, log logger.Logger, emit func(Event)) {
	r := &run{
		cfg:  e.cfg,
		prov: e.prov,
		req:  req,
		sm:   sm,
		emit: emit,
		log:  log,
	}
	if err := r.execute(ctx); err != nil {
		r.log.Error("transfer of table ", req.Table, " failed: ", err)
		emit(NewErrorEvent(err.Error()))
	}
}

// plan is a validated Request.
type plan struct {
	table        rdbms.SchemaTable
	checkColumns []string // upper cased.
	filter       predicate.Expr
	rowFilter    *rowFilter
}

type run struct {
	cfg  Config
	prov Provisioner
	req  Request
	sm   stats.StatsManager
	emit func(Event)
	log  logger.Logger
}

// validate checks the request before any I/O.
func (r *run) validate() (*plan, error) {
	p := &plan{table: rdbms.SchemaTable{SchemaTable: strings.TrimSpace(r.req.Table)}}
	// Drop blanks so a list of empty names counts as no columns.
	cols := make([]string, 0, len(r.req.CheckColumns))
	for _, c := range r.req.CheckColumns {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, &ValidationError{Msg: constants.MessageCheckColumnsRequired}
	}
	if err := p.table.Validate(); err != nil {
		return nil, &ValidationError{Msg: "invalid table name", Err: err}
	}
	for _, c := range cols {
		if err := rdbms.ValidateIdentifier(c); err != nil {
			return nil, &ValidationError{Msg: "invalid duplicate-check column", Err: err}
		}
	}
	p.checkColumns = h.StringSliceToUpper(cols)
	var err error
	if p.filter, err = predicate.Parse(r.req.Filter); err != nil {
		return nil, &ValidationError{Msg: "invalid source condition", Err: err}
	}
	if p.rowFilter, err = newRowFilter(r.req.RowFilter); err != nil {
		return nil, &ValidationError{Msg: "invalid row filter", Err: err}
	}
	return p, nil
}

func (r *run) execute(ctx context.Context) error {
	p, err := r.validate()
	if err != nil {
		return err
	}
	r.log.Info("starting transfer of table ", p.table.String(), " with duplicate-check columns ", p.checkColumns)
	r.sm.StartDumping()
	defer r.sm.StopDumping()
	r.emit(NewInfoEvent(constants.MessageConnectingToSource))
	recs, err := r.fetch(ctx, p)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		r.emit(NewCompletedEvent(0, 0, constants.MessageNoRecordsFound))
		return nil
	}
	r.emit(NewInfoEventWithTotal(fmt.Sprintf(constants.MessageFoundRecordsTemplate, len(recs)), len(recs)))
	return r.load(ctx, p, recs)
}

// fetch reads every matching row from the source and closes the source connection.
func (r *run) fetch(ctx context.Context, p *plan) ([]stream.Record, error) {
	src, err := r.prov.Open(ctx, r.req.Source.details(logicalNameSource, r.cfg.Credentials))
	if err != nil {
		return nil, &ConnectionError{Side: logicalNameSource, Err: err}
	}
	defer func() {
		if err := src.Close(); err != nil {
			r.log.Warn("error closing source connection: ", err)
		}
	}()
	cols, err := rdbms.GetTableColumns(ctx, src, p.table)
	if err != nil {
		return nil, &QueryError{Msg: "error reading source table", Err: err}
	}
	if err = checkColumnsExist(p.checkColumns, cols, logicalNameSource); err != nil {
		return nil, err
	}
	where, args, err := predicate.Compile(p.filter, cols, src.GetDmlGenerator().GetBindStyle())
	if err != nil {
		return nil, &ValidationError{Msg: "invalid source condition", Err: err}
	}
	sqltext := fmt.Sprintf("select * from %v", p.table.String())
	if where != "" {
		sqltext = fmt.Sprintf("%v where %v", sqltext, where)
	}
	var fetched int64
	sw := r.sm.AddStepWatcher("fetch " + p.table.String())
	sw.StartWatching(&fetched)
	recs, err := rdbms.FetchRecords(ctx, r.log, src, sqltext, args)
	atomic.StoreInt64(&fetched, int64(len(recs)))
	sw.StopWatching()
	if err != nil {
		return nil, &QueryError{Msg: "error fetching source rows", Err: err}
	}
	if recs, err = p.rowFilter.apply(recs); err != nil {
		return nil, &QueryError{Msg: "error applying row filter", Err: err}
	}
	r.log.Info("fetched ", len(recs), " rows from source table ", p.table.String())
	return recs, nil
}

// load writes recs to the destination in one transaction, skipping duplicates.
func (r *run) load(ctx context.Context, p *plan, recs []stream.Record) error {
	dst, err := r.prov.Open(ctx, r.req.Destination.details(logicalNameDestination, r.cfg.Credentials))
	if err != nil {
		return &ConnectionError{Side: logicalNameDestination, Err: err}
	}
	defer func() {
		if err := dst.Close(); err != nil {
			r.log.Warn("error closing destination connection: ", err)
		}
	}()
	cols, err := rdbms.GetTableColumns(ctx, dst, p.table)
	if err != nil {
		return &QueryError{Msg: "error reading destination table", Err: err}
	}
	if err = checkColumnsExist(p.checkColumns, cols, logicalNameDestination); err != nil {
		return err
	}
	countGen, insertGen := r.newGenerators(dst.GetDmlGenerator(), p, recs[0])
	tx, err := dst.BeginTx(ctx)
	if err != nil {
		return &QueryError{Msg: "error starting destination transaction", Err: err}
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Warn("error rolling back destination transaction: ", rbErr)
		} else {
			r.log.Info("destination transaction rolled back")
		}
	}()
	var processed int64
	sw := r.sm.AddStepWatcher("transfer " + p.table.String())
	sw.StartWatching(&processed)
	defer sw.StopWatching()
	total := len(recs)
	inserted, skipped := 0, 0
	for idx, rec := range recs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(ctxErr, "transfer cancelled")
		}
		keys, err := rec.GetDataByKeys(countGen.GetColumns())
		if err != nil {
			return &QueryError{Msg: fmt.Sprintf("row %v", idx+1), Err: err}
		}
		for kdx, v := range keys {
			if v == nil {
				return &QueryError{Msg: fmt.Sprintf("row %v has a NULL value in duplicate-check column %v", idx+1, countGen.GetColumns()[kdx])}
			}
		}
		n, err := rdbms.QueryCount(ctx, tx, countGen.GetStatement(), keys)
		if err != nil {
			return &QueryError{Msg: fmt.Sprintf("error checking row %v for duplicates", idx+1), Err: err}
		}
		if n > 0 {
			skipped++
		} else {
			vals, err := rec.GetDataByKeys(insertGen.GetColumns())
			if err != nil {
				return &QueryError{Msg: fmt.Sprintf("row %v", idx+1), Err: err}
			}
			if _, err = tx.ExecContext(ctx, insertGen.GetStatement(), vals...); err != nil {
				return &QueryError{Msg: fmt.Sprintf("error inserting row %v %v", idx+1, rec.GetJson(p.checkColumns)), Err: err}
			}
			inserted++
		}
		atomic.AddInt64(&processed, 1)
		current := idx + 1
		if current%r.cfg.ProgressEvery == 0 || current == total {
			r.emit(NewProgressEvent(current, total, inserted, skipped))
		}
	}
	if err = tx.Commit(); err != nil {
		committed = true // a failed commit can not be rolled back.
		return &QueryError{Msg: "error committing destination transaction", Err: err}
	}
	committed = true
	r.log.Info("transfer of table ", p.table.String(), " complete: inserted ", inserted, ", skipped ", skipped)
	r.emit(NewCompletedEvent(inserted, skipped, fmt.Sprintf(constants.MessageTransferCompleteTemplate, inserted, skipped)))
	return nil
}

// newGenerators builds the duplicate check and the insert statements.
// Insert columns are the columns of the first row less the excluded columns.
func (r *run) newGenerators(dml shared.DmlGenerator, p *plan, first stream.Record) (shared.SqlStmtGenerator, shared.SqlStmtGenerator) {
	keyCols := h.StringSliceToOrderedMap(p.checkColumns)
	exclude := make(map[string]struct{}, len(r.cfg.ExcludeColumns))
	for _, c := range r.cfg.ExcludeColumns {
		exclude[c] = struct{}{}
	}
	insertCols := om.NewOrderedMap()
	for _, c := range first.GetFieldNames() {
		if _, ok := exclude[c]; !ok {
			insertCols.Set(c, c)
		}
	}
	countGen := dml.NewCountGenerator(&shared.SqlStatementGeneratorConfig{
		Log:             r.log,
		OutputSchema:    p.table.GetSchema(),
		OutputTable:     p.table.GetTable(),
		TargetKeyCols:   keyCols,
		TargetOtherCols: om.NewOrderedMap(),
	})
	insertGen := dml.NewInsertGenerator(&shared.SqlStatementGeneratorConfig{
		Log:             r.log,
		OutputSchema:    p.table.GetSchema(),
		OutputTable:     p.table.GetTable(),
		TargetKeyCols:   om.NewOrderedMap(),
		TargetOtherCols: insertCols,
	})
	return countGen, insertGen
}

// checkColumnsExist returns a ValidationError if any of want is missing from have.
func checkColumnsExist(want []string, have []string, side string) error {
	m := make(map[string]struct{}, len(have))
	for _, c := range have {
		m[c] = struct{}{}
	}
	missing := make([]string, 0)
	for _, c := range want {
		if _, ok := m[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Msg: fmt.Sprintf("duplicate-check columns not found in %v table: %v", side, strings.Join(missing, ", "))}
	}
	return nil
}
