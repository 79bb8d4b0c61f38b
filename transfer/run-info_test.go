package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

// newRegistryDb creates a SQLite file with table T holding n rows.
func newRegistryDb(dir string, name string, n int) ConnectionSpec {
	path := filepath.Join(dir, name+".db")
	c, err := rdbms.OpenDbConnection(context.Background(), logger.NewDiscardLogger(), newSqliteDetails(path))
	Expect(err).To(BeNil())
	defer func() { _ = c.Close() }()
	_, err = c.ExecContext(context.Background(), testTableDdl)
	Expect(err).To(BeNil())
	for i := 1; i <= n; i++ {
		_, err = c.ExecContext(context.Background(), "insert into T (A, B, C) values (?, ?, ?)", i, i, i)
		Expect(err).To(BeNil())
	}
	return ConnectionSpec{Type: constants.ConnectionTypeSqlite, Path: path}
}

func drain(ch <-chan Event) []Event {
	events := make([]Event, 0)
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

var _ = Describe("SafeMapRunInfo", func() {
	var (
		dir string
		reg *SafeMapRunInfo
		eng *Engine
	)

	BeforeEach(func() {
		var err error
		dir, err = ioutil.TempDir("", "mgdb-registry")
		Expect(err).To(BeNil())
		reg = NewSafeMapRunInfo()
		eng = newSqliteEngine()
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	It("returns nothing for unknown ids", func() {
		_, ok := reg.Load("nope")
		Expect(ok).To(BeFalse())
		Expect(reg.Stop("nope")).To(BeFalse())
		reg.ConsumeRunEvent("nope", NewCompletedEvent(1, 1, "x")) // no panic.
		Expect(reg.List()).To(BeEmpty())
	})

	It("records a completed run", func() {
		req := Request{
			Source:       newRegistryDb(dir, "src", 12),
			Destination:  newRegistryDb(dir, "dst", 0),
			Table:        "T",
			CheckColumns: []string{"A"},
		}
		id, ch := reg.Launch(context.Background(), eng, req)
		Expect(id).NotTo(BeEmpty())
		events := drain(ch)
		Expect(events[len(events)-1].Status).To(Equal(StatusCompleted))
		ri, ok := reg.Load(id)
		Expect(ok).To(BeTrue())
		Expect(ri.Status.State).To(Equal(RunComplete))
		Expect(ri.Status.RunIsFinished()).To(BeTrue())
		Expect(ri.Status.EndTime.IsZero()).To(BeFalse())
		Expect(ri.LastProgress).NotTo(BeNil())
		Expect(ri.LastProgress.Current).To(Equal(12))
		Expect(ri.Stats).NotTo(BeNil())
		Expect(reg.Stop(id)).To(BeFalse(), "finished runs can not be stopped")
	})

	It("records a failed run", func() {
		id, ch := reg.Launch(context.Background(), eng, Request{Table: "T"})
		events := drain(ch)
		Expect(events).To(HaveLen(1))
		ri, _ := reg.Load(id)
		Expect(ri.Status.State).To(Equal(RunCompleteWithError))
		Expect(ri.Status.Error).To(Equal(constants.MessageCheckColumnsRequired))
	})

	It("marks a stopped run as shut down", func() {
		req := Request{
			Source:       newRegistryDb(dir, "src", 30),
			Destination:  newRegistryDb(dir, "dst", 0),
			Table:        "T",
			CheckColumns: []string{"A"},
		}
		id, ch := reg.Launch(context.Background(), eng, req)
		var last Event
		for ev := range ch {
			if ev.Status == StatusProgress && ev.Current == 10 {
				Expect(reg.Stop(id)).To(BeTrue())
			}
			last = ev
		}
		Expect(last.Status).To(Equal(StatusError))
		ri, _ := reg.Load(id)
		Expect(ri.Status.State).To(Equal(RunShutdown))
		Expect(ri.Status.State.String()).To(Equal("shutdown by user"))
	})

	It("lists runs oldest first", func() {
		for i := 0; i < 3; i++ {
			id, ch := reg.Launch(context.Background(), eng, Request{Table: "T"})
			drain(ch)
			Expect(id).NotTo(BeEmpty())
			time.Sleep(time.Millisecond)
		}
		l := reg.List()
		Expect(l).To(HaveLen(3))
		Expect(l[0].Id < l[1].Id).To(BeTrue())
		Expect(l[1].Id < l[2].Id).To(BeTrue())
		reg.Delete(l[0].Id)
		Expect(reg.List()).To(HaveLen(2))
	})

	It("prunes finished runs after the retention period", func() {
		id, ch := reg.Launch(context.Background(), eng, Request{Table: "T"})
		drain(ch)
		Expect(reg.Prune(time.Hour)).To(Equal(0))
		ri, _ := reg.Load(id)
		ri.Status.EndTime = time.Now().Add(-2 * constants.RunRetentionMinutes * time.Minute)
		reg.Store(id, ri)
		reg.Store("live", RunInfo{Id: "live", Status: RunStatus{State: RunRunning}})
		id2, ch := reg.Launch(context.Background(), eng, Request{Table: "T"}) // launching prunes old runs.
		drain(ch)
		_, ok := reg.Load(id)
		Expect(ok).To(BeFalse())
		_, ok = reg.Load("live")
		Expect(ok).To(BeTrue(), "live runs are never pruned")
		_, ok = reg.Load(id2)
		Expect(ok).To(BeTrue())
	})

	It("tags run logs with the transfer id", func() {
		var buf bytes.Buffer
		l := logrus.New()
		l.SetOutput(&buf)
		l.SetFormatter(&logrus.JSONFormatter{})
		e := NewEngine(Config{Log: &logger.LoggerImpl{Logger: logrus.NewEntry(l), LogLevelStr: "info"}}, &rdbms.Provisioner{Log: logger.NewDiscardLogger()})
		id, ch := reg.Launch(context.Background(), e, Request{Table: "T"})
		drain(ch)
		Expect(buf.String()).To(ContainSubstring(`"transferId":"` + id + `"`))
	})

	It("marshals run state as text", func() {
		b, err := json.Marshal(RunStatus{State: RunRunning})
		Expect(err).To(BeNil())
		Expect(string(b)).To(ContainSubstring(`"state":"running"`))
	})
})
