package transfer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

// countingProvisioner opens real connections and counts opens and closes.
type countingProvisioner struct {
	Provisioner
	opened int64
	closed int64
}

func newCountingProvisioner() *countingProvisioner {
	return &countingProvisioner{Provisioner: &rdbms.Provisioner{Log: logger.NewDiscardLogger()}}
}

func (p *countingProvisioner) Open(ctx context.Context, c shared.ConnectionDetails) (shared.Connector, error) {
	conn, err := p.Provisioner.Open(ctx, c)
	if err != nil {
		return nil, err
	}
	atomic.AddInt64(&p.opened, 1)
	return &countingConnector{Connector: conn, closed: &p.closed}, nil
}

func (p *countingProvisioner) counts() (opened int64, closed int64) {
	return atomic.LoadInt64(&p.opened), atomic.LoadInt64(&p.closed)
}

type countingConnector struct {
	shared.Connector
	closed *int64
}

func (c *countingConnector) Close() error {
	atomic.AddInt64(c.closed, 1)
	return c.Connector.Close()
}

func TestEngine_ConnectionsAreReleased(t *testing.T) {
	cases := []struct {
		name         string
		request      func(t *testing.T) Request
		expectStatus EventStatus
		expectOpened int64
	}{
		{
			name: "success",
			request: func(t *testing.T) Request {
				src, dst := newTestDb(t, "src"), newTestDb(t, "dst")
				src.insertRows(1, 12)
				return newTestRequest(src, dst)
			},
			expectStatus: StatusCompleted,
			expectOpened: 2,
		},
		{
			name: "zero rows",
			request: func(t *testing.T) Request {
				src, dst := newTestDb(t, "src"), newTestDb(t, "dst")
				return newTestRequest(src, dst)
			},
			expectStatus: StatusCompleted,
			expectOpened: 1,
		},
		{
			name: "destination open failure",
			request: func(t *testing.T) Request {
				src, dst := newTestDb(t, "src"), newTestDb(t, "dst")
				src.insertRows(1, 3)
				req := newTestRequest(src, dst)
				req.Destination.Type = "nosuch"
				return req
			},
			expectStatus: StatusError,
			expectOpened: 1,
		},
		{
			name: "insert failure",
			request: func(t *testing.T) Request {
				src, dst := newTestDb(t, "src"), newTestDb(t, "dst", "create unique index T_C on T (C)")
				src.insertRows(1, 5)
				src.exec("update T set C = 100 where A = 4")
				return newTestRequest(src, dst)
			},
			expectStatus: StatusError,
			expectOpened: 2,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prov := newCountingProvisioner()
			last := assertSingleTerminal(t, collectEvents(newTestEngine(prov), context.Background(), c.request(t)))
			if last.Status != c.expectStatus {
				t.Fatalf("expected terminal status %v; got %v", c.expectStatus, last)
			}
			opened, closed := prov.counts()
			if opened != c.expectOpened || closed != opened {
				t.Fatalf("expected %v connections opened and closed; got opened = %v, closed = %v", c.expectOpened, opened, closed)
			}
		})
	}
}

func TestEngine_AbandonedConsumerReleasesConnections(t *testing.T) {
	src, dst := newTestDb(t, "src"), newTestDb(t, "dst")
	src.insertRows(1, 50)
	prov := newCountingProvisioner()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := newTestEngine(prov).Run(ctx, newTestRequest(src, dst))
	for ev := range ch {
		if ev.Status == StatusProgress {
			break
		}
	}
	cancel() // stop reading and cancel.
	deadline := time.Now().Add(10 * time.Second)
	for {
		opened, closed := prov.counts()
		if opened == 2 && closed == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("connections still held by an abandoned run: opened = %v, closed = %v", opened, closed)
		}
		time.Sleep(20 * time.Millisecond)
	}
	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event channel was not closed after the run ended")
	}
	if n := dst.count(""); n != 0 {
		t.Fatalf("expected rollback to leave no rows; got %v", n)
	}
}

func TestSendEvent(t *testing.T) {
	ch := make(chan Event)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if sendEvent(ctx, ch, NewInfoEvent("x")) {
		t.Fatal("expected the event to be dropped with no consumer")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("sendEvent waited too long after cancel")
	}
	// A consumer that is still reading gets the event after cancel.
	go func() { <-ch }()
	if !sendEvent(ctx, ch, NewInfoEvent("y")) {
		t.Fatal("expected the event to be delivered to a live consumer")
	}
}
