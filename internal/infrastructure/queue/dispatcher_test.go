package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/pkg/logger"
)

type captureAuditService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	done   chan struct{}
	want   int
}

func newCaptureAuditService(want int) *captureAuditService {
	return &captureAuditService{done: make(chan struct{}), want: want}
}

func (s *captureAuditService) Process(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) == s.want {
		close(s.done)
	}
	return nil
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newCaptureAuditService(3)
	d := NewDispatcher(2, svc, logger.Init(logger.Options{Level: "error"}))
	d.Start(ctx)

	d.Record(domain.AuditEvent{ActorID: "a", Action: domain.AuditLoginSucceeded})
	d.Record(domain.AuditEvent{ActorID: "b", Action: domain.AuditRegistered})
	d.Record(domain.AuditEvent{ActorID: "a", Action: domain.AuditUserDeleted})

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for events, got %d", len(svc.events))
	}
}

func TestDispatcher_PreservesPerActorOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const n = 50
	svc := newCaptureAuditService(n)
	d := NewDispatcher(4, svc, logger.Init(logger.Options{Level: "error"}))
	d.Start(ctx)

	for i := 0; i < n; i++ {
		action := domain.AuditLoginSucceeded
		if i%2 == 1 {
			action = domain.AuditLoginFailed
		}
		d.Record(domain.AuditEvent{ActorID: "alice", Action: action, Timestamp: time.Unix(int64(i), 0)})
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for events, got %d", len(svc.events))
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for i := 1; i < len(svc.events); i++ {
		if !svc.events[i].Timestamp.After(svc.events[i-1].Timestamp) {
			t.Fatalf("events for one actor delivered out of order at %d", i)
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, newCaptureAuditService(0), logger.Init(logger.Options{Level: "error"}))

	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}
