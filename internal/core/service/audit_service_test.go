package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/pkg/logger"
)

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *stubAuditRepo) ListByActor(_ context.Context, actorID string, _ int) ([]domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditEvent
	for _, e := range r.events {
		if e.ActorID == actorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestAuditTrailService_Process(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditTrailService(repo, logger.Init(logger.Options{Level: "error"}))

	event := domain.AuditEvent{
		ActorID:   "user-1",
		Username:  "alice",
		Action:    domain.AuditLoginSucceeded,
		Timestamp: time.Now().UTC(),
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events))
	}
	if repo.events[0].Action != domain.AuditLoginSucceeded {
		t.Fatalf("unexpected action: %s", repo.events[0].Action)
	}
}

func TestAuditTrailService_Process_MissingAction(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditTrailService(repo, logger.Init(logger.Options{Level: "error"}))

	if err := svc.Process(context.Background(), domain.AuditEvent{ActorID: "user-1"}); err == nil {
		t.Fatalf("expected error for missing action")
	}
	if len(repo.events) != 0 {
		t.Fatalf("nothing should have been stored")
	}
}

func TestAuditTrailService_Process_DefaultsTimestamp(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditTrailService(repo, logger.Init(logger.Options{Level: "error"}))

	if err := svc.Process(context.Background(), domain.AuditEvent{Action: domain.AuditUserDeleted}); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if repo.events[0].Timestamp.IsZero() {
		t.Fatalf("timestamp should have been defaulted")
	}
}
