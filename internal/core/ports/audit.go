package ports

import (
	"context"

	"github.com/compliancehub/identity-service/internal/core/domain"
)

// AuditSink accepts security events for asynchronous recording. Record must
// not block the request path.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListByActor(ctx context.Context, actorID string, limit int) ([]domain.AuditEvent, error)
}

// AuditService processes events dequeued by the dispatcher workers.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
