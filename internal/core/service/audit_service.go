package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/compliancehub/identity-service/internal/api/metrics"
	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/internal/core/ports"
)

// AuditTrailService persists security events dequeued by the dispatcher.
type AuditTrailService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditTrailService(repo ports.AuditRepository, log zerolog.Logger) *AuditTrailService {
	return &AuditTrailService{repo: repo, log: log}
}

// Process stores a single event and records the processing duration.
func (s *AuditTrailService) Process(ctx context.Context, event domain.AuditEvent) error {
	start := time.Now()

	if event.Action == "" {
		return fmt.Errorf("audit event missing action")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "error").Inc()
		return fmt.Errorf("insert audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "ok").Inc()
	metrics.AuditWriteDuration.WithLabelValues(string(event.Action)).Observe(time.Since(start).Seconds())

	s.log.Debug().
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Str("target_id", event.TargetID).
		Msg("audit event recorded")

	return nil
}
