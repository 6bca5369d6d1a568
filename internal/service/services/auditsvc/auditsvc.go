package auditsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/iauditrepo"
	"github.com/corray333/cloud-kitchen/internal/service/models/auditlog"
	"github.com/corray333/cloud-kitchen/internal/service/models/event"
	"go.opentelemetry.io/otel"
)

// ErrMalformedEvent marks payloads that can never be processed.
var ErrMalformedEvent = event.ErrMalformed

// AuditService records order events in the audit log.
type AuditService struct {
	auditRepo iauditrepo.IAuditRepository
	now       func() time.Time
}

// option is a function that configures the AuditService.
type option func(*AuditService)

// MustNewAuditService creates a new AuditService.
func MustNewAuditService(opts ...option) *AuditService {
	s := &AuditService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.auditRepo == nil {
		panic("auditsvc: audit repository is required")
	}

	return s
}

// WithAuditRepository sets the audit repository for the AuditService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(auditRepo iauditrepo.IAuditRepository) option {
	return func(s *AuditService) {
		s.auditRepo = auditRepo
	}
}

// Decode turns a message body into an audit entry.
func (s *AuditService) Decode(messageID string, payload []byte) (auditlog.AuditLogOrder, error) {
	ev, err := event.Decode(payload)
	if err != nil {
		return auditlog.AuditLogOrder{}, err
	}

	return auditlog.AuditLogOrder{
		MessageID:     messageID,
		OrderID:       ev.OrderID,
		EventType:     string(ev.Type),
		OrderStatus:   ev.Status.String(),
		PaymentStatus: ev.PaymentStatus.String(),
		TotalAmount:   ev.TotalAmount,
		OccurredAt:    ev.OccurredAt,
		CreatedAt:     s.now(),
	}, nil
}

// ProcessEvent stores one delivered event. Redeliveries of the same
// message id are absorbed by the repository.
func (s *AuditService) ProcessEvent(ctx context.Context, messageID string, payload []byte) error {
	ctx, span := otel.Tracer("service").Start(ctx, "AuditService.ProcessEvent")
	defer span.End()

	entry, err := s.Decode(messageID, payload)
	if err != nil {
		return err
	}

	slog.Info("Processing order event",
		"message_id", messageID,
		"order_id", entry.OrderID,
		"event_type", entry.EventType)

	if err := s.auditRepo.SaveAuditLogs(ctx, []auditlog.AuditLogOrder{entry}); err != nil {
		slog.Error("Failed to save audit log", "error", err)

		return err
	}

	slog.Info("Audit log processed successfully", "order_id", entry.OrderID)

	return nil
}
