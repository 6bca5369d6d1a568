package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	"github.com/corray333/cloud-kitchen/internal/service/models/auditlog"
)

// AuditRepository implements the audit repository for PostgreSQL.
type AuditRepository struct {
	conn postgres.GenericConn
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(conn postgres.GenericConn) *AuditRepository {
	return &AuditRepository{
		conn: conn,
	}
}

// SaveAuditLogs saves audit log entries using a squirrel bulk insert.
// Redelivered messages hit the message_id unique key and are skipped.
func (r *AuditRepository) SaveAuditLogs(
	ctx context.Context,
	auditLogs []auditlog.AuditLogOrder,
) error {
	if len(auditLogs) == 0 {
		return nil
	}

	builder := sq.Insert("order_audit_log").
		Columns(
			"message_id",
			"order_id",
			"event_type",
			"order_status",
			"payment_status",
			"total_amount",
			"occurred_at",
			"created_at",
		).
		Suffix("ON CONFLICT (message_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	for _, auditLog := range auditLogs {
		builder = builder.Values(
			auditLog.MessageID,
			auditLog.OrderID,
			auditLog.EventType,
			auditLog.OrderStatus,
			auditLog.PaymentStatus,
			auditLog.TotalAmount,
			auditLog.OccurredAt,
			auditLog.CreatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build audit logs insert query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to bulk insert audit logs: %w", err)
	}

	return nil
}
