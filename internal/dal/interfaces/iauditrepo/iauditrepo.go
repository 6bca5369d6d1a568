package iauditrepo

import (
	"context"

	"github.com/corray333/cloud-kitchen/internal/service/models/auditlog"
)

// IAuditRepository is interface for audit repository.
type IAuditRepository interface {
	// SaveAuditLogs stores entries, skipping message ids that were already recorded.
	SaveAuditLogs(ctx context.Context, auditLogs []auditlog.AuditLogOrder) error
}
