package isessionrepo

import (
	"context"

	"github.com/corray333/cloud-kitchen/internal/service/models/session"
)

// ISessionRepository stores per-customer cart and checkout state.
type ISessionRepository interface {
	// Get returns an empty session when id has no stored state.
	Get(ctx context.Context, id string) (session.Session, error)
	// GetForUpdate is Get that also locks the row for the running transaction.
	GetForUpdate(ctx context.Context, id string) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
}
