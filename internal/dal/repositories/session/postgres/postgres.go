package postgresrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	"github.com/corray333/cloud-kitchen/internal/service/models/cart"
	"github.com/corray333/cloud-kitchen/internal/service/models/checkout"
	"github.com/corray333/cloud-kitchen/internal/service/models/session"
	"github.com/jackc/pgx/v5"
)

// SessionDal is a customer_sessions row. Cart and checkout are JSONB documents.
type SessionDal struct {
	Id        string    `db:"id"`
	Cart      []byte    `db:"cart"`
	Checkout  []byte    `db:"checkout"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToModel decodes the JSONB columns.
func (s *SessionDal) ToModel() (session.Session, error) {
	out := session.New(s.Id)
	out.UpdatedAt = s.UpdatedAt

	if len(s.Cart) > 0 {
		var c cart.Cart
		if err := json.Unmarshal(s.Cart, &c); err != nil {
			return session.Session{}, fmt.Errorf("failed to decode cart: %w", err)
		}
		if c.Items != nil {
			out.Cart = c
		}
	}

	if len(s.Checkout) > 0 {
		var details checkout.Details
		if err := json.Unmarshal(s.Checkout, &details); err != nil {
			return session.Session{}, fmt.Errorf("failed to decode checkout: %w", err)
		}
		out.Checkout = &details
	}

	return out, nil
}

// PostgresSessionRepository stores sessions in customer_sessions.
type PostgresSessionRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresSessionRepository creates a new Postgres session repository.
func NewPostgresSessionRepository(conn postgres.GenericConn) *PostgresSessionRepository {
	return &PostgresSessionRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Get returns the stored session or an empty one.
func (r *PostgresSessionRepository) Get(ctx context.Context, id string) (session.Session, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the session row until the surrounding transaction ends.
// It must be called on a transaction-bound repository.
func (r *PostgresSessionRepository) GetForUpdate(ctx context.Context, id string) (session.Session, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *PostgresSessionRepository) get(ctx context.Context, id, suffix string) (session.Session, error) {
	builder := r.sb.Select("id", "cart", "checkout", "updated_at").
		From("customer_sessions").
		Where(sq.Eq{"id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to build query: %w", err)
	}

	var dal SessionDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.Cart,
		&dal.Checkout,
		&dal.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.New(id), nil
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return dal.ToModel()
}

// Save upserts the session.
func (r *PostgresSessionRepository) Save(ctx context.Context, s session.Session) error {
	cartDoc, err := json.Marshal(s.Cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	var checkoutDoc any
	if s.Checkout != nil {
		raw, err := json.Marshal(s.Checkout)
		if err != nil {
			return fmt.Errorf("failed to encode checkout: %w", err)
		}
		checkoutDoc = string(raw)
	}

	query, args, err := r.sb.Insert("customer_sessions").
		Columns("id", "cart", "checkout", "updated_at").
		Values(s.ID, string(cartDoc), checkoutDoc, s.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			cart = EXCLUDED.cart,
			checkout = EXCLUDED.checkout,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
