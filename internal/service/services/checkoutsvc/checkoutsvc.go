package checkoutsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/uow"
	"github.com/corray333/cloud-kitchen/internal/service/models/cart"
	"github.com/corray333/cloud-kitchen/internal/service/models/checkout"
	"github.com/corray333/cloud-kitchen/internal/service/pricing"
	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"go.opentelemetry.io/otel"
)

// Summary is what the customer reviews before paying.
type Summary struct {
	Cart     cart.View         `json:"cart"`
	Checkout *checkout.Details `json:"checkout,omitempty"`
}

// CheckoutService stages customer details and the order total.
type CheckoutService struct {
	newUOW    uow.Factory
	validator *validation.Validator
	now       func() time.Time
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{
		validator: validation.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("checkoutsvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the datastore of the CheckoutService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f uow.Factory) option {
	return func(s *CheckoutService) {
		s.newUOW = f
	}
}

// WithClock overrides time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *CheckoutService) {
		s.now = now
	}
}

// Summary returns the priced cart and any staged details.
// It fails with checkout.ErrEmptyCart when there is nothing to check out.
func (s *CheckoutService) Summary(ctx context.Context, sessionID string) (Summary, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CheckoutService.Summary")
	defer span.End()

	work := s.newUOW()

	sess, err := work.SessionRepository().Get(ctx, sessionID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Cart.IsEmpty() {
		return Summary{}, checkout.ErrEmptyCart
	}

	catalog, err := pricing.LoadCatalog(ctx, work.MenuRepository(), sess.Cart)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Cart:     pricing.Snapshot(sess.Cart, catalog),
		Checkout: sess.Checkout,
	}, nil
}

// Stage validates in and freezes the current cart total alongside it,
// replacing details staged earlier. Nothing is stored when any field fails.
func (s *CheckoutService) Stage(
	ctx context.Context,
	sessionID string,
	in checkout.Input,
) (checkout.Details, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CheckoutService.Stage")
	defer span.End()

	work := s.newUOW()

	sess, err := work.SessionRepository().Get(ctx, sessionID)
	if err != nil {
		return checkout.Details{}, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Cart.IsEmpty() {
		return checkout.Details{}, checkout.ErrEmptyCart
	}

	if err := s.validator.Struct(in); err != nil {
		return checkout.Details{}, err
	}

	catalog, err := pricing.LoadCatalog(ctx, work.MenuRepository(), sess.Cart)
	if err != nil {
		return checkout.Details{}, err
	}
	view := pricing.Snapshot(sess.Cart, catalog)

	now := s.now()
	details := checkout.Details{
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		Total:           view.Total,
		StagedAt:        now,
	}

	next := sess.Clone()
	next.Checkout = &details
	next.UpdatedAt = now
	if err := work.SessionRepository().Save(ctx, next); err != nil {
		return checkout.Details{}, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("Checkout staged", "session_id", sessionID, "total", details.Total.StringFixed(2))

	return details, nil
}
