package checkoutsvc

import (
	"context"
	"testing"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/memory"
	"github.com/corray333/cloud-kitchen/internal/service/models/checkout"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionID = "session-1"

var stagedAt = time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)

func validInput() checkout.Input {
	return checkout.Input{
		CustomerName:    "Asha Rao",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "+91 98765 43210",
		CustomerAddress: "12 Residency Road, Bengaluru",
	}
}

func setup(t *testing.T, withCart bool) (*CheckoutService, *memory.Store) {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()

	if withCart {
		rolls, err := store.MenuRepository().Insert(ctx, menuitem.MenuItem{
			Name: "Spring Rolls", Price: decimal.RequireFromString("5.99"), Available: true,
		})
		require.NoError(t, err)
		tikka, err := store.MenuRepository().Insert(ctx, menuitem.MenuItem{
			Name: "Chicken Tikka", Price: decimal.RequireFromString("12.99"), Available: true,
		})
		require.NoError(t, err)

		sess, err := store.SessionRepository().Get(ctx, sessionID)
		require.NoError(t, err)
		require.NoError(t, sess.Cart.Add(rolls.ID, 2))
		require.NoError(t, sess.Cart.Add(tikka.ID, 1))
		require.NoError(t, store.SessionRepository().Save(ctx, sess))
	}

	svc := MustNewCheckoutService(
		WithUnitOfWorkFactory(store.Factory()),
		WithClock(func() time.Time { return stagedAt }),
	)

	return svc, store
}

func TestSummaryEmptyCart(t *testing.T) {
	svc, _ := setup(t, false)

	_, err := svc.Summary(context.Background(), sessionID)

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestSummaryBeforeAndAfterStage(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, true)

	summary, err := svc.Summary(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "24.97", summary.Cart.Total.StringFixed(2))
	assert.Nil(t, summary.Checkout)

	_, err = svc.Stage(ctx, sessionID, validInput())
	require.NoError(t, err)

	summary, err = svc.Summary(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, summary.Checkout)
	assert.Equal(t, "Asha Rao", summary.Checkout.CustomerName)
}

func TestStageFreezesTotal(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t, true)

	details, err := svc.Stage(ctx, sessionID, validInput())
	require.NoError(t, err)

	assert.Equal(t, "24.97", details.Total.StringFixed(2))
	assert.Equal(t, stagedAt, details.StagedAt)

	sess, err := store.SessionRepository().Get(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, sess.Checkout)
	assert.Equal(t, details, *sess.Checkout)
}

func TestStageEmptyCartComesBeforeValidation(t *testing.T) {
	svc, _ := setup(t, false)

	_, err := svc.Stage(context.Background(), sessionID, checkout.Input{})

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestStageInvalidInputStoresNothing(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t, true)

	in := validInput()
	in.CustomerPhone = "12345"
	in.CustomerAddress = "short"

	_, err := svc.Stage(ctx, sessionID, in)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	fields := []string{}
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"customerPhone", "customerAddress"}, fields)

	sess, err := store.SessionRepository().Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Nil(t, sess.Checkout)
}

func TestStageAgainReplacesDetails(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, true)

	_, err := svc.Stage(ctx, sessionID, validInput())
	require.NoError(t, err)

	in := validInput()
	in.CustomerName = "Ravi Kumar"
	_, err = svc.Stage(ctx, sessionID, in)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", summary.Checkout.CustomerName)
}
