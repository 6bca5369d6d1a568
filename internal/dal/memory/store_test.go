package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/models/orderitem"
	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
	"github.com/corray333/cloud-kitchen/internal/service/models/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	work := store.NewUnitOfWork()
	require.NoError(t, work.Begin(ctx))
	_, err := work.MenuRepository().Insert(ctx, menuitem.MenuItem{Name: "Spring Rolls"})
	require.NoError(t, err)
	require.NoError(t, work.Commit(ctx))
	require.NoError(t, work.Rollback(ctx))

	count, err := store.MenuRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	work := store.NewUnitOfWork()
	require.NoError(t, work.Begin(ctx))
	_, err := work.OrderRepository().Insert(ctx, order.Order{CustomerName: "Asha"})
	require.NoError(t, err)
	require.NoError(t, work.SessionRepository().Save(ctx, session.New("s1")))
	require.NoError(t, work.Rollback(ctx))

	orders, err := store.OrderRepository().Query(ctx, &order.QueryOrdersModel{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	// ids handed out inside a rolled back transaction are reused
	created, err := store.OrderRepository().Insert(ctx, order.Order{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestBeginTwice(t *testing.T) {
	ctx := context.Background()
	work := NewStore().NewUnitOfWork()

	require.NoError(t, work.Begin(ctx))
	defer func() { _ = work.Rollback(ctx) }()

	assert.ErrorIs(t, work.Begin(ctx), ErrTxAlreadyStarted)
}

func TestTransactionsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first := store.NewUnitOfWork()
	require.NoError(t, first.Begin(ctx))

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		second := store.NewUnitOfWork()
		close(started)
		_ = second.Begin(ctx)
		_ = second.Rollback(ctx)
		close(done)
	}()

	<-started
	select {
	case <-done:
		t.Fatal("second transaction began while the first was open")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Commit(ctx))
	<-done
}

func TestOrderQueryNewestFirstWithPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().OrderRepository()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := range 4 {
		_, err := repo.Insert(ctx, order.Order{CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	// same timestamp as order 4: the higher id wins
	_, err := repo.Insert(ctx, order.Order{CreatedAt: base.Add(3 * time.Minute)})
	require.NoError(t, err)

	all, err := repo.Query(ctx, &order.QueryOrdersModel{})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids(all))

	page, err := repo.Query(ctx, &order.QueryOrdersModel{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3}, ids(page))

	past, err := repo.Query(ctx, &order.QueryOrdersModel{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestOrderDeleteCascadesToItems(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	o, err := store.OrderRepository().Insert(ctx, order.Order{})
	require.NoError(t, err)
	other, err := store.OrderRepository().Insert(ctx, order.Order{})
	require.NoError(t, err)
	_, err = store.OrderItemRepository().BulkInsert(ctx, []orderitem.OrderItem{
		{OrderID: o.ID, MenuItemID: 1, Quantity: 1, Price: decimal.NewFromInt(5)},
		{OrderID: other.ID, MenuItemID: 1, Quantity: 1, Price: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)

	require.NoError(t, store.OrderRepository().Delete(ctx, o.ID))

	items, err := store.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].OrderID)

	assert.ErrorIs(t, store.OrderRepository().Delete(ctx, o.ID), order.ErrNotFound)
}

func TestSessionGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().SessionRepository()

	sess, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "missing", sess.ID)
	assert.True(t, sess.Cart.IsEmpty())

	require.NoError(t, sess.Cart.Add(1, 1))
	require.NoError(t, repo.Save(ctx, sess))

	loaded, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.NoError(t, loaded.Cart.Update(1, 9))

	again, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Cart.Quantity(1))
}

func TestOutboxClaimLeasesDueMessages(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().OutboxRepository()
	now := time.Now()

	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "second", MaxRetries: 5, NextRetryAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "first", MaxRetries: 5, NextRetryAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "later", MaxRetries: 5, NextRetryAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "dead", RetryCount: 5, MaxRetries: 5}))

	claimed, err := repo.Claim(ctx, 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, "first", claimed[0].MessageID)
	assert.Equal(t, "second", claimed[1].MessageID)
	assert.True(t, claimed[0].NextRetryAt.After(now))

	again, err := repo.Claim(ctx, 10, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, again, "leased messages are not handed out twice")
}

func TestOutboxClaimHonoursLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().OutboxRepository()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: id, MaxRetries: 5}))
	}

	claimed, err := repo.Claim(ctx, 2, time.Minute)
	require.NoError(t, err)
	assert.Len(t, claimed, 2)

	rest, err := repo.Claim(ctx, 2, time.Minute)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].MessageID)
}

func TestOutboxRetryAndAck(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().OutboxRepository()
	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "m", MaxRetries: 2}))

	claimed, err := repo.Claim(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	id := claimed[0].ID

	require.NoError(t, repo.Retry(ctx, id, "broker down", 0))
	claimed, err = repo.Claim(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, 1, claimed[0].RetryCount)
	assert.Equal(t, "broker down", claimed[0].LastError)

	require.NoError(t, repo.Retry(ctx, id, "broker down", 0))
	claimed, err = repo.Claim(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, claimed, "exhausted messages stay parked")

	require.NoError(t, repo.Ack(ctx, id))
	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "m", MaxRetries: 2}))
}

func TestOutboxEnqueueRejectsDuplicateMessageID(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().OutboxRepository()
	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "m", MaxRetries: 1}))

	assert.Error(t, repo.Enqueue(ctx, outbox.Message{MessageID: "m", MaxRetries: 1}))
}

func TestMenuUpdateUnknown(t *testing.T) {
	_, err := NewStore().MenuRepository().Update(context.Background(), menuitem.MenuItem{ID: 3})

	assert.True(t, errors.Is(err, menuitem.ErrNotFound))
}

func ids(orders []order.Order) []int64 {
	out := make([]int64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}

	return out
}
