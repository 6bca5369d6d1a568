package event

import (
	"testing"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOutboxCarriesOrderAndType(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := Created(order.Order{ID: 42, TotalAmount: decimal.RequireFromString("24.97")}, at)

	msg, err := ev.ToOutbox("order-events")
	require.NoError(t, err)

	assert.Equal(t, int64(42), msg.OrderID)
	assert.Equal(t, "order.created", msg.EventType)
	assert.Equal(t, "order-events", msg.RoutingKey)
	assert.Equal(t, at, msg.NextRetryAt)
	assert.NotEmpty(t, msg.MessageID)

	decoded, err := Decode(msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, TypeOrderCreated, decoded.Type)
	assert.Equal(t, int64(42), decoded.OrderID)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":    "{",
		"no type":     `{"orderId":1}`,
		"no order id": `{"type":"order.created"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))

			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
