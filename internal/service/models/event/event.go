package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type names a ledger change.
type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
	TypeOrderDeleted       Type = "order.deleted"
)

const (
	contentTypeJSON   = "application/json"
	defaultMaxRetries = 5
)

// OrderEvent is the message published for every ledger change.
type OrderEvent struct {
	Type           Type                `json:"type"`
	OrderID        int64               `json:"orderId"`
	Status         order.Status        `json:"status,omitempty"`
	PreviousStatus order.Status        `json:"previousStatus,omitempty"`
	PaymentStatus  order.PaymentStatus `json:"paymentStatus,omitempty"`
	PaymentMethod  order.PaymentMethod `json:"paymentMethod,omitempty"`
	TotalAmount    decimal.Decimal     `json:"totalAmount"`
	ItemCount      int                 `json:"itemCount"`
	OccurredAt     time.Time           `json:"occurredAt"`
}

// Created describes a freshly committed order.
func Created(o order.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:          TypeOrderCreated,
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		ItemCount:     len(o.OrderItems),
		OccurredAt:    at,
	}
}

// StatusChanged describes an admin status update.
func StatusChanged(o order.Order, previous order.Status, at time.Time) OrderEvent {
	return OrderEvent{
		Type:           TypeOrderStatusChanged,
		OrderID:        o.ID,
		Status:         o.Status,
		PreviousStatus: previous,
		PaymentStatus:  o.PaymentStatus,
		PaymentMethod:  o.PaymentMethod,
		TotalAmount:    o.TotalAmount,
		OccurredAt:     at,
	}
}

// Deleted describes an admin delete.
func Deleted(o order.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:          TypeOrderDeleted,
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		OccurredAt:    at,
	}
}

// ErrMalformed is returned by Decode for payloads that can never be processed.
var ErrMalformed = errors.New("malformed order event")

// Decode parses a delivered payload. An event without a type or order id is malformed.
func Decode(payload []byte) (OrderEvent, error) {
	var e OrderEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return OrderEvent{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if e.Type == "" || e.OrderID == 0 {
		return OrderEvent{}, fmt.Errorf("%w: missing type or order id", ErrMalformed)
	}

	return e, nil
}

// ToOutbox serialises the event into an outbox message routed to queue.
func (e OrderEvent) ToOutbox(queue string) (outbox.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return outbox.Message{}, fmt.Errorf("failed to marshal %s event: %w", e.Type, err)
	}

	return outbox.Message{
		MessageID:   uuid.NewString(),
		OrderID:     e.OrderID,
		EventType:   string(e.Type),
		RoutingKey:  queue,
		Payload:     payload,
		ContentType: contentTypeJSON,
		MaxRetries:  defaultMaxRetries,
		CreatedAt:   e.OccurredAt,
		UpdatedAt:   e.OccurredAt,
		NextRetryAt: e.OccurredAt,
	}, nil
}
