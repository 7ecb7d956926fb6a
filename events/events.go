// Package events publishes order lifecycle events for back-office consumers
// such as kitchen displays and notification workers.
package events

import (
	"context"
	"sync"
	"time"

	"click-collect/models"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message body. The routing key equals Type.
type OrderEvent struct {
	Type         string             `json:"type"`
	OrderNumber  string             `json:"order_number"`
	RestaurantID uint               `json:"restaurant_id"`
	Status       models.OrderStatus `json:"status"`
	FromStatus   models.OrderStatus `json:"from_status,omitempty"`
	ChangedBy    string             `json:"changed_by,omitempty"`
	PickupTime   time.Time          `json:"pickup_time"`
	Subtotal     float64            `json:"subtotal"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

func Created(o *models.Order) OrderEvent {
	return OrderEvent{
		Type:         OrderCreated,
		OrderNumber:  o.OrderNumber,
		RestaurantID: o.RestaurantID,
		Status:       o.Status,
		ChangedBy:    "customer",
		PickupTime:   o.PickupTime,
		Subtotal:     o.Subtotal,
		OccurredAt:   time.Now().UTC(),
	}
}

func StatusChanged(o *models.Order, from models.OrderStatus, changedBy string) OrderEvent {
	e := Created(o)
	e.Type = OrderStatusChanged
	e.FromStatus = from
	e.ChangedBy = changedBy
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e OrderEvent) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }
func (Nop) Close() error                              { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (r *Recorder) Publish(_ context.Context, e OrderEvent) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderEvent(nil), r.events...)
}
