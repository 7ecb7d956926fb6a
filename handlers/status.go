package handlers

import (
	"context"
	"fmt"

	"click-collect/events"
	"click-collect/models"

	"gorm.io/gorm"
)

// changeStatus moves order to "to" and writes the history row in one
// transaction, then publishes order.status_changed. The caller has already
// checked the transition.
func (h *Handler) changeStatus(ctx context.Context, order *models.Order, to models.OrderStatus, changedBy, note string) error {
	from := order.Status
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStatusChanged
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Note:       note,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("change status of %s: %w", order.OrderNumber, err)
	}

	order.Status = to
	h.publish(ctx, events.StatusChanged(order, from, changedBy))
	h.Log.Infow("order status changed",
		"order_number", order.OrderNumber,
		"from", from,
		"to", to,
		"changed_by", changedBy,
	)
	return nil
}

// publish never fails the request; the order is already committed.
func (h *Handler) publish(ctx context.Context, e events.OrderEvent) {
	if err := h.Events.Publish(ctx, e); err != nil {
		h.Log.Errorw("failed to publish order event", "type", e.Type, "order_number", e.OrderNumber, "error", err)
	}
}
