package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"click-collect/middleware"
	"click-collect/models"
	"click-collect/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// adminRestaurantID is the restaurant the calling admin manages.
func adminRestaurantID(c *gin.Context) (uint, bool) {
	id, ok := middleware.GetRestaurantID(c)
	if !ok {
		abort(c, http.StatusForbidden, "Your account is not linked to a restaurant")
		return 0, false
	}
	return id, true
}

func changedBy(c *gin.Context) string {
	return fmt.Sprintf("%s:%d", middleware.GetRole(c), middleware.GetUserID(c))
}

// GetRestaurantOrders lists the admin's orders, newest first, with a count
// per status. Supports ?status= and ?date=YYYY-MM-DD (pickup day).
func (h *Handler) GetRestaurantOrders(c *gin.Context) {
	restaurantID, ok := adminRestaurantID(c)
	if !ok {
		return
	}
	h.listOrders(c, &restaurantID)
}

func (h *Handler) listOrders(c *gin.Context, restaurantID *uint) {
	query := h.DB.WithContext(c.Request.Context()).Preload("Items")
	if restaurantID != nil {
		query = query.Where("restaurant_id = ?", *restaurantID)
	} else if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}

	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).Known() {
			abort(c, http.StatusUnprocessableEntity, []FieldError{{
				Loc: []interface{}{"query", "status"},
				Msg: "unknown status " + status,
			}})
			return
		}
		query = query.Where("status = ?", status)
	}
	if day := c.Query("date"); day != "" {
		start, err := time.ParseInLocation(time.DateOnly, day, time.Local)
		if err != nil {
			abort(c, http.StatusUnprocessableEntity, []FieldError{{
				Loc: []interface{}{"query", "date"},
				Msg: "date must be formatted as YYYY-MM-DD",
			}})
			return
		}
		query = query.Where("pickup_time >= ? AND pickup_time < ?", start, start.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		h.Log.Errorw("failed to list orders", "error", err)
		abort(c, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	summary := map[models.OrderStatus]int{}
	revenue := decimal.Zero
	for _, o := range orders {
		summary[o.Status]++
		if o.Status == models.StatusCollected {
			revenue = revenue.Add(decimal.NewFromFloat(o.Subtotal))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary":     summary,
		"collected_revenue": revenue.Round(2).InexactFloat64(),
		"count":             len(orders),
		"orders":            orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note" binding:"max=500"`
}

// UpdateOrderStatus moves one of the admin's orders along the lifecycle.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	restaurantID, ok := adminRestaurantID(c)
	if !ok {
		return
	}
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	if order.RestaurantID != restaurantID {
		abort(c, http.StatusNotFound, "Order not found")
		return
	}

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, statemachine.ActorRestaurant); err != nil {
		abort(c, http.StatusUnprocessableEntity, gin.H{
			"message":           err.Error(),
			"current_status":    order.Status,
			"requested":         req.Status,
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	if err := h.changeStatus(c.Request.Context(), order, req.Status, changedBy(c), strings.TrimSpace(req.Note)); err != nil {
		h.statusError(c, order, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderHistory returns an order with its status audit trail.
func (h *Handler) GetOrderHistory(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	if middleware.GetRole(c) == models.RoleAdmin {
		rid, ok := adminRestaurantID(c)
		if !ok {
			return
		}
		if order.RestaurantID != rid {
			abort(c, http.StatusNotFound, "Order not found")
			return
		}
	}

	if err := h.DB.WithContext(c.Request.Context()).
		Where("order_id = ?", order.ID).
		Order("created_at, id").
		Find(&order.StatusHistory).Error; err != nil {
		h.Log.Errorw("failed to load status history", "order_number", order.OrderNumber, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to load order history")
		return
	}
	c.JSON(http.StatusOK, order)
}
