package handlers

import (
	"net/http"
	"strings"

	"click-collect/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders lists orders across every restaurant (superadmin only).
// Supports ?restaurant_id= in addition to the restaurant admin filters.
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	h.listOrders(c, nil)
}

// AdminGetAllUsers lists back-office accounts, optionally by ?role=.
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := h.DB.WithContext(c.Request.Context()).Order("id")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		h.Log.Errorw("failed to list users", "error", err)
		abort(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

type ForceStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason" binding:"required,max=500"`
}

// AdminForceOrderStatus overrides an order's status outside the normal
// lifecycle. The override is still recorded in the history.
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	var req ForceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Status.Known() {
		abort(c, http.StatusUnprocessableEntity, []FieldError{{
			Loc: []interface{}{"body", "status"},
			Msg: "unknown status " + string(req.Status),
		}})
		return
	}
	if req.Status == order.Status {
		c.JSON(http.StatusOK, order)
		return
	}

	note := "[OVERRIDE] " + strings.TrimSpace(req.Reason)
	if err := h.changeStatus(c.Request.Context(), order, req.Status, changedBy(c), note); err != nil {
		h.statusError(c, order, err)
		return
	}
	h.Log.Warnw("order status overridden", "order_number", order.OrderNumber, "status", req.Status, "by", changedBy(c))
	c.JSON(http.StatusOK, order)
}
