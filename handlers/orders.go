package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"click-collect/events"
	"click-collect/hours"
	"click-collect/models"
	"click-collect/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errStatusChanged = errors.New("order status changed concurrently")

const orderNumberAttempts = 5

// newOrderNumber returns an 8 character uppercase token, e.g. "3F9A1C7B".
func newOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (h *Handler) findOrder(c *gin.Context) (*models.Order, bool) {
	var order models.Order
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Items").
		Preload("Restaurant").
		Where("order_number = ?", strings.ToUpper(c.Param("orderNumber"))).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abort(c, http.StatusNotFound, "Order not found")
		return nil, false
	}
	if err != nil {
		h.Log.Errorw("failed to load order", "order_number", c.Param("orderNumber"), "error", err)
		abort(c, http.StatusInternalServerError, "Failed to load order")
		return nil, false
	}
	return &order, true
}

// CreateOrder places a guest click & collect order. Prices and names are
// taken from the menu at the time of ordering.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	db := h.DB.WithContext(ctx)

	var restaurant models.Restaurant
	err := db.First(&restaurant, req.RestaurantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abort(c, http.StatusNotFound, "Restaurant not found")
		return
	}
	if err != nil {
		h.Log.Errorw("failed to load restaurant", "restaurant_id", req.RestaurantID, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to load restaurant")
		return
	}
	if !restaurant.IsOpen {
		abort(c, http.StatusBadRequest, "Restaurant is currently not accepting orders")
		return
	}

	if !req.PickupTime.After(h.Now()) {
		abort(c, http.StatusUnprocessableEntity, []FieldError{{
			Loc: []interface{}{"body", "pickup_time"},
			Msg: "pickup time must be in the future",
		}})
		return
	}
	if !h.openAt(&restaurant, req) {
		abort(c, http.StatusUnprocessableEntity, []FieldError{{
			Loc: []interface{}{"body", "pickup_time"},
			Msg: "restaurant is closed at the requested pickup time (" + restaurant.OpeningHours + ")",
		}})
		return
	}

	ids := make([]uint, len(req.Items))
	for i, line := range req.Items {
		ids[i] = line.MenuItemID
	}
	var menu []models.MenuItem
	if err := db.Where("id IN ? AND restaurant_id = ?", ids, restaurant.ID).Find(&menu).Error; err != nil {
		h.Log.Errorw("failed to load menu items", "restaurant_id", restaurant.ID, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to place order")
		return
	}
	byID := make(map[uint]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	var problems []FieldError
	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for i, line := range req.Items {
		m, ok := byID[line.MenuItemID]
		loc := []interface{}{"body", "items", i, "menu_item_id"}
		switch {
		case !ok:
			problems = append(problems, FieldError{Loc: loc, Msg: fmt.Sprintf("menu item %d not found at this restaurant", line.MenuItemID)})
			continue
		case !m.IsAvailable:
			problems = append(problems, FieldError{Loc: loc, Msg: fmt.Sprintf("%s is not available", m.Name)})
			continue
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(m.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Quantity:   line.Quantity,
		})
	}
	if len(problems) > 0 {
		abort(c, http.StatusUnprocessableEntity, problems)
		return
	}

	order := models.Order{
		RestaurantID:        restaurant.ID,
		CustomerName:        strings.TrimSpace(req.CustomerName),
		CustomerPhone:       strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:       strings.TrimSpace(req.CustomerEmail),
		PickupTime:          req.PickupTime,
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
		Status:              models.StatusPending,
		Subtotal:            subtotal.Round(2).InexactFloat64(),
		Items:               items,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		number, err := uniqueOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: "customer",
			Note:      "Order placed",
		}).Error
	})
	if err != nil {
		h.Log.Errorw("failed to create order", "restaurant_id", restaurant.ID, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	h.publish(ctx, events.Created(&order))
	h.Log.Infow("order placed",
		"order_number", order.OrderNumber,
		"restaurant_id", restaurant.ID,
		"items", len(items),
		"subtotal", order.Subtotal,
		"pickup_time", order.PickupTime,
	)

	order.Restaurant = &restaurant
	c.JSON(http.StatusCreated, order)
}

func uniqueOrderNumber(tx *gorm.DB) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		n := newOrderNumber()
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", n).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return n, nil
		}
	}
	return "", errors.New("could not allocate a unique order number")
}

// openAt checks the pickup time against the restaurant's opening hours, on
// the pickup time's own wall clock. Restaurants without parseable hours
// accept any time.
func (h *Handler) openAt(r *models.Restaurant, req models.CreateOrderRequest) bool {
	if strings.TrimSpace(r.OpeningHours) == "" {
		return true
	}
	sched, err := hours.Parse(r.OpeningHours)
	if err != nil {
		h.Log.Warnw("restaurant has invalid opening hours", "restaurant_id", r.ID, "error", err)
	}
	if !sched.Configured() {
		return true
	}
	return sched.IsOpenAt(req.PickupTime)
}

// GetOrder returns an order by its public order number.
func (h *Handler) GetOrder(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

// CollectOrder is the customer confirming pickup of a ready order.
func (h *Handler) CollectOrder(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	if err := statemachine.CanTransition(order.Status, models.StatusCollected, statemachine.ActorCustomer); err != nil {
		abort(c, http.StatusUnprocessableEntity, gin.H{
			"message":        "Order cannot be marked as collected while " + string(order.Status),
			"current_status": order.Status,
		})
		return
	}

	if err := h.changeStatus(c.Request.Context(), order, models.StatusCollected, "customer", "Collected by customer"); err != nil {
		h.statusError(c, order, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// statusError reports a failed status update; a concurrent change is a
// conflict, anything else a server error.
func (h *Handler) statusError(c *gin.Context, order *models.Order, err error) {
	if errors.Is(err, errStatusChanged) {
		abort(c, http.StatusConflict, "Order status was changed by someone else, reload and try again")
		return
	}
	h.Log.Errorw("failed to update order status", "order_number", order.OrderNumber, "error", err)
	abort(c, http.StatusInternalServerError, "Failed to update order status")
}

// SubmitReview records the single review of a collected order.
func (h *Handler) SubmitReview(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	var req models.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if order.Status != models.StatusCollected {
		abort(c, http.StatusUnprocessableEntity, "Only collected orders can be reviewed")
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var count int64
	if err := db.Model(&models.Review{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		h.Log.Errorw("failed to check review", "order_number", order.OrderNumber, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to submit review")
		return
	}
	if count > 0 {
		abort(c, http.StatusConflict, "This order has already been reviewed")
		return
	}

	review := models.Review{
		OrderID: order.ID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			abort(c, http.StatusConflict, "This order has already been reviewed")
			return
		}
		h.Log.Errorw("failed to save review", "order_number", order.OrderNumber, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to submit review")
		return
	}

	h.Log.Infow("review submitted", "order_number", order.OrderNumber, "rating", review.Rating)
	c.JSON(http.StatusCreated, review)
}

// GetReview answers {"review": null} when the order has not been reviewed.
func (h *Handler) GetReview(c *gin.Context) {
	order, ok := h.findOrder(c)
	if !ok {
		return
	}
	var review models.Review
	err := h.DB.WithContext(c.Request.Context()).Where("order_id = ?", order.ID).First(&review).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusOK, gin.H{"review": nil})
	case err != nil:
		h.Log.Errorw("failed to load review", "order_number", order.OrderNumber, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to load review")
	default:
		c.JSON(http.StatusOK, gin.H{"review": review})
	}
}
