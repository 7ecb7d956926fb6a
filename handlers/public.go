package handlers

import (
	"errors"
	"net/http"

	"click-collect/models"
	"click-collect/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) restaurantBySlug(c *gin.Context) (*models.Restaurant, bool) {
	var restaurant models.Restaurant
	err := h.DB.WithContext(c.Request.Context()).Where("slug = ?", c.Param("slug")).First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abort(c, http.StatusNotFound, "Restaurant not found")
		return nil, false
	}
	if err != nil {
		h.Log.Errorw("failed to load restaurant", "slug", c.Param("slug"), "error", err)
		abort(c, http.StatusInternalServerError, "Failed to load restaurant")
		return nil, false
	}
	return &restaurant, true
}

// ListRestaurants returns all restaurants, optionally filtered by cuisine,
// name search or open flag.
func (h *Handler) ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := h.DB.WithContext(c.Request.Context()).Order("name")

	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("cuisine LIKE ?", "%"+cuisine+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if c.Query("open") == "true" {
		query = query.Where("is_open = ?", true)
	}

	if err := query.Find(&restaurants).Error; err != nil {
		h.Log.Errorw("failed to list restaurants", "error", err)
		abort(c, http.StatusInternalServerError, "Failed to list restaurants")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	restaurant, ok := h.restaurantBySlug(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu lists a restaurant's menu in display order. Unavailable items are
// included so the page can show them greyed out; ?available=true hides them.
func (h *Handler) GetMenu(c *gin.Context) {
	restaurant, ok := h.restaurantBySlug(c)
	if !ok {
		return
	}

	var items []models.MenuItem
	query := h.DB.WithContext(c.Request.Context()).
		Where("restaurant_id = ?", restaurant.ID).
		Order("sort_order, category, name")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	if err := query.Find(&items).Error; err != nil {
		h.Log.Errorw("failed to load menu", "restaurant_id", restaurant.ID, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to load menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
		"count":      len(items),
		"menu":       items,
	})
}

// GetStateMachineInfo documents the order lifecycle.
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []models.OrderStatus{models.StatusCollected, models.StatusCancelled},
		"description":     "Click & collect order lifecycle",
	})
}
