package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"click-collect/hours"
	"click-collect/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ── Restaurant Management ────────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name         string `json:"name" binding:"required,max=120"`
	Slug         string `json:"slug" binding:"max=60"`
	Cuisine      string `json:"cuisine"`
	Address      string `json:"address" binding:"required"`
	Phone        string `json:"phone"`
	Description  string `json:"description"`
	OpeningHours string `json:"opening_hours"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns "Joe's Burgers & Co" into "joe-s-burgers-co".
func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// normalizeHours returns the canonical form of the opening hours text, or
// writes a 422 naming the fragments that could not be read.
func normalizeHours(c *gin.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", true
	}
	normalized, err := hours.Normalize(text)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, []FieldError{{
			Loc: []interface{}{"body", "opening_hours"},
			Msg: err.Error(),
		}})
		return "", false
	}
	return normalized, true
}

// CreateRestaurant adds a restaurant to the platform (superadmin only)
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if !bindJSON(c, &req) {
		return
	}

	slug := slugify(req.Slug)
	if slug == "" {
		slug = slugify(req.Name)
	}
	if slug == "" {
		abort(c, http.StatusUnprocessableEntity, []FieldError{{Loc: []interface{}{"body", "slug"}, Msg: "slug must contain letters or digits"}})
		return
	}
	openingHours, ok := normalizeHours(c, req.OpeningHours)
	if !ok {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var count int64
	db.Model(&models.Restaurant{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		abort(c, http.StatusConflict, "A restaurant with slug '"+slug+"' already exists")
		return
	}

	restaurant := models.Restaurant{
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug,
		Cuisine:      req.Cuisine,
		Address:      req.Address,
		Phone:        req.Phone,
		Description:  req.Description,
		OpeningHours: openingHours,
		IsOpen:       true,
	}
	if err := db.Create(&restaurant).Error; err != nil {
		h.Log.Errorw("failed to create restaurant", "slug", slug, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to create restaurant")
		return
	}
	h.Log.Infow("restaurant created", "restaurant_id", restaurant.ID, "slug", slug)
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

func (h *Handler) myRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	id, ok := adminRestaurantID(c)
	if !ok {
		return nil, false
	}
	var restaurant models.Restaurant
	if err := h.DB.WithContext(c.Request.Context()).First(&restaurant, id).Error; err != nil {
		abort(c, http.StatusNotFound, "No restaurant found for your account")
		return nil, false
	}
	return &restaurant, true
}

// GetMyRestaurant fetches the restaurant the logged-in admin manages
func (h *Handler) GetMyRestaurant(c *gin.Context) {
	restaurant, ok := h.myRestaurant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

type UpdateRestaurantRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=120"`
	Cuisine      *string `json:"cuisine"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Description  *string `json:"description"`
	OpeningHours *string `json:"opening_hours"`
	IsOpen       *bool   `json:"is_open"`
}

// UpdateRestaurant changes details of the admin's restaurant. Only fields
// present in the body are written; is_open pauses or resumes ordering.
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	restaurant, ok := h.myRestaurant(c)
	if !ok {
		return
	}
	var req UpdateRestaurantRequest
	if !bindJSON(c, &req) {
		return
	}

	update := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			update[col] = strings.TrimSpace(*v)
		}
	}
	set("name", req.Name)
	set("cuisine", req.Cuisine)
	set("address", req.Address)
	set("phone", req.Phone)
	set("description", req.Description)
	if req.OpeningHours != nil {
		normalized, ok := normalizeHours(c, *req.OpeningHours)
		if !ok {
			return
		}
		update["opening_hours"] = normalized
	}
	if req.IsOpen != nil {
		update["is_open"] = *req.IsOpen
	}

	db := h.DB.WithContext(c.Request.Context())
	if len(update) > 0 {
		if err := db.Model(restaurant).Updates(update).Error; err != nil {
			h.Log.Errorw("failed to update restaurant", "restaurant_id", restaurant.ID, "error", err)
			abort(c, http.StatusInternalServerError, "Failed to update restaurant")
			return
		}
	}
	db.First(restaurant, restaurant.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// ── Menu Management ─────────────────────────────────────────────────────────

type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required,max=120"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	SortOrder   int     `json:"sort_order"`
	IsAvailable *bool   `json:"is_available"`
}

// AddMenuItem adds a new item to the admin's menu
func (h *Handler) AddMenuItem(c *gin.Context) {
	restaurant, ok := h.myRestaurant(c)
	if !ok {
		return
	}
	var req CreateMenuItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		SortOrder:    req.SortOrder,
		IsAvailable:  true,
	}
	db := h.DB.WithContext(c.Request.Context())
	if err := db.Create(&item).Error; err != nil {
		h.Log.Errorw("failed to add menu item", "restaurant_id", restaurant.ID, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to add menu item")
		return
	}
	// gorm skips zero values that have a column default, so false needs its own write
	if req.IsAvailable != nil && !*req.IsAvailable {
		db.Model(&item).Update("is_available", false)
		item.IsAvailable = false
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

func (h *Handler) myMenuItem(c *gin.Context) (*models.MenuItem, bool) {
	restaurantID, ok := adminRestaurantID(c)
	if !ok {
		return nil, false
	}
	var item models.MenuItem
	err := h.DB.WithContext(c.Request.Context()).
		Where("id = ? AND restaurant_id = ?", c.Param("itemId"), restaurantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abort(c, http.StatusNotFound, "Menu item not found")
		return nil, false
	}
	if err != nil {
		h.Log.Errorw("failed to load menu item", "item_id", c.Param("itemId"), "error", err)
		abort(c, http.StatusInternalServerError, "Failed to load menu item")
		return nil, false
	}
	return &item, true
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	SortOrder   *int     `json:"sort_order"`
	IsAvailable *bool    `json:"is_available"`
}

// UpdateMenuItem edits an item; toggling is_available hides it from new orders.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	item, ok := h.myMenuItem(c)
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if !bindJSON(c, &req) {
		return
	}

	update := map[string]interface{}{}
	if req.Name != nil {
		update["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.Category != nil {
		update["category"] = *req.Category
	}
	if req.SortOrder != nil {
		update["sort_order"] = *req.SortOrder
	}
	if req.IsAvailable != nil {
		update["is_available"] = *req.IsAvailable
	}

	db := h.DB.WithContext(c.Request.Context())
	if len(update) > 0 {
		if err := db.Model(item).Updates(update).Error; err != nil {
			h.Log.Errorw("failed to update menu item", "item_id", item.ID, "error", err)
			abort(c, http.StatusInternalServerError, "Failed to update menu item")
			return
		}
	}
	db.First(item, item.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes an item. Past orders keep their snapshot.
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	item, ok := h.myMenuItem(c)
	if !ok {
		return
	}
	if err := h.DB.WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		h.Log.Errorw("failed to delete menu item", "item_id", item.ID, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
