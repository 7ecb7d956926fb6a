package models

import "time"

// OrderLine is one requested menu item in CreateOrderRequest
type OrderLine struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1,max=50"`
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	RestaurantID        uint        `json:"restaurant_id" binding:"required"`
	CustomerName        string      `json:"customer_name" binding:"required,max=100"`
	CustomerPhone       string      `json:"customer_phone" binding:"required,max=32"`
	CustomerEmail       string      `json:"customer_email,omitempty" binding:"omitempty,email"`
	PickupTime          time.Time   `json:"pickup_time" binding:"required"`
	SpecialInstructions string      `json:"special_instructions,omitempty" binding:"max=500"`
	Items               []OrderLine `json:"items" binding:"required,min=1,dive"`
}

// ReviewRequest is the body of POST /orders/{orderNumber}/review
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" binding:"max=1000"`
}
