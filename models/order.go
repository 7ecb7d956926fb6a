package models

import "time"

// OrderStatus is the lifecycle state of a click & collect order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusReady     OrderStatus = "ready"
	StatusCollected OrderStatus = "collected"
	StatusCancelled OrderStatus = "cancelled"
)

// Known reports whether s is one of the enumerated statuses.
func (s OrderStatus) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusReady, StatusCollected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCollected || s == StatusCancelled
}

type Order struct {
	ID                  uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber         string               `json:"order_number" gorm:"uniqueIndex;size:16;not null"`
	RestaurantID        uint                 `json:"restaurant_id" gorm:"not null;index"`
	Restaurant          *Restaurant          `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	CustomerName        string               `json:"customer_name" gorm:"not null"`
	CustomerPhone       string               `json:"customer_phone" gorm:"not null"`
	CustomerEmail       string               `json:"customer_email,omitempty"`
	PickupTime          time.Time            `json:"pickup_time" gorm:"not null"`
	SpecialInstructions string               `json:"special_instructions,omitempty"`
	Status              OrderStatus          `json:"status" gorm:"not null;default:'pending';index"`
	Subtotal            float64              `json:"subtotal"`
	Items               []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory       []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"-" gorm:"not null;index"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	Name       string  `json:"name"`                  // snapshot name
	Price      float64 `json:"price" gorm:"not null"` // snapshot price at time of order
	Quantity   int     `json:"quantity" gorm:"not null"`
}

// OrderStatusHistory is the audit trail of every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"-" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string      `json:"changed_by"` // "customer", "admin:<id>" or "superadmin:<id>"
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Review is the customer's rating of a collected order, at most one per order
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"-" gorm:"uniqueIndex;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
