package models

import "time"

type Restaurant struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Slug         string     `json:"slug" gorm:"uniqueIndex;not null"`
	Cuisine      string     `json:"cuisine"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Description  string     `json:"description"`
	OpeningHours string     `json:"opening_hours"` // free text, see package hours
	IsOpen       bool       `json:"is_open" gorm:"default:true"`
	MenuItems    []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	Category     string    `json:"category"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
