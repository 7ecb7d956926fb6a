package models

import (
	"time"
)

// UserRole defines back-office roles; customers order as guests
type UserRole string

const (
	RoleAdmin      UserRole = "admin"      // manages one restaurant
	RoleSuperAdmin UserRole = "superadmin" // manages the platform
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'admin'"`
	RestaurantID *uint     `json:"restaurant_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
