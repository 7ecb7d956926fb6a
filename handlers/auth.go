package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"click-collect/middleware"
	"click-collect/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required,min=8"`
	Role         models.UserRole `json:"role" binding:"required,oneof=admin superadmin"`
	RestaurantID *uint           `json:"restaurant_id"`
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"role":          u.Role,
		"restaurant_id": u.RestaurantID,
	}
}

// Login authenticates a back-office user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	err := h.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil {
		abort(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.Log.Warnw("failed login", "email", user.Email)
		abort(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(&user, h.JWTSecret)
	if err != nil {
		h.Log.Errorw("failed to sign token", "user_id", user.ID, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userResponse(&user),
	})
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, middleware.GetUserID(c)).Error; err != nil {
		abort(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}

// CreateUser adds a back-office account (superadmin only). Restaurant admins
// must be linked to an existing restaurant.
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	db := h.DB.WithContext(c.Request.Context())

	if req.Role == models.RoleAdmin {
		if req.RestaurantID == nil {
			abort(c, http.StatusUnprocessableEntity, []FieldError{{
				Loc: []interface{}{"body", "restaurant_id"},
				Msg: "field required for role admin",
			}})
			return
		}
		var restaurant models.Restaurant
		if err := db.First(&restaurant, *req.RestaurantID).Error; err != nil {
			abort(c, http.StatusNotFound, "Restaurant not found")
			return
		}
	}

	user, err := createUser(c.Request.Context(), db, req.Name, req.Email, req.Password, req.Role, req.RestaurantID)
	if errors.Is(err, errEmailTaken) {
		abort(c, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		h.Log.Errorw("failed to create user", "email", req.Email, "error", err)
		abort(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.Log.Infow("user created", "user_id", user.ID, "role", user.Role, "by", changedBy(c))
	c.JSON(http.StatusCreated, gin.H{"message": "Account created", "user": userResponse(user)})
}

var errEmailTaken = errors.New("email already registered")

func createUser(ctx context.Context, db *gorm.DB, name, email, password string, role models.UserRole, restaurantID *uint) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		RestaurantID: restaurantID,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureSuperAdmin creates the first superadmin account when it does not
// exist yet. It reports whether an account was created.
func EnsureSuperAdmin(ctx context.Context, db *gorm.DB, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	_, err := createUser(ctx, db, "Super Admin", email, password, models.RoleSuperAdmin, nil)
	if errors.Is(err, errEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed superadmin: %w", err)
	}
	return true, nil
}
