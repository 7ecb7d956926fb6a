package middleware

import (
	"net/http"
	"strings"
	"time"

	"click-collect/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 12 * time.Hour

const (
	ctxUserID       = "userID"
	ctxRole         = "role"
	ctxRestaurantID = "restaurantID"
)

type Claims struct {
	UserID       uint            `json:"user_id"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	RestaurantID *uint           `json:"restaurant_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a back-office user
func GenerateToken(user *models.User, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		RestaurantID: user.RestaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// AuthRequired validates the bearer token and puts its claims on the context
func AuthRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header required (Bearer <token>)"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		if claims.RestaurantID != nil {
			c.Set(ctxRestaurantID, *claims.RestaurantID)
		}
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return func(c *gin.Context) {
		caller := GetRole(c)
		for _, r := range roles {
			if caller == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"detail": "Access denied. Required role(s): " + strings.Join(allowed, ", "),
		})
	}
}

func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func GetRole(c *gin.Context) models.UserRole {
	val, _ := c.Get(ctxRole)
	role, _ := val.(models.UserRole)
	return role
}

// GetRestaurantID returns the restaurant an admin token is scoped to.
func GetRestaurantID(c *gin.Context) (uint, bool) {
	val, ok := c.Get(ctxRestaurantID)
	if !ok {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
