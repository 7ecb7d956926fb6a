package routes

import (
	"net/http"

	"click-collect/handlers"
	"click-collect/middleware"
	"click-collect/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Click & Collect Order API",
		})
	})

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)

		// Catalogue
		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:slug", h.GetRestaurant)
		public.GET("/restaurants/:slug/menu", h.GetMenu)

		// Guest orders, addressed by order number
		public.POST("/orders", h.CreateOrder)
		public.GET("/orders/:orderNumber", h.GetOrder)
		public.POST("/orders/:orderNumber/collect", h.CollectOrder)
		public.POST("/orders/:orderNumber/review", h.SubmitReview)
		public.GET("/orders/:orderNumber/review", h.GetReview)

		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	auth := middleware.AuthRequired(h.JWTSecret)

	backOffice := r.Group("/api")
	backOffice.Use(auth, middleware.RoleRequired(models.RoleAdmin, models.RoleSuperAdmin))
	{
		backOffice.GET("/profile", h.GetProfile)
		backOffice.GET("/orders/:orderNumber/history", h.GetOrderHistory)
	}

	// ── Restaurant admin routes ────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(auth, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/restaurant", h.GetMyRestaurant)
		admin.PUT("/restaurant", h.UpdateRestaurant)

		admin.POST("/menu", h.AddMenuItem)
		admin.PUT("/menu/:itemId", h.UpdateMenuItem)
		admin.DELETE("/menu/:itemId", h.DeleteMenuItem)

		admin.GET("/orders", h.GetRestaurantOrders)
		admin.PUT("/orders/:orderNumber/status", h.UpdateOrderStatus)
	}

	// ── Superadmin routes ──────────────────────────────────────────
	super := r.Group("/api/superadmin")
	super.Use(auth, middleware.RoleRequired(models.RoleSuperAdmin))
	{
		super.POST("/restaurants", h.CreateRestaurant)
		super.POST("/users", h.CreateUser)
		super.GET("/users", h.AdminGetAllUsers)
		super.GET("/orders", h.AdminGetAllOrders)
		super.PUT("/orders/:orderNumber/status", h.AdminForceOrderStatus)
	}
}
