package api

import (
	"fitmarket/internal/middleware"
	"fitmarket/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/professionals", h.ListProfessionals)
	r.GET("/professionals/:id", h.GetProfessional)
	r.GET("/categories", h.ListCategories)
	r.GET("/plans", h.ListPlans)
	r.GET("/slots", h.ListSlots)
	r.GET("/slots/:id/availability", h.SlotAvailability)
}

func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/me", h.GetMe)
	r.PUT("/me", h.UpdateMe)

	bookings := r.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", middleware.RequireRole("client", "admin"), h.CreateBooking)
		bookings.PATCH("/:id/status", h.UpdateBookingStatus)
		bookings.DELETE("/:id", h.DeleteBooking)
	}

	slots := r.Group("/slots", middleware.RequireRole("teacher", "admin"))
	{
		slots.POST("", h.CreateSlot)
		slots.PUT("/:id", h.UpdateSlot)
		slots.DELETE("/:id", h.DeleteSlot)
	}

	r.GET("/conversations", h.ListConversations)
	r.GET("/conversations/:userId/messages", h.ListMessages)
	r.POST("/conversations/:userId/read", h.MarkConversationRead)
	r.POST("/messages", h.SendMessage)

	r.GET("/favorites", h.ListFavorites)
	r.POST("/favorites/:professionalId", h.ToggleFavorite)

	r.GET("/notifications", h.ListNotifications)
	r.POST("/notifications/read", h.MarkNotificationsRead)

	plan := r.Group("/me/plan", middleware.RequireRole("teacher"))
	{
		plan.GET("", h.GetMyPlan)
		plan.POST("/:planId", h.RequestPlan)
	}

	r.POST("/sync", h.ForceSync)
	r.GET("/sync/status", h.SyncStatus)
	r.GET("/ws", h.ServeWS)
}

func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/clients", h.ListClients)
	r.GET("/professionals", h.ListAllProfessionals)

	r.POST("/plans", h.SavePlan)
	r.PUT("/plans/:id", h.SavePlan)
	r.DELETE("/plans/:id", h.DeletePlan)

	r.POST("/categories", h.SaveCategory)
	r.PUT("/categories/:id", h.SaveCategory)
	r.DELETE("/categories/:id", h.DeleteCategory)

	pro := r.Group("/professionals/:id/plan")
	{
		pro.PUT("", h.TogglePlan)
		pro.POST("/assign", h.AssignPlan)
		pro.POST("/activate", h.ActivatePlan)
		pro.POST("/suspend", h.SuspendPlan)
		pro.POST("/extend", h.ExtendPlan)
		pro.PUT("/expiry", h.SetPlanExpiry)
	}
}

// Register mounts every group under /api/v1.
func Register(r *gin.Engine, h *Handler, jwtService *jwt.Service) {
	v1 := r.Group("/api/v1")
	RegisterPublicRoutes(v1, h)

	protected := v1.Group("", middleware.JWTAuth(jwtService))
	RegisterProtectedRoutes(protected, h)

	admin := v1.Group("/admin", middleware.JWTAuth(jwtService), middleware.AdminOnly())
	RegisterAdminRoutes(admin, h)
}
