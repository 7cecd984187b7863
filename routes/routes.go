package routes

import (
	"apexbooking/handlers"
	"apexbooking/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Booking    *handlers.BookingHandler
	Automation *handlers.AutomationHandler
}

// RegisterRoutes registers all endpoints.
func RegisterRoutes(r *gin.Engine, h *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.GET("/health", handlers.HealthHandler)

	// Public booking flow: customers arrive via a shared link, no account.
	booking := r.Group("/api/booking")
	{
		booking.POST("/hold", h.Booking.CreateHold)
		booking.GET("/session/:sessionID", h.Booking.GetSession)
		booking.POST("/session/:sessionID/standards", h.Booking.AcceptStandards)
		booking.POST("/session/:sessionID/abandon", h.Booking.Abandon)
		booking.GET("/appointment/:appointmentID", h.Booking.GetAppointment)
		booking.POST("/appointment/:appointmentID/expire-check", h.Booking.CheckExpiry)
	}

	// Owner dashboard endpoints, gated on a Firebase ID token.
	owner := r.Group("/api/owner")
	owner.Use(middleware.OwnerAuthMiddleware())
	{
		owner.GET("/appointments", h.Booking.ListAppointments)

		owner.POST("/automations", h.Automation.Create)
		owner.GET("/automations", h.Automation.List)
		owner.GET("/automations/:automationID", h.Automation.Get)
		owner.PUT("/automations/:automationID", h.Automation.Update)
		owner.DELETE("/automations/:automationID", h.Automation.Delete)
	}
}
