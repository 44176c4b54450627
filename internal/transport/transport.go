package transport

import (
	"net/http"

	"github.com/eventure-dev/eventure-api/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

func InitRoutes(eventHandler *EventHandler, bookingHandler *BookingHandler, userHandler *UserHandler) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetAllEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.GET("/:id/availability", eventHandler.GetEventAvailability)
			events.GET("/manager/:email", eventHandler.GetEventsByOrganizer)
			events.POST("", eventHandler.CreateEvent)
			events.DELETE("/admin-manager/:id", eventHandler.DeleteEvent)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("/create-checkout-session", bookingHandler.CreateCheckoutSession)
			bookings.POST("/confirm", bookingHandler.ConfirmBooking)
			bookings.GET("/:email", bookingHandler.GetUserBookings)
			bookings.DELETE("/:id", bookingHandler.CancelBooking)
		}

		users := api.Group("/users")
		{
			users.GET("", userHandler.GetAllUsers)
			users.GET("/role/:email", userHandler.GetUserRole)
			users.POST("", userHandler.UpsertUser)
			users.PATCH("/request-manager/:email", userHandler.RequestManager)
			users.PATCH("/admin/:id", userHandler.ApproveManager)
			users.DELETE("/delete/:id", userHandler.DeleteUser)
		}
	}

	return router
}
