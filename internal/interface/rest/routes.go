package rest

import (
	"net/http"

	"autocare-service/internal/domain/repository"
	"autocare-service/internal/usecase"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the HTTP surface onto a gin engine.
func SetupRouter(
	vehicles *usecase.VehicleService,
	bookings *usecase.BookingService,
	batches *usecase.BatchScheduler,
	availability *usecase.AvailabilityService,
	sweep *usecase.ReminderSweep,
	centers repository.ServiceCenterRepository,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	vehicleHandler := &VehicleHandler{Vehicles: vehicles}
	bookingHandler := &BookingHandler{Bookings: bookings}
	batchHandler := &BatchHandler{Batches: batches}
	opsHandler := &OpsHandler{Availability: availability, Sweep: sweep, Centers: centers}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	{
		v := apiV1.Group("/vehicles")
		{
			v.POST("", vehicleHandler.Register)
			v.GET("/lookup", vehicleHandler.Lookup)
			v.GET("/:id", vehicleHandler.Get)
			v.PATCH("/:id/odometer", vehicleHandler.UpdateOdometer)
			v.GET("/:id/eligibility", vehicleHandler.Eligibility)
			v.GET("/:id/bookings", bookingHandler.History)
		}

		apiV1.GET("/customers/:id/vehicles", vehicleHandler.ListByCustomer)

		b := apiV1.Group("/bookings")
		{
			b.POST("", bookingHandler.Create)
			b.GET("/:number", bookingHandler.Get)
			b.POST("/:number/confirm", bookingHandler.Confirm)
			b.POST("/:number/schedule", bookingHandler.Schedule)
			b.POST("/:number/start", bookingHandler.Start)
			b.POST("/:number/complete", bookingHandler.Complete)
			b.POST("/:number/cancel", bookingHandler.Cancel)
			b.POST("/:number/no-show", bookingHandler.MarkNoShow)
			b.POST("/:number/reschedule", bookingHandler.Reschedule)
		}

		s := apiV1.Group("/schedule-batches")
		{
			s.POST("", batchHandler.Create)
			s.GET("/:id", batchHandler.Get)
			s.POST("/:id/apply", batchHandler.Reapply)
			s.POST("/:id/bookings/:bookingId", batchHandler.AddBooking)
			s.DELETE("/:id/bookings/:bookingId", batchHandler.RemoveBooking)
		}

		apiV1.GET("/availability", opsHandler.FreeSlots)
		apiV1.GET("/service-centers", opsHandler.ListCenters)
		apiV1.POST("/reminders/sweep", opsHandler.RunSweep)
	}

	return router
}
