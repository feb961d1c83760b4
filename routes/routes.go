package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rental-backend/controllers"
	"rental-backend/middleware"
)

// SetupRouter wires the controller instances onto the HTTP surface.
func SetupRouter(
	ac *controllers.AvailabilityController,
	hc *controllers.HoldController,
	bc *controllers.BookingController,
	pc *controllers.PricingController,
	cc *controllers.CalendarController,
	blc *controllers.BlackoutController,
	sc *controllers.SettingsController,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	allowCredentials := true
	for _, origin := range corsOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/availability", ac.GetAvailability)
		api.GET("/quote", pc.Quote)

		holds := api.Group("/holds")
		{
			holds.POST("", hc.CreateHold)
			holds.DELETE("/:id", hc.ReleaseHold)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.CreateBooking)
			bookings.GET("/:id", bc.GetBookingByID)
			bookings.POST("/:id/cancel", bc.CancelBooking)
		}

		api.POST("/payments/confirm", bc.ConfirmPayment)

		calendars := api.Group("/calendars")
		{
			calendars.GET("", cc.GetCalendars)
			calendars.POST("", cc.CreateCalendar)
			calendars.DELETE("/:id", cc.DeleteCalendar)
			calendars.POST("/:id/sync", cc.SyncCalendar)
			calendars.GET("/:id/sync-runs", cc.GetSyncRuns)
		}

		blackouts := api.Group("/blackouts")
		{
			blackouts.GET("", blc.GetBlackouts)
			blackouts.POST("", blc.CreateBlackout)
			blackouts.DELETE("/:id", blc.DeleteBlackout)
		}

		rules := api.Group("/pricing-rules")
		{
			rules.GET("", pc.GetPricingRules)
			rules.POST("", pc.CreatePricingRule)
			rules.DELETE("/:id", pc.DeletePricingRule)
		}

		coupons := api.Group("/coupons")
		{
			coupons.GET("", pc.GetCoupons)
			coupons.POST("", pc.CreateCoupon)
			coupons.DELETE("/:id", pc.DeleteCoupon)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", sc.GetSettings)
			settings.PUT("", sc.UpdateSettings)
		}
	}

	return r
}
