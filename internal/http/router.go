package api

import (
	stdhttp "net/http"

	"busticket/internal/domain"
	h "busticket/internal/http/handlers"
	"busticket/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(hs *h.Handlers) *gin.Engine {
	env := hs.Env
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.AllowedOrigins()),
		middleware.NewRateLimiter(env.RateLimitPerMin).Middleware(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		zap.L().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/health", h.Health)
	r.GET("/api/routes", h.Routes)

	auth := middleware.RequireAuth(hs.Tokens())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.GET("/db-check", hs.DBCheck)

		// Auth
		a := v1.Group("/auth")
		a.POST("/register", hs.Register)
		a.POST("/verify-otp", hs.VerifyOTP)
		a.POST("/login", hs.Login)
		a.POST("/forgot-password", hs.ForgotPassword)
		a.PUT("/reset-password", hs.ResetPassword)
		a.GET("/me", auth, hs.Me)
		a.GET("/logout", auth, hs.Logout)

		// Profile
		profile := v1.Group("/profile", auth)
		profile.GET("/me", hs.GetProfile)
		profile.PATCH("/update", hs.UpdateProfile)

		// Catalog
		v1.GET("/cities", h.ListCities)
		v1.GET("/agencies", h.ListAgencies)
		v1.GET("/agencies/:id", h.GetAgency)
		v1.GET("/bus-types", h.ListBusTypes)
		v1.GET("/bus-types/:id/layout", h.GetBusTypeLayout)

		// Booking sessions
		sessions := v1.Group("/booking-sessions", auth)
		sessions.POST("", hs.StartBookingSession)
		sessions.GET("/:id", hs.GetBookingSession)
		sessions.POST("/:id/seats/:seat/toggle", hs.ToggleSeat)
		sessions.PUT("/:id/bus-type", hs.ChangeBusType)
		sessions.PUT("/:id/passengers", hs.SetPassengers)
		sessions.GET("/:id/quote", hs.QuoteSession)
		sessions.POST("/:id/confirm", hs.ConfirmSession)

		// Bookings
		bookings := v1.Group("/bookings", auth)
		bookings.GET("", hs.ListBookings)
		bookings.GET("/:id", hs.GetBooking)
		bookings.POST("/:id/cancel", hs.CancelBooking)
		bookings.GET("/:id/e-ticket", hs.GetETicket)
		bookings.POST("/:id/payments", hs.InitiatePayment)

		// Payments
		payments := v1.Group("/payments", auth)
		payments.GET("/:id", hs.GetPayment)
		payments.POST("/:id/confirm", middleware.RequireRoles(domain.RoleAdmin, domain.RoleAgency), hs.ConfirmPayment)

		// Operator reports
		reports := v1.Group("/reports", auth, middleware.RequireRoles(domain.RoleAdmin, domain.RoleAgency))
		reports.GET("/sales", hs.GetSalesReport)
		reports.GET("/manifest", hs.GetTripManifest)
	}

	h.SetRouter(r)
	return r
}
