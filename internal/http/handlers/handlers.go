package handlers

import (
	"database/sql"
	"time"

	"busticket/internal/cache"
	intconfig "busticket/internal/config"
	"busticket/internal/http/middleware"
	"busticket/internal/otp"
	"busticket/internal/repositories"
	"busticket/internal/services"
	"busticket/internal/sessions"

	"github.com/gin-gonic/gin"
)

// Handlers holds what the endpoints share; services are built per request so
// each one logs with that request's id.
type Handlers struct {
	Env     intconfig.Env
	DB      *sql.DB
	Cache   cache.Store
	Sender  otp.Sender
	Gateway services.MoMoGateway
}

func (h *Handlers) db() *sql.DB {
	if h.DB != nil {
		return h.DB
	}
	return intconfig.DB
}

// Tokens is shared with the auth middleware.
func (h *Handlers) Tokens() services.TokenManager {
	return services.TokenManager{
		Secret: []byte(h.Env.JWTSecret),
		TTL:    h.Env.JWTTTL,
		Cache:  h.Cache,
	}
}

func (h *Handlers) otp() otp.Service {
	return otp.Service{
		Cache:    h.Cache,
		Sender:   h.Sender,
		TTL:      h.Env.OTPTTL,
		Cooldown: 30 * time.Second,
	}
}

func (h *Handlers) authService(c *gin.Context) services.AuthService {
	return services.AuthService{
		Users:     repositories.UserRepo{DB: h.db()},
		OTP:       h.otp(),
		Tokens:    h.Tokens(),
		Cache:     h.Cache,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handlers) bookingService(c *gin.Context) services.BookingService {
	db := h.db()
	return services.BookingService{
		Sessions:   sessions.Store{Cache: h.Cache, TTL: h.Env.SessionTTL},
		Bookings:   repositories.BookingRepo{DB: db},
		Seats:      repositories.BookingSeatRepo{DB: db},
		ServiceFee: h.Env.ServiceFee,
		RequestID:  middleware.GetRequestID(c),
	}
}

func (h *Handlers) paymentService(c *gin.Context) services.PaymentService {
	db := h.db()
	return services.PaymentService{
		Payments:  repositories.PaymentRepository{DB: db},
		Bookings:  repositories.BookingRepo{DB: db},
		Gateway:   h.Gateway,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handlers) docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Bookings:  repositories.BookingRepo{DB: h.db()},
		RequestID: middleware.GetRequestID(c),
	}
}
