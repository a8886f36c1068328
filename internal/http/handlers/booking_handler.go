package handlers

import (
	"net/http"

	"busticket/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/bookings?page=&pageSize=
func (h *Handlers) ListBookings(c *gin.Context) {
	list, page, err := h.bookingService(c).History(c.Request.Context(), middleware.UserID(c), pagination(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    list,
		"page":     page.Page,
		"pageSize": page.PageSize,
		"total":    page.Total,
	})
}

// GET /api/v1/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.bookingService(c).GetBooking(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/v1/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.bookingService(c).Cancel(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
