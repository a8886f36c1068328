package handlers

import (
	"net/http"

	"busticket/internal/http/middleware"
	"busticket/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/v1/booking-sessions
func (h *Handlers) StartBookingSession(c *gin.Context) {
	var in services.StartSessionInput
	if !BindJSONOrError(c, &in) {
		return
	}
	sess, err := h.bookingService(c).StartSession(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// GET /api/v1/booking-sessions/:id
func (h *Handlers) GetBookingSession(c *gin.Context) {
	sess, err := h.bookingService(c).GetSession(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// POST /api/v1/booking-sessions/:id/seats/:seat/toggle
// Hitting the seat limit is not an error: the response carries a warning.
func (h *Handlers) ToggleSeat(c *gin.Context) {
	res, err := h.bookingService(c).ToggleSeat(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("seat"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type changeBusTypeRequest struct {
	BusTypeID string `json:"busTypeId"`
}

// PUT /api/v1/booking-sessions/:id/bus-type
func (h *Handlers) ChangeBusType(c *gin.Context) {
	var in changeBusTypeRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	sess, err := h.bookingService(c).ChangeBusType(c.Request.Context(), middleware.UserID(c), c.Param("id"), in.BusTypeID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type setPassengersRequest struct {
	Passengers []services.PassengerInput `json:"passengers"`
}

// PUT /api/v1/booking-sessions/:id/passengers
func (h *Handlers) SetPassengers(c *gin.Context) {
	var in setPassengersRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	sess, err := h.bookingService(c).SetPassengers(c.Request.Context(), middleware.UserID(c), c.Param("id"), in.Passengers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GET /api/v1/booking-sessions/:id/quote
func (h *Handlers) QuoteSession(c *gin.Context) {
	q, err := h.bookingService(c).Quote(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/v1/booking-sessions/:id/confirm
func (h *Handlers) ConfirmSession(c *gin.Context) {
	b, err := h.bookingService(c).Confirm(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}
