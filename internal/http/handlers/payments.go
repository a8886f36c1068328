package handlers

import (
	"net/http"

	"busticket/internal/domain"
	"busticket/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type initiatePaymentRequest struct {
	MSISDN string `json:"msisdn"`
}

// POST /api/v1/bookings/:id/payments
func (h *Handlers) InitiatePayment(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in initiatePaymentRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := h.paymentService(c).Initiate(c.Request.Context(), middleware.UserID(c), bookingID, in.MSISDN)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, p)
}

// GET /api/v1/payments/:id
func (h *Handlers) GetPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rc := domain.RequestContext{
		UserID: domain.ID(middleware.UserID(c)),
		Role:   middleware.Role(c),
		Token:  middleware.Token(c),
	}
	p, err := h.paymentService(c).Get(c.Request.Context(), rc, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type confirmPaymentRequest struct {
	Success     *bool  `json:"success"`
	ProviderRef string `json:"providerRef"`
}

// POST /api/v1/payments/:id/confirm is the operator callback.
func (h *Handlers) ConfirmPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in confirmPaymentRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.Success == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "success is required", nil)
		return
	}
	p, err := h.paymentService(c).Confirm(c.Request.Context(), id, *in.Success, in.ProviderRef)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
