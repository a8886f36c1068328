package handlers

import (
	"net/http"

	"busticket/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/bookings/:id/e-ticket returns the PDF inline.
func (h *Handlers) GetETicket(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	pdfBytes, filename, err := h.docsService(c).GenerateETicket(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
