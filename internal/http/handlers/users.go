package handlers

import (
	"net/http"

	"busticket/internal/domain/models"
	"busticket/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/profile/me
func (h *Handlers) GetProfile(c *gin.Context) {
	u, err := h.authService(c).GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PATCH /api/v1/profile/update
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var in models.ProfileUpdate
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.authService(c).UpdateProfile(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
