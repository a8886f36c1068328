package handlers

import (
	"net/http"

	"busticket/internal/http/middleware"
	"busticket/internal/services"

	"github.com/gin-gonic/gin"
)

func authPayload(res services.AuthResult) gin.H {
	return gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"data":      gin.H{"user": res.User},
	}
}

// POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var in services.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.authService(c).Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "account created, a verification code was sent on WhatsApp",
		"data":    gin.H{"user": u},
	})
}

// POST /api/v1/auth/verify-otp
func (h *Handlers) VerifyOTP(c *gin.Context) {
	var in services.VerifyOTPInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.authService(c).VerifyOTP(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if in.IsPasswordChange {
		c.JSON(http.StatusOK, gin.H{"message": "code verified", "resetToken": res.ResetToken})
		return
	}
	c.JSON(http.StatusOK, authPayload(res))
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var in services.LoginInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.authService(c).Login(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, authPayload(res))
}

type forgotPasswordRequest struct {
	WhatsappNumber string `json:"whatsappNumber"`
}

// POST /api/v1/auth/forgot-password
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var in forgotPasswordRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	if err := h.authService(c).ForgotPassword(c.Request.Context(), in.WhatsappNumber); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "a reset code was sent on WhatsApp"})
}

// PUT /api/v1/auth/reset-password
func (h *Handlers) ResetPassword(c *gin.Context) {
	var in services.ResetPasswordInput
	if !BindJSONOrError(c, &in) {
		return
	}
	if err := h.authService(c).ResetPassword(c.Request.Context(), in); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.authService(c).Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": u}})
}

// GET /api/v1/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.authService(c).Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
