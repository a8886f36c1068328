package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"busticket/internal/cache"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/otp"
	"busticket/internal/repositories"
	"busticket/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetGrantTTL = 10 * time.Minute

// AuthService handles business-account registration, login and password resets.
type AuthService struct {
	Users     repositories.UserRepo
	OTP       otp.Service
	Tokens    TokenManager
	Cache     cache.Store
	RequestID string
}

type RegisterInput struct {
	LegalBusinessName string `json:"legalBusinessName"`
	BusinessAddress   string `json:"businessAddress"`
	BusinessType      string `json:"businessType"`
	WhatsappNumber    string `json:"whatsappNumber"`
	Email             string `json:"email"`
	Password          string `json:"password"`
}

type VerifyOTPInput struct {
	WhatsappNumber   string `json:"whatsappNumber"`
	OTP              string `json:"otp"`
	IsPasswordChange bool   `json:"isPasswordChange"`
}

type LoginInput struct {
	Email          string `json:"email"`
	WhatsappNumber string `json:"whatsappNumber"`
	Password       string `json:"password"`
}

type ResetPasswordInput struct {
	WhatsappNumber string `json:"whatsappNumber"`
	OTP            string `json:"otp"`
	ResetToken     string `json:"resetToken"`
	NewPassword    string `json:"newPassword"`
}

// AuthResult is returned on login and successful verification.
type AuthResult struct {
	Token      string      `json:"token,omitempty"`
	ExpiresAt  time.Time   `json:"expiresAt,omitempty"`
	User       models.User `json:"user"`
	ResetToken string      `json:"resetToken,omitempty"`
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	name := utils.NormalizeSpace(in.LegalBusinessName)
	if len([]rune(name)) < 3 {
		return models.User{}, domain.ValidationError{Field: "legalBusinessName", Msg: "business name needs at least 3 characters"}
	}
	msisdn, ok := utils.NormalizeMSISDN(in.WhatsappNumber)
	if !ok {
		return models.User{}, domain.ValidationError{Field: "whatsappNumber", Msg: "invalid whatsapp number"}
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return models.User{}, domain.ValidationError{Field: "email", Msg: "invalid email", Err: err}
		}
	}
	if err := validatePassword(in.Password); err != nil {
		return models.User{}, err
	}

	existing, err := s.Users.GetByWhatsapp(ctx, msisdn)
	found := err == nil
	switch {
	case err == nil && existing.IsVerified:
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "an account already uses this whatsapp number"}
	case err != nil && !domain.IsNotFound(err):
		return models.User{}, domain.InternalError{Msg: "failed to look up account", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	if found {
		// unverified: the latest registration replaces the earlier details
		existing.LegalBusinessName = name
		existing.BusinessAddress = utils.NormalizeSpace(in.BusinessAddress)
		existing.BusinessType = utils.NormalizeSpace(in.BusinessType)
		existing.Email = email
		existing.PasswordHash = string(hash)
		if err := s.Users.ReplaceUnverified(ctx, existing); err != nil {
			if domain.IsConflict(err) {
				return models.User{}, err
			}
			return models.User{}, domain.InternalError{Msg: "failed to update registration", Err: err}
		}
		utils.LogEvent(s.RequestID, "auth", "register", "unverified account re-registered", zapUserID(existing.ID))
		if err := s.issueOTP(ctx, otp.PurposeRegister, msisdn); err != nil {
			return existing, err
		}
		return existing, nil
	}

	u := models.User{
		LegalBusinessName: name,
		BusinessAddress:   utils.NormalizeSpace(in.BusinessAddress),
		BusinessType:      utils.NormalizeSpace(in.BusinessType),
		WhatsappNumber:    msisdn,
		Email:             email,
		PasswordHash:      string(hash),
		Role:              domain.RoleUser,
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	u.ID = id
	utils.LogEvent(s.RequestID, "auth", "register", "account created", zapUserID(id))

	if err := s.issueOTP(ctx, otp.PurposeRegister, msisdn); err != nil {
		return u, err
	}
	return u, nil
}

// VerifyOTP completes registration, or opens a password-reset grant when
// IsPasswordChange is set.
func (s AuthService) VerifyOTP(ctx context.Context, in VerifyOTPInput) (AuthResult, error) {
	msisdn, ok := utils.NormalizeMSISDN(in.WhatsappNumber)
	if !ok {
		return AuthResult{}, domain.ValidationError{Field: "whatsappNumber", Msg: "invalid whatsapp number"}
	}
	code := strings.TrimSpace(in.OTP)
	if code == "" {
		return AuthResult{}, domain.ValidationError{Field: "otp", Msg: "otp is required"}
	}
	u, err := s.Users.GetByWhatsapp(ctx, msisdn)
	if err != nil {
		return AuthResult{}, err
	}

	purpose := otp.PurposeRegister
	if in.IsPasswordChange {
		purpose = otp.PurposePasswordReset
	}
	if err := s.OTP.Verify(ctx, purpose, msisdn, code); err != nil {
		return AuthResult{}, otpError(err)
	}

	if in.IsPasswordChange {
		grant := uuid.NewString()
		if err := s.Cache.Set(ctx, resetGrantKey(msisdn), grant, resetGrantTTL); err != nil {
			return AuthResult{}, domain.InternalError{Msg: "failed to open password reset", Err: err}
		}
		return AuthResult{User: u, ResetToken: grant}, nil
	}

	if !u.IsVerified {
		if err := s.Users.MarkVerified(ctx, u.ID); err != nil {
			return AuthResult{}, domain.InternalError{Msg: "failed to verify account", Err: err}
		}
		u.IsVerified = true
	}
	utils.LogEvent(s.RequestID, "auth", "verify_otp", "account verified", zapUserID(u.ID))
	return s.session(u)
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	var (
		u   models.User
		err error
	)
	switch {
	case strings.TrimSpace(in.Email) != "":
		u, err = s.Users.GetByEmail(ctx, in.Email)
	case strings.TrimSpace(in.WhatsappNumber) != "":
		msisdn, ok := utils.NormalizeMSISDN(in.WhatsappNumber)
		if !ok {
			return AuthResult{}, domain.ValidationError{Field: "whatsappNumber", Msg: "invalid whatsapp number"}
		}
		u, err = s.Users.GetByWhatsapp(ctx, msisdn)
	default:
		return AuthResult{}, domain.ValidationError{Field: "email", Msg: "email or whatsapp number is required"}
	}
	if domain.IsNotFound(err) {
		return AuthResult{}, domain.UnauthorizedError{Msg: "wrong credentials"}
	}
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "failed to look up account", Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return AuthResult{}, domain.UnauthorizedError{Msg: "wrong credentials"}
	}
	if !u.IsVerified {
		return AuthResult{}, domain.ForbiddenError{Msg: "account not verified, check your whatsapp for the code"}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "login ok", zapUserID(u.ID))
	return s.session(u)
}

func (s AuthService) ForgotPassword(ctx context.Context, whatsappNumber string) error {
	msisdn, ok := utils.NormalizeMSISDN(whatsappNumber)
	if !ok {
		return domain.ValidationError{Field: "whatsappNumber", Msg: "invalid whatsapp number"}
	}
	if _, err := s.Users.GetByWhatsapp(ctx, msisdn); err != nil {
		return err
	}
	return s.issueOTP(ctx, otp.PurposePasswordReset, msisdn)
}

// ResetPassword accepts either a fresh OTP or the grant returned by VerifyOTP.
func (s AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	msisdn, ok := utils.NormalizeMSISDN(in.WhatsappNumber)
	if !ok {
		return domain.ValidationError{Field: "whatsappNumber", Msg: "invalid whatsapp number"}
	}
	if err := validatePassword(in.NewPassword); err != nil {
		return err
	}
	u, err := s.Users.GetByWhatsapp(ctx, msisdn)
	if err != nil {
		return err
	}

	if code := strings.TrimSpace(in.OTP); code != "" {
		if err := s.OTP.Verify(ctx, otp.PurposePasswordReset, msisdn, code); err != nil {
			return otpError(err)
		}
	} else {
		grant, err := s.Cache.Get(ctx, resetGrantKey(msisdn))
		if errors.Is(err, cache.ErrMiss) {
			return domain.ValidationError{Field: "otp", Msg: "verify the code sent to your whatsapp first"}
		}
		if err != nil {
			return domain.InternalError{Msg: "failed to read reset grant", Err: err}
		}
		token := strings.TrimSpace(in.ResetToken)
		if token == "" {
			return domain.ValidationError{Field: "resetToken", Msg: "reset token or otp is required"}
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(grant)) != 1 {
			return domain.ValidationError{Field: "resetToken", Msg: "reset token does not match"}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return domain.InternalError{Msg: "failed to update password", Err: err}
	}
	_ = s.Cache.Del(ctx, resetGrantKey(msisdn))
	utils.LogEvent(s.RequestID, "auth", "reset_password", "password changed", zapUserID(u.ID))
	return nil
}

func (s AuthService) Me(ctx context.Context, userID int64) (models.User, error) {
	return s.Users.GetByID(ctx, userID)
}

func (s AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Tokens.Parse(ctx, token)
	if err != nil {
		return err
	}
	if err := s.Tokens.Revoke(ctx, token, claims.ExpiresAt.Time); err != nil {
		return domain.InternalError{Msg: "failed to revoke token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "logout", "token revoked", zapUserID(claims.UserID()))
	return nil
}

func (s AuthService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	return s.Users.GetByID(ctx, userID)
}

func (s AuthService) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (models.User, error) {
	if upd.Empty() {
		return models.User{}, domain.ValidationError{Field: "body", Msg: "nothing to update"}
	}
	if upd.LegalBusinessName != nil && len([]rune(utils.NormalizeSpace(*upd.LegalBusinessName))) < 3 {
		return models.User{}, domain.ValidationError{Field: "legalBusinessName", Msg: "business name needs at least 3 characters"}
	}
	if upd.PhoneNumber != nil && strings.TrimSpace(*upd.PhoneNumber) != "" {
		msisdn, ok := utils.NormalizeMSISDN(*upd.PhoneNumber)
		if !ok {
			return models.User{}, domain.ValidationError{Field: "phoneNumber", Msg: "invalid phone number"}
		}
		upd.PhoneNumber = &msisdn
	}
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return models.User{}, err
	}
	if err := s.Users.UpdateProfile(ctx, userID, upd); err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to update profile", Err: err}
	}
	return s.Users.GetByID(ctx, userID)
}

func (s AuthService) session(u models.User) (AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "failed to issue token", Err: err}
	}
	return AuthResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s AuthService) issueOTP(ctx context.Context, purpose, msisdn string) error {
	if err := s.OTP.Issue(ctx, purpose, msisdn); err != nil {
		if errors.Is(err, otp.ErrResendTooEarly) {
			return domain.ValidationError{Field: "whatsappNumber", Msg: err.Error(), Err: err}
		}
		return domain.InternalError{Msg: "failed to send verification code", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "otp_sent", "code sent to "+utils.MaskMSISDN(msisdn))
	return nil
}

func otpError(err error) error {
	if errors.Is(err, otp.ErrInvalidCode) || errors.Is(err, otp.ErrExpired) {
		return domain.ValidationError{Field: "otp", Msg: err.Error(), Err: err}
	}
	return domain.InternalError{Msg: "otp check failed", Err: err}
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return domain.ValidationError{Field: "password", Msg: "password needs at least 8 characters"}
	}
	var digit, lower, upper bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	if !digit || !lower || !upper {
		return domain.ValidationError{Field: "password", Msg: "password needs a number, a lowercase and an uppercase letter"}
	}
	return nil
}

func resetGrantKey(msisdn string) string { return fmt.Sprintf("reset-grant:%s", msisdn) }
