package models

import "time"

// User is a business account.
type User struct {
	ID                int64     `json:"id"`
	LegalBusinessName string    `json:"legalBusinessName"`
	BusinessAddress   string    `json:"businessAddress"`
	BusinessType      string    `json:"businessType"`
	WhatsappNumber    string    `json:"whatsappNumber"`
	Email             string    `json:"email,omitempty"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	IsVerified        bool      `json:"isVerified"`
	FullName          string    `json:"fullName"`
	PhoneNumber       string    `json:"phoneNumber"`
	IDCardNumber      string    `json:"idCardNumber"`
	IDPhoto           string    `json:"idPhoto"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ProfileUpdate supports PATCH-style updates via pointer presence.
type ProfileUpdate struct {
	LegalBusinessName *string `json:"legalBusinessName"`
	BusinessAddress   *string `json:"businessAddress"`
	BusinessType      *string `json:"businessType"`
	FullName          *string `json:"fullName"`
	PhoneNumber       *string `json:"phoneNumber"`
	IDCardNumber      *string `json:"idCardNumber"`
	IDPhoto           *string `json:"idPhoto"`
}

func (u ProfileUpdate) Empty() bool {
	return u.LegalBusinessName == nil && u.BusinessAddress == nil && u.BusinessType == nil && u.FullName == nil && u.PhoneNumber == nil &&
		u.IDCardNumber == nil && u.IDPhoto == nil
}
