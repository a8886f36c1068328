package models

import "time"

const MethodMoMo = "momo"

// Payment is a mobile-money charge against a booking.
type Payment struct {
	ID          int64     `json:"id"`
	BookingID   int64     `json:"bookingId"`
	Method      string    `json:"method"`
	MSISDN      string    `json:"msisdn"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	ProviderRef string    `json:"providerRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
