package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"

	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Booking is a confirmed selection persisted for one trip.
type Booking struct {
	ID            int64              `json:"id"`
	Reference     string             `json:"reference"`
	UserID        int64              `json:"userId"`
	AgencyID      string             `json:"agencyId"`
	BusTypeID     string             `json:"busTypeId"`
	RouteFrom     string             `json:"from"`
	RouteTo       string             `json:"to"`
	TravelDate    string             `json:"travelDate"`
	Seats         []string           `json:"seats"`
	Passengers    []BookingPassenger `json:"passengers,omitempty"`
	PricePerSeat  int64              `json:"pricePerSeat"`
	ServiceFee    int64              `json:"serviceFee"`
	Total         int64              `json:"total"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"paymentStatus"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// BookingSeat is one sold seat on a trip.
type BookingSeat struct {
	BookingID  int64
	AgencyID   string
	BusTypeID  string
	RouteFrom  string
	RouteTo    string
	TravelDate string
	SeatNumber string
}

// TripKey identifies the trip a seat is sold on.
type TripKey struct {
	AgencyID   string
	BusTypeID  string
	RouteFrom  string
	RouteTo    string
	TravelDate string
}

type BookingPassenger struct {
	SeatNumber string `json:"seatNumber"`
	Name       string `json:"name"`
	IDNumber   string `json:"idNumber"`
	IDPhoto    string `json:"idPhoto,omitempty"`
}
