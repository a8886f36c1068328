package services

import (
	"context"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var userCols = []string{"id", "legal_business_name", "business_address", "business_type", "whatsapp_number", "email",
	"password_hash", "role", "is_verified", "full_name", "phone_number", "id_card_number", "id_photo", "created_at", "updated_at"}

func userRows(id int64, msisdn, hash string, verified bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userCols).
		AddRow(id, "Acme Travel", "Akwa", "Transport", msisdn, "acme@example.com", hash, "user", verified, "", "", "", "", now, now)
}

var bookingCols = []string{"id", "reference", "user_id", "agency_id", "bus_type_id", "route_from", "route_to",
	"travel_date", "price_per_seat", "service_fee", "total", "status", "payment_status", "created_at"}

func bookingRows(id, userID int64, status, paymentStatus string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).
		AddRow(id, "BK-TEST0001", userID, "agency1", "30", "Douala", "Yaounde", "2030-01-15", 6500, 500, 13500, status, paymentStatus, time.Now())
}

// expectBookingLoad mocks BookingRepo.GetByID including seats and passengers.
func expectBookingLoad(mock sqlmock.Sqlmock, id, userID int64, status, paymentStatus string) {
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(id).WillReturnRows(bookingRows(id, userID, status, paymentStatus))
	mock.ExpectQuery("SELECT seat_number FROM booking_seats").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("3").AddRow("4"))
	mock.ExpectQuery("FROM booking_passengers").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "passenger_name", "id_number", "id_photo"}).
			AddRow("3", "Ada", "CM1", "").AddRow("4", "Bo", "CM2", ""))
}

type captureSender struct {
	to, msg string
}

func (c *captureSender) Send(_ context.Context, msisdn, message string) error {
	c.to, c.msg = msisdn, message
	return nil
}
