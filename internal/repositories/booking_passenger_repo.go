package repositories

import (
	"context"
	"database/sql"

	intconfig "busticket/internal/config"
	"busticket/internal/domain/models"
)

type BookingPassengerRepo struct {
	DB *sql.DB
}

func (r BookingPassengerRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingPassengerRepo) ListByBooking(ctx context.Context, bookingID int64) ([]models.BookingPassenger, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT seat_number, passenger_name, id_number, COALESCE(id_photo,'')
		FROM booking_passengers WHERE booking_id=? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingPassenger{}
	for rows.Next() {
		var p models.BookingPassenger
		if err := rows.Scan(&p.SeatNumber, &p.Name, &p.IDNumber, &p.IDPhoto); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
