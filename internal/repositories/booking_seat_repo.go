package repositories

import (
	"context"
	"database/sql"

	intconfig "busticket/internal/config"
	"busticket/internal/domain/models"
)

type BookingSeatRepo struct {
	DB *sql.DB
}

func (r BookingSeatRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingSeatRepo) ListByBooking(ctx context.Context, bookingID int64) ([]string, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT seat_number FROM booking_seats WHERE booking_id=? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// SoldSeats lists seat numbers held on a trip by bookings that are not cancelled.
func (r BookingSeatRepo) SoldSeats(ctx context.Context, trip models.TripKey) ([]string, error) {
	db := r.db()
	if db == nil {
		return []string{}, nil
	}
	rows, err := db.QueryContext(ctx, `
		SELECT s.seat_number
		FROM booking_seats s
		JOIN bookings b ON b.id = s.booking_id
		WHERE s.agency_id=? AND s.bus_type_id=? AND s.route_from=? AND s.route_to=? AND s.travel_date=?
		  AND s.active = 1 AND b.status <> 'cancelled'`,
		trip.AgencyID, trip.BusTypeID, trip.RouteFrom, trip.RouteTo, trip.TravelDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
