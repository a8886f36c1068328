package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "busticket/internal/config"
	"busticket/internal/domain/models"
)

// TripSalesFilter narrows the sales report; empty fields match everything.
type TripSalesFilter struct {
	AgencyID  string
	StartDate string
	EndDate   string
}

type TripsRepository struct {
	DB *sql.DB
}

func (r TripsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListTripSales groups non-cancelled bookings per trip, newest travel date first.
func (r TripsRepository) ListTripSales(ctx context.Context, f TripSalesFilter) ([]models.TripSales, error) {
	db := r.db()
	if db == nil {
		return []models.TripSales{}, nil
	}

	where := []string{"b.status <> 'cancelled'"}
	args := []any{}
	if v := strings.TrimSpace(f.AgencyID); v != "" {
		where = append(where, "b.agency_id = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.StartDate); v != "" {
		where = append(where, "b.travel_date >= ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.EndDate); v != "" {
		where = append(where, "b.travel_date <= ?")
		args = append(args, v)
	}

	q := `
		SELECT b.agency_id, b.bus_type_id, b.route_from, b.route_to, DATE_FORMAT(b.travel_date, '%Y-%m-%d') AS day,
		       COUNT(*),
		       COALESCE(SUM((SELECT COUNT(*) FROM booking_seats s WHERE s.booking_id = b.id)), 0),
		       COALESCE(SUM(CASE WHEN b.payment_status = 'paid' THEN b.total ELSE 0 END), 0)
		FROM bookings b
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY b.agency_id, b.bus_type_id, b.route_from, b.route_to, day
		ORDER BY day DESC, b.agency_id ASC`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TripSales{}
	for rows.Next() {
		var t models.TripSales
		if err := rows.Scan(&t.AgencyID, &t.BusTypeID, &t.RouteFrom, &t.RouteTo, &t.TravelDate,
			&t.Bookings, &t.SeatsSold, &t.Revenue); err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Manifest lists the occupied seats of one trip with their passengers, seat order.
func (r TripsRepository) Manifest(ctx context.Context, trip models.TripKey) ([]models.ManifestEntry, error) {
	db := r.db()
	if db == nil {
		return []models.ManifestEntry{}, nil
	}
	rows, err := db.QueryContext(ctx, `
		SELECT s.seat_number, COALESCE(p.passenger_name,''), COALESCE(p.id_number,''), b.reference, b.payment_status
		FROM booking_seats s
		JOIN bookings b ON b.id = s.booking_id
		LEFT JOIN booking_passengers p ON p.booking_id = s.booking_id AND p.seat_number = s.seat_number
		WHERE s.agency_id=? AND s.bus_type_id=? AND s.route_from=? AND s.route_to=? AND s.travel_date=?
		  AND b.status <> 'cancelled'
		ORDER BY CAST(s.seat_number AS UNSIGNED) ASC`,
		trip.AgencyID, trip.BusTypeID, trip.RouteFrom, trip.RouteTo, trip.TravelDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ManifestEntry{}
	for rows.Next() {
		var e models.ManifestEntry
		if err := rows.Scan(&e.SeatNumber, &e.PassengerName, &e.IDNumber, &e.Reference, &e.PaymentStatus); err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
