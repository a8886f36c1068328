package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "busticket/internal/config"
	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create stores the booking, its seats and passengers in one transaction.
// A seat already sold on the same trip yields a ConflictError.
func (r BookingRepo) Create(ctx context.Context, b models.Booking) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db not available"}
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (reference, user_id, agency_id, bus_type_id, route_from, route_to, travel_date,
			price_per_seat, service_fee, total, status, payment_status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Reference, b.UserID, b.AgencyID, b.BusTypeID, b.RouteFrom, b.RouteTo, b.TravelDate,
		b.PricePerSeat, b.ServiceFee, b.Total, b.Status, b.PaymentStatus)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, seat := range b.Seats {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO booking_seats (booking_id, agency_id, bus_type_id, route_from, route_to, travel_date, seat_number)
			VALUES (?,?,?,?,?,?,?)`,
			id, b.AgencyID, b.BusTypeID, b.RouteFrom, b.RouteTo, b.TravelDate, seat)
		if err != nil {
			if intdb.IsDuplicateKey(err) {
				return 0, domain.ConflictError{Resource: "seat", Msg: "seat " + seat + " is already sold for this trip", Err: err}
			}
			return 0, fmt.Errorf("insert seat %s: %w", seat, err)
		}
	}

	for _, p := range b.Passengers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO booking_passengers (booking_id, seat_number, passenger_name, id_number, id_photo)
			VALUES (?,?,?,?,?)`,
			id, p.SeatNumber, p.Name, p.IDNumber, intdb.NullIfEmpty(p.IDPhoto))
		if err != nil {
			return 0, fmt.Errorf("insert passenger %s: %w", p.SeatNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const bookingColumns = `id, reference, user_id, agency_id, bus_type_id, route_from, route_to,
	DATE_FORMAT(travel_date, '%Y-%m-%d'), price_per_seat, service_fee, total, status, payment_status, created_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.AgencyID, &b.BusTypeID, &b.RouteFrom, &b.RouteTo,
		&b.TravelDate, &b.PricePerSeat, &b.ServiceFee, &b.Total, &b.Status, &b.PaymentStatus, &b.CreatedAt)
	return b, err
}

// GetByID returns the booking with its seats and passengers.
func (r BookingRepo) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid booking id"}
	}
	db := r.db()
	if db == nil {
		return models.Booking{}, domain.InternalError{Msg: "db not available"}
	}
	b, err := scanBooking(db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, err
	}

	seats := BookingSeatRepo{DB: db}
	if b.Seats, err = seats.ListByBooking(ctx, id); err != nil {
		return b, err
	}
	if b.Passengers, err = (BookingPassengerRepo{DB: db}).ListByBooking(ctx, id); err != nil {
		return b, err
	}
	return b, nil
}

// ListByUser returns the user's bookings newest first, with seats, and the total count.
func (r BookingRepo) ListByUser(ctx context.Context, userID int64, page domain.Pagination) ([]models.Booking, int, error) {
	db := r.db()
	if db == nil {
		return nil, 0, domain.InternalError{Msg: "db not available"}
	}
	page = page.Normalize()

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id=?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, userID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	seats := BookingSeatRepo{DB: db}
	for i := range out {
		if out[i].Seats, err = seats.ListByBooking(ctx, out[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// Cancel marks the booking cancelled and releases its seats in one transaction.
// Seat rows are kept for history; only their active flag is cleared.
func (r BookingRepo) Cancel(ctx context.Context, id int64) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status=?, updated_at=NOW() WHERE id=?`,
		models.BookingCancelled, id); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE booking_seats SET active=NULL WHERE booking_id=?`, id); err != nil {
		return fmt.Errorf("release seats: %w", err)
	}
	return tx.Commit()
}

func (r BookingRepo) UpdatePaymentStatus(ctx context.Context, id int64, paymentStatus string) error {
	_, err := r.db().ExecContext(ctx, `UPDATE bookings SET payment_status=?, updated_at=NOW() WHERE id=?`,
		paymentStatus, id)
	return err
}
