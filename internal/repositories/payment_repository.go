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

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r PaymentRepository) Create(ctx context.Context, p models.Payment) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db not available"}
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO payments (booking_id, method, msisdn, amount, status, provider_ref)
		VALUES (?,?,?,?,?,?)`,
		p.BookingID, p.Method, p.MSISDN, p.Amount, p.Status, intdb.NullIfEmpty(p.ProviderRef))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches payment by primary key.
func (r PaymentRepository) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	if id <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "id", Msg: "invalid payment id"}
	}
	db := r.db()
	if db == nil {
		return models.Payment{}, domain.InternalError{Msg: "db not available"}
	}
	var p models.Payment
	err := db.QueryRowContext(ctx, `
		SELECT id, booking_id, method, msisdn, amount, status, COALESCE(provider_ref,''), created_at, updated_at
		FROM payments WHERE id=? LIMIT 1`, id).
		Scan(&p.ID, &p.BookingID, &p.Method, &p.MSISDN, &p.Amount, &p.Status, &p.ProviderRef, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, domain.NotFoundError{Resource: "payment", Err: err}
	}
	return p, err
}

// Settle records the outcome of a pending payment and updates its booking in
// one transaction. Success confirms the booking; failure only flags its payment.
func (r PaymentRepository) Settle(ctx context.Context, p models.Payment, success bool, providerRef string) (string, error) {
	db := r.db()
	if db == nil {
		return "", domain.InternalError{Msg: "db not available"}
	}
	status := models.PaymentFailed
	if success {
		status = models.PaymentPaid
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE payments SET status=?, provider_ref=COALESCE(?, provider_ref), updated_at=NOW()
		WHERE id=? AND status=?`,
		status, intdb.NullIfEmpty(providerRef), p.ID, models.PaymentPending)
	if err != nil {
		return "", fmt.Errorf("update payment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", domain.ConflictError{Resource: "payment", Msg: "payment is no longer pending"}
	}

	if success {
		_, err = tx.ExecContext(ctx, `UPDATE bookings SET status=?, payment_status=?, updated_at=NOW() WHERE id=?`,
			models.BookingConfirmed, models.PaymentPaid, p.BookingID)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE bookings SET payment_status=?, updated_at=NOW() WHERE id=?`,
			models.PaymentFailed, p.BookingID)
	}
	if err != nil {
		return "", fmt.Errorf("update booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return status, nil
}
