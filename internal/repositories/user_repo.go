package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "busticket/internal/config"
	intdb "busticket/internal/db"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, legal_business_name, business_address, business_type, whatsapp_number, COALESCE(email,''), password_hash, role,
	is_verified, full_name, phone_number, id_card_number, id_photo, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.LegalBusinessName, &u.BusinessAddress, &u.BusinessType, &u.WhatsappNumber, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsVerified, &u.FullName, &u.PhoneNumber, &u.IDCardNumber, &u.IDPhoto, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r UserRepo) Create(ctx context.Context, u models.User) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db not available"}
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO users (legal_business_name, business_address, business_type, whatsapp_number, email, password_hash, role, is_verified)
		VALUES (?,?,?,?,?,?,?,?)`,
		u.LegalBusinessName, u.BusinessAddress, u.BusinessType, u.WhatsappNumber, intdb.NullIfEmpty(strings.ToLower(u.Email)), u.PasswordHash, u.Role, u.IsVerified)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Msg: "an account already uses this whatsapp number or email", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

// ReplaceUnverified overwrites the registration details of an account that
// never completed verification.
func (r UserRepo) ReplaceUnverified(ctx context.Context, u models.User) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}
	res, err := db.ExecContext(ctx, `
		UPDATE users SET legal_business_name=?, business_address=?, business_type=?, email=?, password_hash=?, updated_at=NOW()
		WHERE id=? AND is_verified=0`,
		u.LegalBusinessName, u.BusinessAddress, u.BusinessType, intdb.NullIfEmpty(strings.ToLower(u.Email)), u.PasswordHash, u.ID)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Msg: "an account already uses this email", Err: err}
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ConflictError{Resource: "user", Msg: "an account already uses this whatsapp number"}
	}
	return nil
}

func (r UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getOne(ctx, `WHERE id=?`, id)
}

func (r UserRepo) GetByWhatsapp(ctx context.Context, msisdn string) (models.User, error) {
	return r.getOne(ctx, `WHERE whatsapp_number=?`, msisdn)
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `WHERE email=?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r UserRepo) getOne(ctx context.Context, where string, arg any) (models.User, error) {
	db := r.db()
	if db == nil {
		return models.User{}, domain.InternalError{Msg: "db not available"}
	}
	u, err := scanUser(db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users `+where+` LIMIT 1`, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepo) MarkVerified(ctx context.Context, id int64) error {
	_, err := r.db().ExecContext(ctx, `UPDATE users SET is_verified=1, updated_at=NOW() WHERE id=?`, id)
	return err
}

func (r UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.db().ExecContext(ctx, `UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?`, hash, id)
	return err
}

// UpdateProfile performs PATCH-style updates based on key presence.
func (r UserRepo) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, strings.TrimSpace(*v))
		}
	}
	add("legal_business_name", upd.LegalBusinessName)
	add("business_address", upd.BusinessAddress)
	add("business_type", upd.BusinessType)
	add("full_name", upd.FullName)
	add("phone_number", upd.PhoneNumber)
	add("id_card_number", upd.IDCardNumber)
	add("id_photo", upd.IDPhoto)
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.db().ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}
