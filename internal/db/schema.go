package db

import (
	"database/sql"
	"fmt"
)

type tableDDL struct {
	name string
	ddl  string
}

// Tables are created in order; later tables reference earlier ones.
var schema = []tableDDL{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	legal_business_name VARCHAR(255) NOT NULL,
	business_address VARCHAR(255) NOT NULL DEFAULT '',
	business_type VARCHAR(100) NOT NULL DEFAULT '',
	whatsapp_number VARCHAR(20) NOT NULL,
	email VARCHAR(255) NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'user',
	is_verified TINYINT(1) NOT NULL DEFAULT 0,
	full_name VARCHAR(255) NOT NULL DEFAULT '',
	phone_number VARCHAR(20) NOT NULL DEFAULT '',
	id_card_number VARCHAR(100) NOT NULL DEFAULT '',
	id_photo VARCHAR(500) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_whatsapp (whatsapp_number),
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	reference VARCHAR(20) NOT NULL,
	user_id BIGINT NOT NULL,
	agency_id VARCHAR(50) NOT NULL,
	bus_type_id VARCHAR(20) NOT NULL,
	route_from VARCHAR(100) NOT NULL,
	route_to VARCHAR(100) NOT NULL,
	travel_date DATE NOT NULL,
	price_per_seat BIGINT NOT NULL,
	service_fee BIGINT NOT NULL,
	total BIGINT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_reference (reference),
	KEY idx_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"booking_seats", `
CREATE TABLE IF NOT EXISTS booking_seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	agency_id VARCHAR(50) NOT NULL,
	bus_type_id VARCHAR(20) NOT NULL,
	route_from VARCHAR(100) NOT NULL,
	route_to VARCHAR(100) NOT NULL,
	travel_date DATE NOT NULL,
	seat_number VARCHAR(10) NOT NULL,
	active TINYINT(1) NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_trip_seat (agency_id, bus_type_id, route_from, route_to, travel_date, seat_number, active),
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"booking_passengers", `
CREATE TABLE IF NOT EXISTS booking_passengers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	seat_number VARCHAR(10) NOT NULL,
	passenger_name VARCHAR(255) NOT NULL,
	id_number VARCHAR(100) NOT NULL,
	id_photo VARCHAR(500) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_seat (booking_id, seat_number),
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"payments", `
CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	method VARCHAR(20) NOT NULL DEFAULT 'momo',
	msisdn VARCHAR(20) NOT NULL,
	amount BIGINT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	provider_ref VARCHAR(100) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

type columnPatch struct {
	table  string
	column string
	ddl    string
}

// Columns added after the first release; applied to tables that already exist.
var columnPatches = []columnPatch{
	{"users", "business_address", "ALTER TABLE users ADD COLUMN business_address VARCHAR(255) NOT NULL DEFAULT '' AFTER legal_business_name"},
	{"users", "business_type", "ALTER TABLE users ADD COLUMN business_type VARCHAR(100) NOT NULL DEFAULT '' AFTER business_address"},
	// active is NULL once the booking is cancelled; NULLs never collide in the unique key.
	{"booking_seats", "active", `ALTER TABLE booking_seats
	ADD COLUMN active TINYINT(1) NULL DEFAULT 1 AFTER seat_number,
	DROP INDEX uniq_trip_seat,
	ADD UNIQUE KEY uniq_trip_seat (agency_id, bus_type_id, route_from, route_to, travel_date, seat_number, active)`},
}

type schemaDB interface {
	QueryRower
	Execer
}

// EnsureSchema creates missing tables and adds late columns to existing ones.
func EnsureSchema(db schemaDB) error {
	if db == nil {
		return fmt.Errorf("db not available")
	}
	for _, t := range schema {
		if HasTable(db, t.name) {
			if err := patchColumns(db, t.name); err != nil {
				return err
			}
			continue
		}
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	return nil
}

func patchColumns(db schemaDB, table string) error {
	for _, p := range columnPatches {
		if p.table != table || HasColumn(db, p.table, p.column) {
			continue
		}
		if _, err := db.Exec(p.ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", p.table, p.column, err)
		}
	}
	return nil
}

var _ schemaDB = (*sql.DB)(nil)
