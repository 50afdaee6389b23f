package db

import (
	"context"
	"database/sql"
)

// Schema DDL. The unique key on (bus_name, route, seat_code) is the durable
// enforcement of the one-seat-one-booking invariant: concurrent reservations
// for the same partition cannot both commit a row for the same seat.
var schemaTables = []struct {
	name string
	ddl  string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"bookings", `CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		reference CHAR(36) NOT NULL,
		user_id BIGINT NOT NULL,
		username VARCHAR(255) NOT NULL,
		bus_name VARCHAR(255) NOT NULL,
		route VARCHAR(255) NOT NULL,
		price_per_seat BIGINT NOT NULL,
		total BIGINT NOT NULL,
		payment_status VARCHAR(16) NOT NULL,
		gateway_ref VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_reference (reference),
		KEY idx_user (user_id),
		KEY idx_partition (bus_name, route)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"booking_seats", `CREATE TABLE IF NOT EXISTS booking_seats (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT NOT NULL,
		bus_name VARCHAR(255) NOT NULL,
		route VARCHAR(255) NOT NULL,
		seat_code VARCHAR(50) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_partition_seat (bus_name, route, seat_code),
		KEY idx_booking (booking_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"booking_passengers", `CREATE TABLE IF NOT EXISTS booking_passengers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT NOT NULL,
		seat_code VARCHAR(50) NOT NULL,
		passenger_name VARCHAR(255) NOT NULL,
		passenger_age INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_booking_seat (booking_id, seat_code),
		KEY idx_booking (booking_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

// EnsureSchema creates the core tables when they do not exist yet. Tables that
// already exist are not touched, so a redeploy never re-runs their DDL.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range schemaTables {
		if HasTable(ctx, db, t.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return err
		}
	}
	return nil
}

// HasTable reports whether a table exists in the current schema.
func HasTable(ctx context.Context, db *sql.DB, table string) bool {
	var name string
	err := db.QueryRowContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	return err == nil
}
