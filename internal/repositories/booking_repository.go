package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// BookingRepository is the booking ledger: append-only, one row per payment
// attempt. Seat rows exist only for Success bookings, so the unique key on
// (bus_name, route, seat_code) reserves exactly the paid seats.
type BookingRepository struct {
	DB *sql.DB
}

// ReservedSeats returns the union of seat codes reserved in the (bus, route)
// partition, in reservation order.
func (r BookingRepository) ReservedSeats(ctx context.Context, bus, route string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT seat_code
		FROM booking_seats
		WHERE bus_name = ? AND route = ?
		ORDER BY id ASC
	`, bus, route)
	if err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	defer rows.Close()

	seats := []string{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		seats = append(seats, strings.ToUpper(strings.TrimSpace(seat)))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	return seats, nil
}

// Create commits one booking in a single transaction: the conflict check, the
// booking row, the seat rows, and the passenger roster either all land or none
// do. The unique key on booking_seats is the backstop for races the in-tx
// check cannot see.
func (r BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.UnavailableError{Op: "ledger", Err: err}
	}
	defer tx.Rollback()

	if b.Payment == models.PaymentSuccess {
		conflicts, err := conflictingSeats(ctx, tx, b.BusName, b.Route, b.Seats)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.SeatConflictError{Bus: b.BusName, Route: b.Route, Seats: conflicts}
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings
		(reference, user_id, username, bus_name, route, price_per_seat, total, payment_status, gateway_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`, b.Reference, b.UserID, b.Username, b.BusName, b.Route, b.PricePerSeat, b.Total, string(b.Payment), b.GatewayRef)
	if err != nil {
		return domain.UnavailableError{Op: "ledger", Err: err}
	}
	bookingID, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}

	if b.Payment == models.PaymentSuccess {
		for _, seat := range b.Seats {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO booking_seats (booking_id, bus_name, route, seat_code, created_at)
				VALUES (?, ?, ?, ?, NOW())
			`, bookingID, b.BusName, b.Route, seat)
			if err != nil {
				var me *mysql.MySQLError
				if errors.As(err, &me) && me.Number == 1062 {
					// Lost the race after our check. Name the overlap for the caller.
					conflicts, cerr := conflictingSeats(ctx, r.DB, b.BusName, b.Route, b.Seats)
					if cerr != nil || len(conflicts) == 0 {
						conflicts = []string{seat}
					}
					return domain.SeatConflictError{Bus: b.BusName, Route: b.Route, Seats: conflicts}
				}
				return domain.UnavailableError{Op: "ledger", Err: err}
			}
		}
	}

	for i, p := range b.Passengers {
		seat := "ALL"
		if i < len(b.Seats) {
			seat = b.Seats[i]
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO booking_passengers (booking_id, seat_code, passenger_name, passenger_age, created_at)
			VALUES (?, ?, ?, ?, NOW())
		`, bookingID, seat, p.Name, p.Age)
		if err != nil {
			return domain.UnavailableError{Op: "ledger", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.UnavailableError{Op: "ledger", Err: err}
	}

	b.ID = bookingID
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func conflictingSeats(ctx context.Context, q querier, bus, route string, seats []string) ([]string, error) {
	if len(seats) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(seats))
	args := make([]any, 0, 2+len(seats))
	args = append(args, bus, route)
	for _, s := range seats {
		placeholders = append(placeholders, "?")
		args = append(args, s)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT seat_code
		FROM booking_seats
		WHERE bus_name = ? AND route = ?
		  AND seat_code IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY seat_code ASC
	`, args...)
	if err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	return out, nil
}

// GetByID loads a ledger entry with its seats and passenger roster.
func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}

	var b models.Booking
	var status string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, reference, user_id, username, bus_name, route, price_per_seat, total, payment_status, gateway_ref, created_at
		FROM bookings
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&b.ID, &b.Reference, &b.UserID, &b.Username, &b.BusName, &b.Route,
		&b.PricePerSeat, &b.Total, &status, &b.GatewayRef, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.UnavailableError{Op: "ledger", Err: err}
	}
	b.Payment = models.PaymentStatus(status)

	if b.Seats, err = r.seatsForBooking(ctx, b.ID); err != nil {
		return models.Booking{}, err
	}
	if b.Passengers, err = r.passengersForBooking(ctx, b.ID); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r BookingRepository) seatsForBooking(ctx context.Context, bookingID int64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT seat_code
		FROM booking_seats
		WHERE booking_id = ?
		ORDER BY id ASC
	`, bookingID)
	if err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	defer rows.Close()

	seats := []string{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func (r BookingRepository) passengersForBooking(ctx context.Context, bookingID int64) ([]models.Passenger, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT passenger_name, passenger_age
		FROM booking_passengers
		WHERE booking_id = ?
		ORDER BY id ASC
	`, bookingID)
	if err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	defer rows.Close()

	out := []models.Passenger{}
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.Name, &p.Age); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByUser returns the user's ledger entries, newest first, without the
// per-booking seat and passenger detail.
func (r BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, reference, user_id, username, bus_name, route, price_per_seat, total, payment_status, gateway_ref, created_at
		FROM bookings
		WHERE user_id = ?
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.Reference, &b.UserID, &b.Username, &b.BusName, &b.Route,
			&b.PricePerSeat, &b.Total, &status, &b.GatewayRef, &b.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		b.Payment = models.PaymentStatus(status)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "ledger", Err: err}
	}
	return out, nil
}
