package services

import (
	"context"
	"fmt"

	"busbooking/internal/catalog"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"
	"busbooking/internal/utils"

	"github.com/google/uuid"
)

const maxSeatsPerBooking = 6

// BookingService validates booking requests against the catalog, runs the
// payment attempt, and commits the result to the ledger in one transaction.
type BookingService struct {
	Bookings  repositories.BookingRepository
	Gateway   PaymentGateway
	RequestID string
}

// BookingRequest is the client-submitted booking. Price is treated as a
// point-in-time snapshot and validated against the catalog, never trusted.
type BookingRequest struct {
	Bus        string             `json:"bus"`
	Route      string             `json:"route"`
	Price      int64              `json:"price"`
	Seats      []string           `json:"seats"`
	Passengers []models.Passenger `json:"passengers"`
}

// CreateBooking performs the atomic check-and-reserve. The returned booking
// carries the recorded payment outcome; a declined payment still lands in the
// ledger (without seat rows) so the attempt is auditable.
func (s BookingService) CreateBooking(ctx context.Context, principal models.Principal, req BookingRequest) (models.Booking, error) {
	offering, ok := catalog.Find(req.Bus, req.Route)
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "route offering"}
	}
	if req.Price != offering.Price {
		return models.Booking{}, domain.ValidationError{Field: "price", Msg: "does not match the current offering price"}
	}

	seats := utils.NormalizeSeats(req.Seats)
	if len(seats) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	if len(seats) > maxSeatsPerBooking {
		return models.Booking{}, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("at most %d seats per booking", maxSeatsPerBooking)}
	}
	if utils.HasDuplicateSeats(seats) {
		return models.Booking{}, domain.ValidationError{Field: "seats", Msg: "duplicate seat codes"}
	}
	if len(req.Passengers) != len(seats) {
		return models.Booking{}, domain.ValidationError{Field: "passengers", Msg: "passenger count must equal seat count"}
	}
	for i, p := range req.Passengers {
		if p.Name == "" {
			return models.Booking{}, domain.ValidationError{Field: fmt.Sprintf("passengers[%d].name", i), Msg: "must not be empty"}
		}
		if p.Age <= 0 || p.Age > 120 {
			return models.Booking{}, domain.ValidationError{Field: fmt.Sprintf("passengers[%d].age", i), Msg: "must be between 1 and 120"}
		}
	}

	// Early availability check so most conflicts are reported before the
	// payment attempt. The transactional unique key remains the authority.
	reserved, err := s.Bookings.ReservedSeats(ctx, offering.BusName, offering.Route)
	if err != nil {
		return models.Booking{}, err
	}
	if conflicts := overlap(seats, reserved); len(conflicts) > 0 {
		return models.Booking{}, domain.SeatConflictError{Bus: offering.BusName, Route: offering.Route, Seats: conflicts}
	}

	total := offering.Price * int64(len(seats))
	reference := uuid.NewString()

	txRef, approved, err := s.Gateway.Charge(ctx, total, reference)
	if err != nil {
		return models.Booking{}, domain.UnavailableError{Op: "payment gateway", Err: err}
	}
	payment := models.PaymentFailed
	if approved {
		payment = models.PaymentSuccess
	}

	b := models.Booking{
		Reference:    reference,
		UserID:       principal.UserID,
		Username:     principal.Username,
		BusName:      offering.BusName,
		Route:        offering.Route,
		PricePerSeat: offering.Price,
		Total:        total,
		Payment:      payment,
		GatewayRef:   txRef,
		Seats:        seats,
		Passengers:   req.Passengers,
	}
	if err := s.Bookings.Create(ctx, &b); err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d bus=%q route=%q seats=%d payment=%s", b.ID, b.BusName, b.Route, len(seats), payment))
	return b, nil
}

// ReservedSeats exposes the seat inventory index for a partition.
func (s BookingService) ReservedSeats(ctx context.Context, bus, route string) ([]string, error) {
	offering, ok := catalog.Find(bus, route)
	if !ok {
		return nil, domain.NotFoundError{Resource: "route offering"}
	}
	return s.Bookings.ReservedSeats(ctx, offering.BusName, offering.Route)
}

// GetBooking loads a ledger entry, enforcing that only the owner or an admin
// can read it.
func (s BookingService) GetBooking(ctx context.Context, principal models.Principal, bookingID int64) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID != principal.UserID && !principal.IsAdmin() {
		return models.Booking{}, domain.ForbiddenError{Msg: "booking belongs to another user"}
	}
	return b, nil
}

func (s BookingService) ListBookings(ctx context.Context, principal models.Principal) ([]models.Booking, error) {
	return s.Bookings.ListByUser(ctx, principal.UserID)
}

func overlap(requested, reserved []string) []string {
	taken := make(map[string]bool, len(reserved))
	for _, s := range reserved {
		taken[s] = true
	}
	out := []string{}
	for _, s := range requested {
		if taken[s] {
			out = append(out, s)
		}
	}
	return out
}
