package models

import "time"

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// Booking is one ledger entry: append-only, never mutated after commit.
// Username is denormalized so ticket rendering needs no join against users.
type Booking struct {
	ID           int64
	Reference    string
	UserID       int64
	Username     string
	BusName      string
	Route        string
	PricePerSeat int64
	Total        int64
	Payment      PaymentStatus
	GatewayRef   string
	Seats        []string
	Passengers   []Passenger
	CreatedAt    time.Time
}

type Passenger struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}
