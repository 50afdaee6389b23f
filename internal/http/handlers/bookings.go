package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	intconfig "busbooking/internal/config"
	"busbooking/internal/domain/models"
	"busbooking/internal/http/middleware"
	"busbooking/internal/repositories"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Bookings:  repositories.BookingRepository{DB: intconfig.DB},
		Gateway:   services.StubGateway{},
		RequestID: middleware.GetRequestID(c),
	}
}

type bookingView struct {
	ID         int64              `json:"id"`
	Reference  string             `json:"reference"`
	Bus        string             `json:"bus"`
	Route      string             `json:"route"`
	Price      int64              `json:"pricePerSeat"`
	Total      int64              `json:"total"`
	Payment    string             `json:"paymentStatus"`
	PaymentRef string             `json:"paymentRef,omitempty"`
	Seats      []string           `json:"seats"`
	Passengers []models.Passenger `json:"passengers,omitempty"`
	CreatedAt  string             `json:"createdAt"`
}

func toBookingView(b models.Booking) bookingView {
	return bookingView{
		ID:         b.ID,
		Reference:  b.Reference,
		Bus:        b.BusName,
		Route:      b.Route,
		Price:      b.PricePerSeat,
		Total:      b.Total,
		Payment:    string(b.Payment),
		PaymentRef: b.GatewayRef,
		Seats:      b.Seats,
		Passengers: b.Passengers,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

// GET /api/seats?bus=&route=
func ReservedSeats(c *gin.Context) {
	bus := strings.TrimSpace(c.Query("bus"))
	route := strings.TrimSpace(c.Query("route"))
	if bus == "" || route == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bus and route are required"})
		return
	}

	seats, err := bookingService(c).ReservedSeats(c.Request.Context(), bus, route)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus": bus, "route": route, "reservedSeats": seats})
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required", "redirect": "/login"})
		return
	}

	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	booking, err := bookingService(c).CreateBooking(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if booking.Payment != models.PaymentSuccess {
		// Recorded attempt, no reservation made.
		status = http.StatusPaymentRequired
	}
	c.JSON(status, toBookingView(booking))
}

// GET /api/bookings
func ListBookings(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required", "redirect": "/login"})
		return
	}

	bookings, err := bookingService(c).ListBookings(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingView(b))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required", "redirect": "/login"})
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := bookingService(c).GetBooking(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingView(booking))
}

// GET /api/bookings/:id/ticket
func GetTicket(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required", "redirect": "/login"})
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	svc := services.TicketService{
		Bookings:  repositories.BookingRepository{DB: intconfig.DB},
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.IssueTicket(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
