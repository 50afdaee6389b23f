package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"
	"busbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// TicketService renders the durable ticket artifact for a ledger entry. All
// fields come from the persisted booking; nothing is taken from the request
// beyond the booking identifier.
type TicketService struct {
	Bookings  repositories.BookingRepository
	RequestID string

	// Loader overrides booking retrieval in tests.
	Loader func(ctx context.Context, id int64) (models.Booking, error)
}

// IssueTicket renders the PDF + scannable code for a booking. Only the owner
// (or an admin) may issue; unpaid bookings are not ticketable.
func (s TicketService) IssueTicket(ctx context.Context, principal models.Principal, bookingID int64) ([]byte, string, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if b.UserID != principal.UserID && !principal.IsAdmin() {
		return nil, "", domain.ForbiddenError{Msg: "booking belongs to another user"}
	}
	if b.Payment != models.PaymentSuccess {
		return nil, "", domain.ValidationError{Field: "booking", Msg: "payment was not successful"}
	}

	utils.LogEvent(s.RequestID, "ticket", "issue", fmt.Sprintf("booking_id=%d", b.ID))
	return buildTicketPDF(b)
}

func (s TicketService) load(ctx context.Context, id int64) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	return s.Bookings.GetByID(ctx, id)
}

// TicketPayload is the scannable-code content: a deterministic function of the
// booking fields, so re-issuing a ticket encodes identical data.
func TicketPayload(b models.Booking) string {
	return strings.Join([]string{
		"BUSTKT",
		b.Reference,
		b.BusName,
		b.Route,
		strconv.FormatInt(b.PricePerSeat, 10),
		strings.Join(b.Seats, "+"),
		strconv.Itoa(len(b.Passengers)),
	}, "|")
}

func buildTicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bus Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref : %s", b.Reference),
		fmt.Sprintf("Passenger   : %s", displayName(b.Username)),
		fmt.Sprintf("Bus         : %s", b.BusName),
		fmt.Sprintf("Route       : %s", b.Route),
		fmt.Sprintf("Seats       : %s", strings.Join(b.Seats, ", ")),
		fmt.Sprintf("Price/Seat  : %s", formatINR(b.PricePerSeat)),
		fmt.Sprintf("Total       : %s", formatINR(b.Total)),
		fmt.Sprintf("Payment     : %s", b.Payment),
		fmt.Sprintf("Booked At   : %s", b.CreatedAt.Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if len(b.Passengers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Passengers")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, p := range b.Passengers {
			seat := "-"
			if i < len(b.Seats) {
				seat = b.Seats[i]
			}
			pdf.Cell(0, 6, fmt.Sprintf("%d) %s (age %d) - seat %s", i+1, p.Name, p.Age, seat))
			pdf.Ln(6)
		}
	}

	png, err := qrcode.Encode(TicketPayload(b), qrcode.Medium, 256)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "failed to encode ticket code", Err: err}
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("ticket-qr", 150, 20, 40, 40, false, opts, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this ticket when boarding. The code is verified against the booking ledger.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render ticket", Err: err}
	}

	filename := fmt.Sprintf("TICKET_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

// displayName strips the domain off federated email usernames for rendering.
func displayName(username string) string {
	if i := strings.Index(username, "@"); i > 0 {
		return username[:i]
	}
	return username
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

func formatINR(v int64) string {
	if v <= 0 {
		return "Rs 0"
	}
	s := strconv.FormatInt(v, 10)
	var out []byte
	n := len(s)
	for i := 0; i < n; i++ {
		out = append(out, s[i])
		pos := n - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, ',')
		}
	}
	return "Rs " + string(out)
}
