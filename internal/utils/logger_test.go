package utils

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestLogEventFormat(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	LogEvent(" rid-1 ", "Booking", "create", "booking_id=7")

	got := buf.String()
	if !strings.Contains(got, "event=booking.create request_id=rid-1 booking_id=7") {
		t.Fatalf("unexpected log line %q", got)
	}
}
