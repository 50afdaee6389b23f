package utils

import (
	"log"
	"strings"
)

// LogEvent writes one line per domain event so identity and booking actions
// can be correlated by request id. Messages must not carry credentials,
// password hashes, or ticket payloads.
func LogEvent(requestID, module, action, message string) {
	log.Printf("event=%s.%s request_id=%s %s",
		strings.ToLower(strings.TrimSpace(module)), action, strings.TrimSpace(requestID), message)
}
