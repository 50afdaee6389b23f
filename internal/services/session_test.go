package services

import (
	"testing"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

func TestSessionRoundTrip(t *testing.T) {
	svc := SessionService{Secret: []byte("test-secret"), TTL: time.Hour}

	token, err := svc.Mint(models.User{ID: 3, Username: "u1@example.com", Role: "user"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	p, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p.UserID != 3 || p.Username != "u1@example.com" || p.Role != "user" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestSessionRejectsTamperedToken(t *testing.T) {
	svc := SessionService{Secret: []byte("test-secret"), TTL: time.Hour}
	other := SessionService{Secret: []byte("different"), TTL: time.Hour}

	token, err := other.Mint(models.User{ID: 3, Username: "u1@example.com"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := svc.Parse(token); !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := svc.Parse("not-a-token"); !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated for garbage, got %v", err)
	}
}
