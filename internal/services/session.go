package services

import (
	"fmt"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// SessionService serializes the authenticated principal into a signed token
// and back. Only id, username and role are persisted in the session artifact.
type SessionService struct {
	Secret []byte
	TTL    time.Duration
}

type sessionClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s SessionService) Mint(user models.User) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "failed to sign session token", Err: err}
	}
	return signed, nil
}

func (s SessionService) Parse(raw string) (models.Principal, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID <= 0 {
		return models.Principal{}, domain.UnauthenticatedError{Msg: "invalid or expired session"}
	}

	return models.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
