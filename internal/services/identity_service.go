package services

import (
	"context"
	"fmt"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"
	"busbooking/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService resolves login attempts (password or federated) to one
// canonical user record.
type IdentityService struct {
	Users repositories.UserRepository

	// FederatedSecret/FederatedIssuer validate identity assertions minted by
	// the external auth gateway after it completed the provider handshake.
	FederatedSecret string
	FederatedIssuer string

	RequestID string
}

// PasswordPayload carries a password-flow login attempt.
type PasswordPayload struct {
	Username string
	Password string
}

// FederatedPayload carries the gateway-signed assertion token.
type FederatedPayload struct {
	Assertion string
}

var errInvalidCredentials = domain.UnauthenticatedError{Msg: "invalid credentials"}

// ResolveIdentity is the single entry point for both credential kinds. Both
// paths yield the same User shape consumed by the session principal.
func (s IdentityService) ResolveIdentity(ctx context.Context, kind models.CredentialKind, payload any) (models.User, error) {
	switch kind {
	case models.CredentialPassword:
		p, ok := payload.(PasswordPayload)
		if !ok {
			return models.User{}, domain.InternalError{Msg: "password payload expected"}
		}
		return s.resolvePassword(ctx, p)
	case models.CredentialFederated:
		p, ok := payload.(FederatedPayload)
		if !ok {
			return models.User{}, domain.InternalError{Msg: "federated payload expected"}
		}
		return s.resolveFederated(ctx, p)
	default:
		return models.User{}, domain.ValidationError{Field: "credential_kind", Msg: "unknown kind"}
	}
}

// resolvePassword deliberately returns the same invalid-credentials outcome
// for unknown users, wrong passwords, and federated-only accounts, so the
// response never leaks whether a username exists.
func (s IdentityService) resolvePassword(ctx context.Context, p PasswordPayload) (models.User, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" || p.Password == "" {
		return models.User{}, errInvalidCredentials
	}

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, errInvalidCredentials
		}
		return models.User{}, err
	}

	if user.IsFederatedOnly() {
		return models.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(p.Password)); err != nil {
		return models.User{}, errInvalidCredentials
	}

	utils.LogEvent(s.RequestID, "identity", "password_login", fmt.Sprintf("user_id=%d", user.ID))
	return user, nil
}

// resolveFederated verifies the gateway assertion and performs the atomic
// find-or-create. Losing the insert race means someone else created the same
// account concurrently, so the winner's row is fetched and returned.
func (s IdentityService) resolveFederated(ctx context.Context, p FederatedPayload) (models.User, error) {
	email, err := s.verifyAssertion(p.Assertion)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.Users.FindByUsername(ctx, email)
	if err == nil {
		utils.LogEvent(s.RequestID, "identity", "federated_login", fmt.Sprintf("user_id=%d", user.ID))
		return user, nil
	}
	if !domain.IsNotFound(err) {
		return models.User{}, err
	}

	user, err = s.Users.Create(ctx, email, models.FederatedSentinel)
	if err != nil {
		if domain.IsDuplicateUser(err) {
			return s.Users.FindByUsername(ctx, email)
		}
		return models.User{}, err
	}

	utils.LogEvent(s.RequestID, "identity", "federated_signup", fmt.Sprintf("user_id=%d", user.ID))
	return user, nil
}

type assertionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s IdentityService) verifyAssertion(assertion string) (string, error) {
	if strings.TrimSpace(assertion) == "" {
		return "", errInvalidCredentials
	}
	if s.FederatedSecret == "" {
		return "", domain.UnavailableError{Op: "federated auth"}
	}

	claims := &assertionClaims{}
	token, err := jwt.ParseWithClaims(assertion, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.FederatedSecret), nil
	}, jwt.WithIssuer(s.FederatedIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", errInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" || !strings.Contains(email, "@") {
		return "", errInvalidCredentials
	}
	return email, nil
}

// Register creates a password-backed account. Duplicate usernames surface as
// DuplicateUserError, which the handler turns into "already registered".
func (s IdentityService) Register(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, domain.ValidationError{Field: "username", Msg: "must not be empty"}
	}
	if len(password) < 6 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}

	user, err := s.Users.Create(ctx, username, string(hash))
	if err != nil {
		return models.User{}, err
	}

	utils.LogEvent(s.RequestID, "identity", "signup", fmt.Sprintf("user_id=%d", user.ID))
	return user, nil
}
