package models

import "time"

// FederatedSentinel is stored in place of a bcrypt hash for accounts created
// through the federated flow. Such accounts can never pass password login.
const FederatedSentinel = "federated"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// IsFederatedOnly reports whether the account has no local password.
func (u User) IsFederatedOnly() bool {
	return u.PasswordHash == FederatedSentinel
}

// Principal is the authenticated identity attached to a request. It is a
// read-only projection of User and never a source of pricing or seat data.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// CredentialKind is the closed set of authentication mechanisms that
// resolve to one canonical user record.
type CredentialKind string

const (
	CredentialPassword  CredentialKind = "password"
	CredentialFederated CredentialKind = "federated"
)
