package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// SeatConflictError reports the subset of requested seats that are already
// reserved within the (bus, route) partition.
type SeatConflictError struct {
	Bus   string
	Route string
	Seats []string
}

func (e SeatConflictError) Error() string {
	if len(e.Seats) == 0 {
		return "seat conflict"
	}
	return fmt.Sprintf("seats already reserved: %s", strings.Join(e.Seats, ", "))
}

type DuplicateUserError struct {
	Username string
	Err      error
}

func (e DuplicateUserError) Error() string {
	return "user already registered"
}

func (e DuplicateUserError) Unwrap() error { return e.Err }

// UnauthenticatedError covers both missing credentials and stale principals
// whose backing user record no longer exists.
type UnauthenticatedError struct {
	Msg   string
	Stale bool
}

func (e UnauthenticatedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthenticated"
}

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

// UnavailableError marks identity store / ledger outages. It is a 503-class
// failure and must never be reported as not-found.
type UnavailableError struct {
	Op  string
	Err error
}

func (e UnavailableError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s unavailable", e.Op)
	}
	return "store unavailable"
}

func (e UnavailableError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsSeatConflict(err error) (SeatConflictError, bool) {
	var target SeatConflictError
	ok := errors.As(err, &target)
	return target, ok
}

func IsDuplicateUser(err error) bool {
	var target DuplicateUserError
	return errors.As(err, &target)
}

func IsUnauthenticated(err error) bool {
	var target UnauthenticatedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target UnavailableError
	return errors.As(err, &target)
}
