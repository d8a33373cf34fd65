package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not present locally or remotely.
	ErrNotFound = errors.New("not found")

	// ErrDeleteInProgress is returned for a second delete of the same id
	// while the first one is still waiting for the remote store.
	ErrDeleteInProgress = errors.New("delete already in progress")

	// ErrNotLoggedIn is wrapped into AuthError when an operation needs a session.
	ErrNotLoggedIn = errors.New("not logged in")

	ErrUnknownProvider    = errors.New("unknown sign-in provider")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthError reports a failed sign-in, sign-out or a missing session.
// The current session is never changed by the operation that produced it.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RemoteError reports a failed call against the record service.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ValidationError reports a rejected submission. No remote call is made
// when it is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// IsAuth reports whether err is, or wraps, an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsRemote reports whether err is, or wraps, a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
