package domain

import "errors"

// Input validation.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidInput = errors.New("invalid input")
)

// Authentication and authorization.
var (
	ErrMissingToken       = errors.New("missing bearer token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIdentityExists     = errors.New("identity already exists")
)

// Data access.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrStoreFailure     = errors.New("store failure")
	// ErrConflict reports a write that collided with a unique key.
	ErrConflict = errors.New("conflicting record")
)

// StoreRejection is returned when the backing store refuses a write because
// of a constraint. Error reports only Kind so driver details such as
// constraint names never reach a client; Cause keeps them for logging.
type StoreRejection struct {
	Kind  error
	Op    string
	Table string
	Cause error
}

func (e *StoreRejection) Error() string { return e.Kind.Error() }

func (e *StoreRejection) Unwrap() error { return e.Kind }

// Reject builds a StoreRejection of the given kind.
func Reject(kind error, op, table string, cause error) error {
	return &StoreRejection{Kind: kind, Op: op, Table: table, Cause: cause}
}

// ErrorCode returns the stable, client-facing code for a known error, or
// "InternalError" when err does not wrap any of the sentinels above.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "MissingField"
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrMissingToken):
		return "MissingToken"
	case errors.Is(err, ErrExpiredToken):
		return "ExpiredToken"
	case errors.Is(err, ErrInvalidToken):
		return "InvalidToken"
	case errors.Is(err, ErrIdentityNotFound):
		return "IdentityNotFound"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrIdentityExists):
		return "IdentityExists"
	case errors.Is(err, ErrResourceNotFound):
		return "ResourceNotFound"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrStoreFailure):
		return "StoreFailure"
	default:
		return "InternalError"
	}
}
