package shared

import "errors"

var (
	// ErrNotAuthenticated indicates a request carrying no session token.
	ErrNotAuthenticated = errors.New("not authenticated, token missing")
	// ErrInvalidToken indicates a session token that failed verification.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates login failure. Unknown email and wrong
	// password both map here so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict indicates the email or phone is already taken.
	ErrConflict = errors.New("email or phone already in use")
	// ErrValidation indicates a malformed or invalid request body.
	ErrValidation = errors.New("validation failed")
)
