package domain

import "errors"

var (
	// ErrInvalidToken is the single failure mode of token verification.
	// Malformed, tampered, and expired tokens are deliberately
	// indistinguishable to callers.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive blocks login for deactivated accounts.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrEmailTaken indicates a registration with an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotOwner indicates the acting account does not own the resource.
	ErrNotOwner = errors.New("not the owner of this resource")
	// ErrValidation wraps input validation failures.
	ErrValidation = errors.New("invalid input")

	// ErrAccountNotFound is returned when a referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrQuizNotFound is returned when a referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound is returned when a referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound is returned when a referenced attempt does not exist.
	ErrAttemptNotFound = errors.New("attempt not found")
)
