package usecase

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoChallenge        = errors.New("no active otp challenge")
	ErrOTPExpired         = errors.New("otp expired")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPDelivery        = errors.New("otp delivery failed")
	ErrCategoryNotFound   = errors.New("category not found")
)

// ValidationError carries a reason meant to be shown to the user as is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
