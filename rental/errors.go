package rental

import "errors"

var (
	ErrAlreadyReserved    = errors.New("you already have an active reservation")
	ErrAlreadyRiding      = errors.New("you already have an ongoing trip")
	ErrBikeNotAtStation   = errors.New("bike is not docked at this station")
	ErrReservationExpired = errors.New("reservation has expired")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrTripNotOngoing     = errors.New("trip is not ongoing")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
)
