package workflow

import "errors"

var (
	// ErrIndexOutOfRange: RemovePassenger got an index outside the roster.
	ErrIndexOutOfRange = errors.New("passenger index out of range")

	// ErrEmptyRoster: confirm requested with no passengers.
	ErrEmptyRoster = errors.New("roster is empty")

	// ErrVerificationFailed: the entered mobile number does not match the
	// registered one.
	ErrVerificationFailed = errors.New("mobile number verification failed")

	// ErrVerificationUnavailable: the identity lookup itself failed, so no
	// verdict on the number exists.
	ErrVerificationUnavailable = errors.New("mobile number verification unavailable")

	// ErrConfirmInFlight: a verify-and-confirm call is already running for
	// this checkout. The duplicate is rejected, never queued.
	ErrConfirmInFlight = errors.New("confirmation already in flight")

	// ErrCheckoutClosed: the checkout reached a terminal state; start a
	// new transaction instead.
	ErrCheckoutClosed = errors.New("checkout is closed")

	// ErrNotConfirmable: verification attempted before confirm was
	// requested.
	ErrNotConfirmable = errors.New("confirm has not been requested")
)
