package token

import "errors"

var (
	// ErrNilState is returned when the ledger has no state backend configured.
	ErrNilState = errors.New("token: state not configured")
	// ErrInvalidAmount rejects nil or negative transfer amounts.
	ErrInvalidAmount = errors.New("token: amount must be non-negative")
	// ErrInsufficientBalance is returned when the sender cannot cover the
	// requested amount.
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	// ErrInsufficientAllowance is returned when a delegated transfer exceeds
	// the approved allowance.
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
	// ErrDenylisted is returned when either party of a transfer is gated by
	// the access denylist.
	ErrDenylisted = errors.New("token: address denylisted")
	// ErrPermitExpired is returned when a permit deadline has passed.
	ErrPermitExpired = errors.New("token: permit expired")
	// ErrPermitInvalid is returned when a permit signature does not recover
	// to the owner.
	ErrPermitInvalid = errors.New("token: invalid permit signature")
)
