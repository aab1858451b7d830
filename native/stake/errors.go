package stake

import "errors"

var (
	// ErrNilState is returned when the engine has no state backend configured.
	ErrNilState = errors.New("stake: state not configured")
	// ErrNilLedger is returned when the engine has no token ledger configured.
	ErrNilLedger = errors.New("stake: token ledger not configured")
	// ErrInvalidAmount rejects zero or negative stake amounts.
	ErrInvalidAmount = errors.New("stake: amount must be positive")
	// ErrInsufficientShares is returned when an unstake request exceeds the
	// caller's share balance.
	ErrInsufficientShares = errors.New("stake: insufficient shares")
	// ErrNothingClaimable is returned when WithdrawMatured finds no matured
	// entries, including when unmatured entries exist but none are due yet.
	ErrNothingClaimable = errors.New("stake: nothing claimable")
	// ErrSharesNotTransferable is returned for any attempt to move shares
	// between accounts. Shares are mint/burn only.
	ErrSharesNotTransferable = errors.New("stake: shares are not transferable")
)
