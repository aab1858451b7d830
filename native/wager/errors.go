package wager

import "errors"

var (
	// ErrNilState is returned when the engine has no state backend configured.
	ErrNilState = errors.New("wager: state not configured")
	// ErrNilLedger is returned when the engine has no token ledger configured.
	ErrNilLedger = errors.New("wager: token ledger not configured")
	// ErrNilOracle is returned when the engine has no randomness service
	// configured.
	ErrNilOracle = errors.New("wager: randomness oracle not configured")

	// ErrInvalidCommitment is returned when the caller's fee commitment no
	// longer matches the live parameters.
	ErrInvalidCommitment = errors.New("wager: stale parameter commitment")
	// ErrNotInitialized is returned while the staking pool is empty; wagers
	// require an initialised dividend recipient.
	ErrNotInitialized = errors.New("wager: staking pool not initialised")
	// ErrBetOutOfRange is returned when the amount falls outside the
	// configured min/max bounds.
	ErrBetOutOfRange = errors.New("wager: bet amount out of range")
	// ErrInvalidValue is returned when the payment does not cover stake,
	// house fee and oracle fee.
	ErrInvalidValue = errors.New("wager: insufficient payment")
	// ErrInsufficientLiquidity is returned when the house cannot reserve the
	// maximum possible win liability for a new bet.
	ErrInsufficientLiquidity = errors.New("wager: insufficient house liquidity")
	// ErrExcluded is returned when a self-excluded player attempts a wager.
	ErrExcluded = errors.New("wager: player self-excluded")

	// ErrUnexpectedProvider is returned when the settlement callback arrives
	// from an identity other than the configured oracle provider.
	ErrUnexpectedProvider = errors.New("wager: unexpected randomness provider")
	// ErrUnknownBet is returned when no record exists for the referenced key.
	ErrUnknownBet = errors.New("wager: unknown bet")
	// ErrBetNotPending is returned when the referenced record already reached
	// a terminal state.
	ErrBetNotPending = errors.New("wager: bet already settled")
	// ErrBetExpired is returned when the callback arrives at or after expiry;
	// the record stays pending and remains cancellable.
	ErrBetExpired = errors.New("wager: bet expired")
	// ErrBetNotExpired is returned when cancellation is attempted before the
	// expiry time.
	ErrBetNotExpired = errors.New("wager: bet not yet expired")

	// ErrUnauthorized is returned for owner-gated administration calls from
	// any other caller.
	ErrUnauthorized = errors.New("wager: caller is not the owner")
	// ErrInvalidParam rejects malformed parameter updates.
	ErrInvalidParam = errors.New("wager: invalid parameter")
)
