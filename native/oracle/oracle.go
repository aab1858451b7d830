package oracle

import (
	"errors"
	"math/big"
)

var (
	// ErrUnknownProvider is returned when a fee quote or request names a
	// provider the service does not serve.
	ErrUnknownProvider = errors.New("oracle: unknown provider")
	// ErrInsufficientFee is returned when the forwarded fee does not cover
	// the quoted request price.
	ErrInsufficientFee = errors.New("oracle: insufficient fee")
	// ErrUnknownSequence is returned when a fulfilment references a sequence
	// number with no pending request.
	ErrUnknownSequence = errors.New("oracle: unknown sequence")
)

// Service is the asynchronous verifiable-randomness interface consumed by the
// wager engine. Request returns a sequence number; the service later invokes
// the registered consumer with the random value, possibly never.
type Service interface {
	QuoteFee(provider [20]byte, gasLimit uint64) (*big.Int, error)
	Request(provider [20]byte, gasLimit uint64, fee *big.Int) (uint64, error)
}

// Consumer receives randomness fulfilments. Implementations must treat the
// call as the single settlement boundary: the service gives no ordering or
// delivery guarantees beyond at-most-once per sequence.
type Consumer interface {
	RandomnessCallback(sequence uint64, provider [20]byte, randomValue *big.Int) error
}
