package oracle

import (
	"math/big"
	"sort"
	"sync"
)

// pendingRequest tracks an issued sequence awaiting fulfilment.
type pendingRequest struct {
	provider [20]byte
	gasLimit uint64
}

// MemoryOracle is an in-process randomness service used by tests and the dev
// daemon. Fees scale linearly with the callback gas limit so fee-quote
// handling in the engine is exercised realistically.
type MemoryOracle struct {
	mu        sync.Mutex
	provider  [20]byte
	feePerGas *big.Int
	nextSeq   uint64
	pending   map[uint64]pendingRequest
	consumer  Consumer
}

// NewMemoryOracle creates an oracle serving the single provider identity with
// the given wei-per-gas fee rate.
func NewMemoryOracle(provider [20]byte, feePerGas *big.Int) *MemoryOracle {
	fee := big.NewInt(0)
	if feePerGas != nil {
		fee = new(big.Int).Set(feePerGas)
	}
	return &MemoryOracle{
		provider:  provider,
		feePerGas: fee,
		nextSeq:   1,
		pending:   make(map[uint64]pendingRequest),
	}
}

// SetConsumer registers the settlement callback target.
func (o *MemoryOracle) SetConsumer(c Consumer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.consumer = c
}

// QuoteFee returns the fee required for a request with the given gas limit.
func (o *MemoryOracle) QuoteFee(provider [20]byte, gasLimit uint64) (*big.Int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if provider != o.provider {
		return nil, ErrUnknownProvider
	}
	return new(big.Int).Mul(o.feePerGas, new(big.Int).SetUint64(gasLimit)), nil
}

// Request registers a pending randomness request and returns its sequence.
func (o *MemoryOracle) Request(provider [20]byte, gasLimit uint64, fee *big.Int) (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if provider != o.provider {
		return 0, ErrUnknownProvider
	}
	required := new(big.Int).Mul(o.feePerGas, new(big.Int).SetUint64(gasLimit))
	if fee == nil || fee.Cmp(required) < 0 {
		return 0, ErrInsufficientFee
	}
	seq := o.nextSeq
	o.nextSeq++
	o.pending[seq] = pendingRequest{provider: provider, gasLimit: gasLimit}
	return seq, nil
}

// Fulfill delivers a random value for the pending sequence to the registered
// consumer. The pending entry is removed regardless of the consumer outcome;
// redelivery is not part of the contract.
func (o *MemoryOracle) Fulfill(sequence uint64, randomValue *big.Int) error {
	o.mu.Lock()
	req, ok := o.pending[sequence]
	if !ok {
		o.mu.Unlock()
		return ErrUnknownSequence
	}
	delete(o.pending, sequence)
	consumer := o.consumer
	o.mu.Unlock()
	if consumer == nil {
		return nil
	}
	return consumer.RandomnessCallback(sequence, req.provider, randomValue)
}

// Pending reports how many requests await fulfilment.
func (o *MemoryOracle) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// PendingSequences lists the sequence numbers awaiting fulfilment in
// ascending order.
func (o *MemoryOracle) PendingSequences() []uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]uint64, 0, len(o.pending))
	for seq := range o.pending {
		out = append(out, seq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
