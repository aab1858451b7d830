package common

import "errors"

// ErrBudgetExhausted is returned when an operation does not have enough
// remaining execution budget to complete safely.
var ErrBudgetExhausted = errors.New("execution budget exhausted")

// Budget tracks the execution allowance granted to a single call. Engines use
// it to refuse work that a caller could deliberately starve of resources, such
// as forcing a refund down the fallback path by shaving the budget.
type Budget struct {
	remaining uint64
}

// NewBudget returns a budget with the provided allowance. A zero allowance
// yields an unlimited budget.
func NewBudget(allowance uint64) *Budget {
	return &Budget{remaining: allowance}
}

// Remaining reports the unconsumed allowance.
func (b *Budget) Remaining() uint64 {
	if b == nil {
		return 0
	}
	return b.remaining
}

// Unlimited reports whether the budget enforces no ceiling.
func (b *Budget) Unlimited() bool {
	return b == nil || b.remaining == 0
}

// Require verifies at least floor units remain without consuming them.
func (b *Budget) Require(floor uint64) error {
	if b.Unlimited() {
		return nil
	}
	if b.remaining < floor {
		return ErrBudgetExhausted
	}
	return nil
}

// Consume deducts cost units from the budget.
func (b *Budget) Consume(cost uint64) error {
	if b.Unlimited() {
		return nil
	}
	if b.remaining < cost {
		b.remaining = 0
		return ErrBudgetExhausted
	}
	b.remaining -= cost
	return nil
}
