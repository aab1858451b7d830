package wager

import (
	"math/big"

	"flipnet/core/events"
)

func (e *Engine) adminMutate(caller [20]byte, name string, mutate func(p *Params) error) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if caller != e.owner {
		return ErrUnauthorized
	}
	p, err := e.params()
	if err != nil {
		return err
	}
	if err := mutate(p); err != nil {
		return err
	}
	if err := e.state.SetWagerParams(p); err != nil {
		return err
	}
	e.emit(events.WagerParamUpdated{Name: name})
	return nil
}

// UpdateFeeRate sets the house fee in basis points.
func (e *Engine) UpdateFeeRate(caller [20]byte, bps uint64) error {
	return e.adminMutate(caller, "feeRateBps", func(p *Params) error {
		if bps > feeRateDenominator {
			return ErrInvalidParam
		}
		p.FeeRateBps = bps
		return nil
	})
}

// UpdateBetLimits sets the accepted stake bounds. A zero max disables the
// upper bound.
func (e *Engine) UpdateBetLimits(caller [20]byte, min, max *big.Int) error {
	return e.adminMutate(caller, "betLimits", func(p *Params) error {
		min = cloneBigInt(min)
		max = cloneBigInt(max)
		if min.Sign() <= 0 {
			return ErrInvalidParam
		}
		if max.Sign() != 0 && max.Cmp(min) < 0 {
			return ErrInvalidParam
		}
		p.MinBet = min
		p.MaxBet = max
		return nil
	})
}

// UpdateDividendThreshold sets the house balance floor protected from the
// dividend sweep.
func (e *Engine) UpdateDividendThreshold(caller [20]byte, threshold *big.Int) error {
	return e.adminMutate(caller, "dividendThreshold", func(p *Params) error {
		p.DividendThreshold = cloneBigInt(threshold)
		return nil
	})
}

// UpdateProvider sets the accepted randomness provider identity.
func (e *Engine) UpdateProvider(caller [20]byte, provider [20]byte) error {
	return e.adminMutate(caller, "provider", func(p *Params) error {
		if provider == ([20]byte{}) {
			return ErrInvalidParam
		}
		p.Provider = provider
		return nil
	})
}

// UpdateCallbackGasLimit sets the execution allowance quoted to the oracle.
// Raising it invalidates previously issued commitments.
func (e *Engine) UpdateCallbackGasLimit(caller [20]byte, limit uint64) error {
	return e.adminMutate(caller, "callbackGasLimit", func(p *Params) error {
		if limit == 0 {
			return ErrInvalidParam
		}
		p.CallbackGasLimit = limit
		return nil
	})
}

// UpdateTimeout sets the settlement window granted to the oracle before a bet
// becomes cancellable.
func (e *Engine) UpdateTimeout(caller [20]byte, seconds uint64) error {
	return e.adminMutate(caller, "timeoutSeconds", func(p *Params) error {
		if seconds == 0 {
			return ErrInvalidParam
		}
		p.TimeoutSeconds = seconds
		return nil
	})
}
