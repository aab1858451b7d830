package state

import (
	"math/big"

	"flipnet/native/wager"
)

const (
	wagerBetPrefix         = "wager/bet"
	wagerParamsPrefix      = "wager/params"
	wagerEpochPrefix       = "wager/epoch"
	wagerReservationPrefix = "wager/reservation"
	wagerBonusPrefix       = "wager/bonusUsed"
	wagerFallbackPrefix    = "wager/fallback"
)

// WagerBet loads the bet record stored under the key.
func (m *Manager) WagerBet(key wager.BetKey) (*wager.Bet, bool, error) {
	bet := &wager.Bet{}
	ok, err := m.load(rawKey(wagerBetPrefix, key[:]), bet)
	if err != nil || !ok {
		return nil, false, err
	}
	return bet, true, nil
}

// PutWagerBet persists the bet record under the key.
func (m *Manager) PutWagerBet(key wager.BetKey, bet *wager.Bet) error {
	return m.store(rawKey(wagerBetPrefix, key[:]), bet)
}

// WagerParams loads the engine parameters. A nil result means the engine was
// never bootstrapped.
func (m *Manager) WagerParams() (*wager.Params, error) {
	params := &wager.Params{}
	ok, err := m.load(rawKey(wagerParamsPrefix), params)
	if err != nil || !ok {
		return nil, err
	}
	return params.EnsureDefaults(), nil
}

// SetWagerParams persists the engine parameters.
func (m *Manager) SetWagerParams(p *wager.Params) error {
	return m.store(rawKey(wagerParamsPrefix), p.EnsureDefaults())
}

// WagerEpoch returns the current halving epoch.
func (m *Manager) WagerEpoch() (uint64, error) {
	var epoch uint64
	if _, err := m.load(rawKey(wagerEpochPrefix), &epoch); err != nil {
		return 0, err
	}
	return epoch, nil
}

// SetWagerEpoch persists the halving epoch.
func (m *Manager) SetWagerEpoch(epoch uint64) error {
	return m.store(rawKey(wagerEpochPrefix), epoch)
}

// WagerReservation returns the outstanding maximum payout liability.
func (m *Manager) WagerReservation() (*big.Int, error) {
	amount := new(big.Int)
	if _, err := m.load(rawKey(wagerReservationPrefix), amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// SetWagerReservation persists the outstanding payout liability.
func (m *Manager) SetWagerReservation(amount *big.Int) error {
	if amount == nil {
		amount = new(big.Int)
	}
	return m.store(rawKey(wagerReservationPrefix), amount)
}

// WagerDailyBonusUsed returns the bonus allowance consumed by the address on
// the UTC day.
func (m *Manager) WagerDailyBonusUsed(addr [20]byte, day string) (*big.Int, error) {
	amount := new(big.Int)
	if _, err := m.load(rawKey(wagerBonusPrefix, addr[:], []byte(day)), amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// SetWagerDailyBonusUsed persists the consumed bonus allowance for the day.
func (m *Manager) SetWagerDailyBonusUsed(addr [20]byte, day string, amount *big.Int) error {
	if amount == nil {
		amount = new(big.Int)
	}
	return m.store(rawKey(wagerBonusPrefix, addr[:], []byte(day)), amount)
}

// WagerFallbackBalance returns the pull-claimable credit for the address.
func (m *Manager) WagerFallbackBalance(addr [20]byte) (*big.Int, error) {
	amount := new(big.Int)
	if _, err := m.load(rawKey(wagerFallbackPrefix, addr[:]), amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// SetWagerFallbackBalance persists the pull-claimable credit for the address.
func (m *Manager) SetWagerFallbackBalance(addr [20]byte, amount *big.Int) error {
	raw := rawKey(wagerFallbackPrefix, addr[:])
	if amount == nil || amount.Sign() == 0 {
		return m.delete(raw)
	}
	return m.store(raw, amount)
}
