package types

import "math/big"

// Account is the canonical balance record stored for every address. FLP is the
// native currency used for wager payments, payouts and staking rewards. SFLP is
// the stakeable fungible token and ZFLP the bonus token minted from the house
// treasury on winning flips.
type Account struct {
	Nonce       uint64   `json:"nonce"`
	BalanceFLP  *big.Int `json:"balanceFLP"`
	BalanceSFLP *big.Int `json:"balanceSFLP"`
	BalanceZFLP *big.Int `json:"balanceZFLP"`
}

// EnsureBalances replaces nil balance fields with zero so callers can operate
// on the account without nil checks.
func (a *Account) EnsureBalances() *Account {
	if a == nil {
		return &Account{BalanceFLP: big.NewInt(0), BalanceSFLP: big.NewInt(0), BalanceZFLP: big.NewInt(0)}
	}
	if a.BalanceFLP == nil {
		a.BalanceFLP = big.NewInt(0)
	}
	if a.BalanceSFLP == nil {
		a.BalanceSFLP = big.NewInt(0)
	}
	if a.BalanceZFLP == nil {
		a.BalanceZFLP = big.NewInt(0)
	}
	return a
}

// Clone returns a deep copy of the account so callers can safely mutate the
// copy without affecting the stored instance.
func (a *Account) Clone() *Account {
	if a == nil {
		return (&Account{}).EnsureBalances()
	}
	clone := &Account{Nonce: a.Nonce}
	if a.BalanceFLP != nil {
		clone.BalanceFLP = new(big.Int).Set(a.BalanceFLP)
	}
	if a.BalanceSFLP != nil {
		clone.BalanceSFLP = new(big.Int).Set(a.BalanceSFLP)
	}
	if a.BalanceZFLP != nil {
		clone.BalanceZFLP = new(big.Int).Set(a.BalanceZFLP)
	}
	return clone.EnsureBalances()
}
