package state

import (
	"math/big"

	"flipnet/core/types"
)

const (
	accountPrefix   = "account"
	allowancePrefix = "token/allowance"
	supplyPrefix    = "token/supply"
	denylistPrefix  = "token/denylist"
	permitNoncePref = "token/permitNonce"
)

// GetAccount loads the account record for the address. Unknown addresses
// yield a fresh zero-balance account.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	account := &types.Account{}
	if _, err := m.load(rawKey(accountPrefix, addr), account); err != nil {
		return nil, err
	}
	return account.EnsureBalances(), nil
}

// PutAccount persists the account record for the address.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	return m.store(rawKey(accountPrefix, addr), account.EnsureBalances())
}

// TokenAllowance returns the live owner-to-spender allowance for the symbol.
func (m *Manager) TokenAllowance(owner, spender [20]byte, symbol string) (*big.Int, error) {
	amount := new(big.Int)
	if _, err := m.load(rawKey(allowancePrefix, owner[:], spender[:], []byte(symbol)), amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// SetTokenAllowance persists the owner-to-spender allowance for the symbol.
func (m *Manager) SetTokenAllowance(owner, spender [20]byte, symbol string, amount *big.Int) error {
	raw := rawKey(allowancePrefix, owner[:], spender[:], []byte(symbol))
	if amount == nil || amount.Sign() == 0 {
		return m.delete(raw)
	}
	return m.store(raw, amount)
}

// TokenSupply returns the recorded total supply for the symbol.
func (m *Manager) TokenSupply(symbol string) (*big.Int, error) {
	amount := new(big.Int)
	if _, err := m.load(rawKey(supplyPrefix, []byte(symbol)), amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// SetTokenSupply persists the total supply for the symbol.
func (m *Manager) SetTokenSupply(symbol string, amount *big.Int) error {
	if amount == nil {
		amount = new(big.Int)
	}
	return m.store(rawKey(supplyPrefix, []byte(symbol)), amount)
}

// Denylisted reports whether the address is blocked from token moves.
func (m *Manager) Denylisted(addr [20]byte) (bool, error) {
	blocked, err := m.db.Has(kvKey(rawKey(denylistPrefix, addr[:])))
	if err != nil {
		return false, err
	}
	return blocked, nil
}

// SetDenylisted records or clears the block flag for the address.
func (m *Manager) SetDenylisted(addr [20]byte, blocked bool) error {
	raw := rawKey(denylistPrefix, addr[:])
	if !blocked {
		return m.delete(raw)
	}
	return m.store(raw, true)
}

// PermitNonce returns the next unused permit nonce for the owner.
func (m *Manager) PermitNonce(owner [20]byte) (uint64, error) {
	var nonce uint64
	if _, err := m.load(rawKey(permitNoncePref, owner[:]), &nonce); err != nil {
		return 0, err
	}
	return nonce, nil
}

// SetPermitNonce persists the next unused permit nonce for the owner.
func (m *Manager) SetPermitNonce(owner [20]byte, nonce uint64) error {
	return m.store(rawKey(permitNoncePref, owner[:]), nonce)
}
