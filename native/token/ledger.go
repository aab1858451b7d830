package token

import (
	"fmt"
	"math/big"

	"flipnet/core/types"
)

// ledgerState describes the minimal functionality the ledger needs from the
// surrounding state implementation.
type ledgerState interface {
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
	TokenAllowance(owner, spender [20]byte, symbol string) (*big.Int, error)
	SetTokenAllowance(owner, spender [20]byte, symbol string, amount *big.Int) error
	TokenSupply(symbol string) (*big.Int, error)
	SetTokenSupply(symbol string, amount *big.Int) error
	Denylisted(addr [20]byte) (bool, error)
	SetDenylisted(addr [20]byte, blocked bool) error
	PermitNonce(owner [20]byte) (uint64, error)
	SetPermitNonce(owner [20]byte, nonce uint64) error
}

// Ledger implements the fungible balance bookkeeping for the FLP, SFLP and
// ZFLP symbols, including the access denylist gate applied to every transfer.
type Ledger struct {
	state ledgerState
}

// NewLedger creates a ledger without a state backend. Callers must configure
// it via SetState before use.
func NewLedger() *Ledger {
	return &Ledger{}
}

// SetState configures the state backend used by the ledger.
func (l *Ledger) SetState(state ledgerState) { l.state = state }

func (l *Ledger) ensureState() error {
	if l == nil || l.state == nil {
		return ErrNilState
	}
	return nil
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func (l *Ledger) checkDenylist(parties ...[20]byte) error {
	for _, addr := range parties {
		blocked, err := l.state.Denylisted(addr)
		if err != nil {
			return err
		}
		if blocked {
			return ErrDenylisted
		}
	}
	return nil
}

func balanceField(acc *types.Account, symbol string) *big.Int {
	switch symbol {
	case SymbolFLP:
		return acc.BalanceFLP
	case SymbolSFLP:
		return acc.BalanceSFLP
	case SymbolZFLP:
		return acc.BalanceZFLP
	}
	return nil
}

func setBalanceField(acc *types.Account, symbol string, v *big.Int) {
	switch symbol {
	case SymbolFLP:
		acc.BalanceFLP = v
	case SymbolSFLP:
		acc.BalanceSFLP = v
	case SymbolZFLP:
		acc.BalanceZFLP = v
	}
}

// BalanceOf returns the balance held by addr for the given symbol.
func (l *Ledger) BalanceOf(addr [20]byte, symbol string) (*big.Int, error) {
	if err := l.ensureState(); err != nil {
		return nil, err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	acc, err := l.state.GetAccount(addr[:])
	if err != nil {
		return nil, err
	}
	return cloneBigInt(balanceField(acc.EnsureBalances(), normalized)), nil
}

// TotalSupply returns the tracked supply for the given symbol.
func (l *Ledger) TotalSupply(symbol string) (*big.Int, error) {
	if err := l.ensureState(); err != nil {
		return nil, err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return l.state.TokenSupply(normalized)
}

// Transfer moves amount of symbol from the sender to the recipient, applying
// the denylist gate to both parties.
func (l *Ledger) Transfer(from, to [20]byte, symbol string, amount *big.Int) error {
	if err := l.ensureState(); err != nil {
		return err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if amt.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amt.Sign() == 0 {
		return nil
	}
	if err := l.checkDenylist(from, to); err != nil {
		return err
	}
	return l.move(from, to, normalized, amt)
}

// TransferFrom moves amount of symbol from owner to the recipient on behalf of
// spender, consuming the owner's allowance.
func (l *Ledger) TransferFrom(spender, owner, to [20]byte, symbol string, amount *big.Int) error {
	if err := l.ensureState(); err != nil {
		return err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if amt.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amt.Sign() == 0 {
		return nil
	}
	if err := l.checkDenylist(spender, owner, to); err != nil {
		return err
	}
	allowance, err := l.state.TokenAllowance(owner, spender, normalized)
	if err != nil {
		return err
	}
	if allowance.Cmp(amt) < 0 {
		return ErrInsufficientAllowance
	}
	if err := l.move(owner, to, normalized, amt); err != nil {
		return err
	}
	remaining := new(big.Int).Sub(allowance, amt)
	return l.state.SetTokenAllowance(owner, spender, normalized, remaining)
}

// Approve sets the spender allowance for the owner.
func (l *Ledger) Approve(owner, spender [20]byte, symbol string, amount *big.Int) error {
	if err := l.ensureState(); err != nil {
		return err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if amt.Sign() < 0 {
		return ErrInvalidAmount
	}
	if err := l.checkDenylist(owner, spender); err != nil {
		return err
	}
	return l.state.SetTokenAllowance(owner, spender, normalized, amt)
}

// Allowance returns the remaining spender allowance granted by owner.
func (l *Ledger) Allowance(owner, spender [20]byte, symbol string) (*big.Int, error) {
	if err := l.ensureState(); err != nil {
		return nil, err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return l.state.TokenAllowance(owner, spender, normalized)
}

// Mint credits freshly issued units to the recipient and grows the supply.
func (l *Ledger) Mint(to [20]byte, symbol string, amount *big.Int) error {
	if err := l.ensureState(); err != nil {
		return err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if amt.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amt.Sign() == 0 {
		return nil
	}
	acc, err := l.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	acc = acc.EnsureBalances()
	setBalanceField(acc, normalized, new(big.Int).Add(balanceField(acc, normalized), amt))
	if err := l.state.PutAccount(to[:], acc); err != nil {
		return err
	}
	supply, err := l.state.TokenSupply(normalized)
	if err != nil {
		return err
	}
	return l.state.SetTokenSupply(normalized, new(big.Int).Add(supply, amt))
}

// Burn removes units from the holder and shrinks the supply.
func (l *Ledger) Burn(from [20]byte, symbol string, amount *big.Int) error {
	if err := l.ensureState(); err != nil {
		return err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if amt.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amt.Sign() == 0 {
		return nil
	}
	acc, err := l.state.GetAccount(from[:])
	if err != nil {
		return err
	}
	acc = acc.EnsureBalances()
	balance := balanceField(acc, normalized)
	if balance.Cmp(amt) < 0 {
		return ErrInsufficientBalance
	}
	setBalanceField(acc, normalized, new(big.Int).Sub(balance, amt))
	if err := l.state.PutAccount(from[:], acc); err != nil {
		return err
	}
	supply, err := l.state.TokenSupply(normalized)
	if err != nil {
		return err
	}
	next := new(big.Int).Sub(supply, amt)
	if next.Sign() < 0 {
		return fmt.Errorf("token: supply underflow for %s", normalized)
	}
	return l.state.SetTokenSupply(normalized, next)
}

// SetDenylisted toggles the access gate for the provided address.
func (l *Ledger) SetDenylisted(addr [20]byte, blocked bool) error {
	if err := l.ensureState(); err != nil {
		return err
	}
	return l.state.SetDenylisted(addr, blocked)
}

// Denylisted reports whether the address is gated.
func (l *Ledger) Denylisted(addr [20]byte) (bool, error) {
	if err := l.ensureState(); err != nil {
		return false, err
	}
	return l.state.Denylisted(addr)
}

func (l *Ledger) move(from, to [20]byte, symbol string, amt *big.Int) error {
	fromAcc, err := l.state.GetAccount(from[:])
	if err != nil {
		return err
	}
	fromAcc = fromAcc.EnsureBalances()
	balance := balanceField(fromAcc, symbol)
	if balance.Cmp(amt) < 0 {
		return ErrInsufficientBalance
	}
	setBalanceField(fromAcc, symbol, new(big.Int).Sub(balance, amt))
	if err := l.state.PutAccount(from[:], fromAcc); err != nil {
		return err
	}
	toAcc, err := l.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	toAcc = toAcc.EnsureBalances()
	setBalanceField(toAcc, symbol, new(big.Int).Add(balanceField(toAcc, symbol), amt))
	return l.state.PutAccount(to[:], toAcc)
}
