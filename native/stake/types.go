package stake

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// UnstakeDelaySeconds defines the cooldown between an unstake request and
	// the principal becoming withdrawable.
	UnstakeDelaySeconds uint64 = 7 * 24 * 60 * 60 // 7 days
	// WithdrawScanLimit bounds how many queue entries a single
	// WithdrawMatured call may consume. Deep queues require repeat calls.
	WithdrawScanLimit = 50
	// DayFormat renders the UTC calendar-day bucket keys used across modules.
	DayFormat = "2006-01-02"
)

// rewardScale is the fixed-point precision of the reward-per-share
// accumulator. Rounding loss per operation per account is bounded by one unit
// at this scale.
var rewardScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// RewardScale returns the accumulator fixed-point scale (1e18).
func RewardScale() *big.Int {
	return new(big.Int).Set(rewardScale)
}

// VaultAddress returns the module account holding staked SFLP principal and
// undistributed FLP rewards.
func VaultAddress() [20]byte {
	var addr [20]byte
	copy(addr[:], ethcrypto.Keccak256([]byte("flipnet/stake/vault"))[12:])
	return addr
}

// Global captures the shared accumulator state of the vault.
type Global struct {
	TotalShares          *big.Int
	RewardPerShare       *big.Int
	LastAccountedBalance *big.Int
}

// EnsureDefaults replaces nil fields with zeroes.
func (g *Global) EnsureDefaults() *Global {
	if g == nil {
		return &Global{TotalShares: big.NewInt(0), RewardPerShare: big.NewInt(0), LastAccountedBalance: big.NewInt(0)}
	}
	if g.TotalShares == nil {
		g.TotalShares = big.NewInt(0)
	}
	if g.RewardPerShare == nil {
		g.RewardPerShare = big.NewInt(0)
	}
	if g.LastAccountedBalance == nil {
		g.LastAccountedBalance = big.NewInt(0)
	}
	return g
}

// Position captures a single account's share balance and reward checkpoint.
// RewardDebt holds shares*rewardPerShare/scale at the last settlement; Accrued
// holds settled-but-unclaimed rewards.
type Position struct {
	Shares     *big.Int
	RewardDebt *big.Int
	Accrued    *big.Int
}

// EnsureDefaults replaces nil fields with zeroes.
func (p *Position) EnsureDefaults() *Position {
	if p == nil {
		return &Position{Shares: big.NewInt(0), RewardDebt: big.NewInt(0), Accrued: big.NewInt(0)}
	}
	if p.Shares == nil {
		p.Shares = big.NewInt(0)
	}
	if p.RewardDebt == nil {
		p.RewardDebt = big.NewInt(0)
	}
	if p.Accrued == nil {
		p.Accrued = big.NewInt(0)
	}
	return p
}

// WithdrawalEntry is a queued unstake awaiting maturity.
type WithdrawalEntry struct {
	Amount   *big.Int
	Maturity uint64
}

// WithdrawalQueue is the per-account maturity-ordered unstake queue. Entries
// are append-only; the cursor marks the first unconsumed entry and never moves
// backwards.
type WithdrawalQueue struct {
	Entries []WithdrawalEntry
	Cursor  uint64
}
