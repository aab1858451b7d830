package events

import (
	"math/big"

	"flipnet/core/types"
)

const (
	// TypeStakeDeposited captures share issuance triggered by a deposit.
	TypeStakeDeposited = "stake.deposited"
	// TypeStakeUnstakeRequested captures the share burn performed when an
	// unstake enters the withdrawal queue.
	TypeStakeUnstakeRequested = "stake.unstakeRequested"
	// TypeStakeWithdrawn is emitted when matured queue entries are paid out.
	TypeStakeWithdrawn = "stake.withdrawn"
	// TypeStakeRewardNotified records native currency folded into the
	// reward-per-share accumulator.
	TypeStakeRewardNotified = "stake.rewardNotified"
	// TypeStakeRewardsClaimed is emitted when accrued rewards are paid out.
	TypeStakeRewardsClaimed = "stake.rewardsClaimed"
)

// StakeDeposited captures the share delta realised when staking tokens.
type StakeDeposited struct {
	Account     [20]byte
	Amount      *big.Int
	NewShares   *big.Int
	TotalShares *big.Int
}

// EventType satisfies the Event interface.
func (StakeDeposited) EventType() string { return TypeStakeDeposited }

// Event converts the structured payload into a broadcastable event.
func (e StakeDeposited) Event() *types.Event {
	return &types.Event{
		Type: TypeStakeDeposited,
		Attributes: map[string]string{
			"addr":        addrString(e.Account),
			"amount":      formatAmount(e.Amount),
			"newShares":   formatAmount(e.NewShares),
			"totalShares": formatAmount(e.TotalShares),
		},
	}
}

// StakeUnstakeRequested captures the share delta realised when unstaking.
type StakeUnstakeRequested struct {
	Account  [20]byte
	Amount   *big.Int
	Maturity int64
}

func (StakeUnstakeRequested) EventType() string { return TypeStakeUnstakeRequested }

func (e StakeUnstakeRequested) Event() *types.Event {
	return &types.Event{
		Type: TypeStakeUnstakeRequested,
		Attributes: map[string]string{
			"addr":     addrString(e.Account),
			"amount":   formatAmount(e.Amount),
			"maturity": intToString(e.Maturity),
		},
	}
}

// StakeWithdrawn captures principal released from the withdrawal queue.
type StakeWithdrawn struct {
	Account [20]byte
	Amount  *big.Int
	Entries uint64
}

func (StakeWithdrawn) EventType() string { return TypeStakeWithdrawn }

func (e StakeWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeStakeWithdrawn,
		Attributes: map[string]string{
			"addr":    addrString(e.Account),
			"amount":  formatAmount(e.Amount),
			"entries": uintToString(e.Entries),
		},
	}
}

// StakeRewardNotified captures a native currency deposit folded into the
// accumulator.
type StakeRewardNotified struct {
	Amount         *big.Int
	RewardPerShare *big.Int
}

func (StakeRewardNotified) EventType() string { return TypeStakeRewardNotified }

func (e StakeRewardNotified) Event() *types.Event {
	return &types.Event{
		Type: TypeStakeRewardNotified,
		Attributes: map[string]string{
			"amount":         formatAmount(e.Amount),
			"rewardPerShare": formatAmount(e.RewardPerShare),
		},
	}
}

// StakeRewardsClaimed captures an accrued reward payout.
type StakeRewardsClaimed struct {
	Account [20]byte
	To      [20]byte
	Amount  *big.Int
}

func (StakeRewardsClaimed) EventType() string { return TypeStakeRewardsClaimed }

func (e StakeRewardsClaimed) Event() *types.Event {
	attrs := map[string]string{
		"addr":   addrString(e.Account),
		"amount": formatAmount(e.Amount),
	}
	if !zeroAddress(e.To) {
		attrs["to"] = addrString(e.To)
	}
	return &types.Event{Type: TypeStakeRewardsClaimed, Attributes: attrs}
}
