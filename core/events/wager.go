package events

import (
	"encoding/hex"
	"math/big"

	"flipnet/core/types"
)

const (
	// TypeWagerPlaced is emitted when a bet enters the pending table.
	TypeWagerPlaced = "wager.placed"
	// TypeWagerSettled is emitted when the randomness callback resolves a bet.
	TypeWagerSettled = "wager.settled"
	// TypeWagerCancelled is emitted when an expired bet is cancelled.
	TypeWagerCancelled = "wager.cancelled"
	// TypeWagerEpochAdvanced records an increase of the halving epoch.
	TypeWagerEpochAdvanced = "wager.epochAdvanced"
	// TypeWagerDividendPaid records a house surplus sweep into the stake vault.
	TypeWagerDividendPaid = "wager.dividendPaid"
	// TypeWagerTransferFailed records a push payment that degraded into a
	// pull-claimable credit.
	TypeWagerTransferFailed = "wager.transferFailed"
	// TypeWagerClaimed records a fallback balance claim.
	TypeWagerClaimed = "wager.claimed"
	// TypeWagerParamUpdated records an owner-gated parameter change.
	TypeWagerParamUpdated = "wager.paramUpdated"
)

// WagerPlaced captures a new pending bet.
type WagerPlaced struct {
	Key      [32]byte
	Player   [20]byte
	Amount   *big.Int
	Tag      [32]byte
	Expiry   int64
	Sequence uint64
}

func (WagerPlaced) EventType() string { return TypeWagerPlaced }

func (e WagerPlaced) Event() *types.Event {
	return &types.Event{
		Type: TypeWagerPlaced,
		Attributes: map[string]string{
			"key":      hex.EncodeToString(e.Key[:]),
			"player":   addrString(e.Player),
			"amount":   formatAmount(e.Amount),
			"tag":      hex.EncodeToString(e.Tag[:]),
			"expiry":   intToString(e.Expiry),
			"sequence": uintToString(e.Sequence),
		},
	}
}

// WagerSettled captures the terminal outcome delivered by the randomness
// callback.
type WagerSettled struct {
	Key    [32]byte
	Player [20]byte
	Flips  uint64
	Payout *big.Int
	Bonus  *big.Int
	Epoch  uint64
}

func (WagerSettled) EventType() string { return TypeWagerSettled }

func (e WagerSettled) Event() *types.Event {
	return &types.Event{
		Type: TypeWagerSettled,
		Attributes: map[string]string{
			"key":    hex.EncodeToString(e.Key[:]),
			"player": addrString(e.Player),
			"flips":  uintToString(e.Flips),
			"payout": formatAmount(e.Payout),
			"bonus":  formatAmount(e.Bonus),
			"epoch":  uintToString(e.Epoch),
		},
	}
}

// WagerCancelled captures the refund of an expired pending bet.
type WagerCancelled struct {
	Key    [32]byte
	Player [20]byte
	Amount *big.Int
}

func (WagerCancelled) EventType() string { return TypeWagerCancelled }

func (e WagerCancelled) Event() *types.Event {
	return &types.Event{
		Type: TypeWagerCancelled,
		Attributes: map[string]string{
			"key":    hex.EncodeToString(e.Key[:]),
			"player": addrString(e.Player),
			"amount": formatAmount(e.Amount),
		},
	}
}

// WagerEpochAdvanced captures a halving epoch increase.
type WagerEpochAdvanced struct {
	Previous uint64
	Epoch    uint64
	Treasury *big.Int
}

func (WagerEpochAdvanced) EventType() string { return TypeWagerEpochAdvanced }

func (e WagerEpochAdvanced) Event() *types.Event {
	return &types.Event{
		Type: TypeWagerEpochAdvanced,
		Attributes: map[string]string{
			"previous": uintToString(e.Previous),
			"epoch":    uintToString(e.Epoch),
			"treasury": formatAmount(e.Treasury),
		},
	}
}

// WagerDividendPaid captures a surplus sweep into the stake vault.
type WagerDividendPaid struct {
	Amount *big.Int
}

func (WagerDividendPaid) EventType() string { return TypeWagerDividendPaid }

func (e WagerDividendPaid) Event() *types.Event {
	return &types.Event{
		Type:       TypeWagerDividendPaid,
		Attributes: map[string]string{"amount": formatAmount(e.Amount)},
	}
}

// WagerTransferFailed captures a push payment degraded into a pull credit.
type WagerTransferFailed struct {
	Recipient [20]byte
	Amount    *big.Int
	Reason    string
}

func (WagerTransferFailed) EventType() string { return TypeWagerTransferFailed }

func (e WagerTransferFailed) Event() *types.Event {
	attrs := map[string]string{
		"recipient": addrString(e.Recipient),
		"amount":    formatAmount(e.Amount),
	}
	if e.Reason != "" {
		attrs["reason"] = e.Reason
	}
	return &types.Event{Type: TypeWagerTransferFailed, Attributes: attrs}
}

// WagerClaimed captures a pull payment of a fallback balance.
type WagerClaimed struct {
	Account [20]byte
	To      [20]byte
	Amount  *big.Int
}

func (WagerClaimed) EventType() string { return TypeWagerClaimed }

func (e WagerClaimed) Event() *types.Event {
	attrs := map[string]string{
		"addr":   addrString(e.Account),
		"amount": formatAmount(e.Amount),
	}
	if !zeroAddress(e.To) {
		attrs["to"] = addrString(e.To)
	}
	return &types.Event{Type: TypeWagerClaimed, Attributes: attrs}
}

// WagerParamUpdated captures an owner-gated configuration change.
type WagerParamUpdated struct {
	Name     string
	Previous string
	Value    string
}

func (WagerParamUpdated) EventType() string { return TypeWagerParamUpdated }

func (e WagerParamUpdated) Event() *types.Event {
	attrs := map[string]string{"name": e.Name}
	if e.Previous != "" {
		attrs["previous"] = e.Previous
	}
	if e.Value != "" {
		attrs["value"] = e.Value
	}
	return &types.Event{Type: TypeWagerParamUpdated, Attributes: attrs}
}
