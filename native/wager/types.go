package wager

import (
	"encoding/binary"
	"math"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// ResultPending marks a bet awaiting its randomness callback.
	ResultPending uint64 = 0
	// ResultLost marks a settled bet with zero flips.
	ResultLost uint64 = 1
	// ResultCancelled is the sentinel for bets cancelled after expiry.
	ResultCancelled uint64 = math.MaxUint64
	// Winning bets store flips+1 in the result field; DecodeFlips recovers
	// the flip count.
)

// feeRateDenominator is the basis-point denominator applied to the house fee.
const feeRateDenominator = 10_000

// HouseAddress returns the module account holding wager liquidity, collected
// fees and the ZFLP bonus treasury.
func HouseAddress() [20]byte {
	var addr [20]byte
	copy(addr[:], ethcrypto.Keccak256([]byte("flipnet/wager/house"))[12:])
	return addr
}

// Bet is the per-wager record. Records are created at placement, mutated
// exactly once at settlement or cancellation and retained for audit.
type Bet struct {
	Player        [20]byte
	Expiry        uint64
	Result        uint64
	Amount        *big.Int
	Tag           [32]byte
	StakeSnapshot *big.Int
}

// Clone returns a deep copy of the bet record.
func (b *Bet) Clone() *Bet {
	if b == nil {
		return nil
	}
	clone := *b
	if b.Amount != nil {
		clone.Amount = new(big.Int).Set(b.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	if b.StakeSnapshot != nil {
		clone.StakeSnapshot = new(big.Int).Set(b.StakeSnapshot)
	} else {
		clone.StakeSnapshot = big.NewInt(0)
	}
	return &clone
}

// Pending reports whether the bet still awaits settlement or cancellation.
func (b *Bet) Pending() bool { return b != nil && b.Result == ResultPending }

// Won reports whether the bet settled as a win.
func (b *Bet) Won() bool {
	return b != nil && b.Result > ResultLost && b.Result != ResultCancelled
}

// DecodeFlips recovers the flip count from a winning result.
func (b *Bet) DecodeFlips() uint64 {
	if !b.Won() {
		return 0
	}
	return b.Result - 1
}

// Params holds the engine's operator-tunable configuration.
type Params struct {
	FeeRateBps        uint64
	MinBet            *big.Int
	MaxBet            *big.Int // zero disables the cap
	DividendThreshold *big.Int
	Provider          [20]byte
	CallbackGasLimit  uint64
	TimeoutSeconds    uint64
	// InitialBonusReserve anchors the epoch halving thresholds; it records
	// the ZFLP treasury at launch and never changes afterwards.
	InitialBonusReserve *big.Int
}

// EnsureDefaults replaces nil big.Int fields with zeroes.
func (p *Params) EnsureDefaults() *Params {
	if p == nil {
		return &Params{MinBet: big.NewInt(0), MaxBet: big.NewInt(0), DividendThreshold: big.NewInt(0), InitialBonusReserve: big.NewInt(0)}
	}
	if p.MinBet == nil {
		p.MinBet = big.NewInt(0)
	}
	if p.MaxBet == nil {
		p.MaxBet = big.NewInt(0)
	}
	if p.DividendThreshold == nil {
		p.DividendThreshold = big.NewInt(0)
	}
	if p.InitialBonusReserve == nil {
		p.InitialBonusReserve = big.NewInt(0)
	}
	return p
}

// Clone returns a deep copy of the params.
func (p *Params) Clone() *Params {
	if p == nil {
		return (&Params{}).EnsureDefaults()
	}
	clone := *p
	clone.MinBet = new(big.Int).Set(p.EnsureDefaults().MinBet)
	clone.MaxBet = new(big.Int).Set(p.MaxBet)
	clone.DividendThreshold = new(big.Int).Set(p.DividendThreshold)
	clone.InitialBonusReserve = new(big.Int).Set(p.InitialBonusReserve)
	return &clone
}

// Commitment digests the fee-relevant parameters a caller priced their payment
// against. PlaceBet rejects stale commitments so a parameter change between
// quoting and submission cannot silently reprice a wager.
func (p *Params) Commitment() [32]byte {
	var gasBuf, timeoutBuf, feeBuf [8]byte
	binary.BigEndian.PutUint64(gasBuf[:], p.CallbackGasLimit)
	binary.BigEndian.PutUint64(timeoutBuf[:], p.TimeoutSeconds)
	binary.BigEndian.PutUint64(feeBuf[:], p.FeeRateBps)
	digest := ethcrypto.Keccak256(gasBuf[:], timeoutBuf[:], feeBuf[:])
	var out [32]byte
	copy(out[:], digest)
	return out
}
