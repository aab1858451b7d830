package wager

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// BetKey is the globally unique identifier of a bet: the 20-byte oracle
// provider identity shifted left 64 bits, OR-ed with the request sequence
// number. The packing leaves the low 64 bits to the sequence, so keys from the
// same provider cannot collide and keys from distinct providers differ in the
// high bits.
type BetKey [32]byte

// NewBetKey packs the provider identity and sequence number into a key.
func NewBetKey(provider [20]byte, sequence uint64) BetKey {
	packed := new(uint256.Int).SetBytes(provider[:])
	packed.Lsh(packed, 64)
	packed.Or(packed, uint256.NewInt(sequence))
	return BetKey(packed.Bytes32())
}

// Provider recovers the oracle provider identity from the key.
func (k BetKey) Provider() [20]byte {
	unpacked := new(uint256.Int).SetBytes(k[:])
	unpacked.Rsh(unpacked, 64)
	raw := unpacked.Bytes32()
	var provider [20]byte
	copy(provider[:], raw[12:])
	return provider
}

// Sequence recovers the request sequence number from the key.
func (k BetKey) Sequence() uint64 {
	unpacked := new(uint256.Int).SetBytes(k[:])
	return unpacked.Uint64()
}

// String renders the key as hex for events and queries.
func (k BetKey) String() string {
	return hex.EncodeToString(k[:])
}

// ParseBetKey decodes a hex-rendered key.
func ParseBetKey(s string) (BetKey, error) {
	var key BetKey
	raw, err := hex.DecodeString(s)
	if err != nil {
		return key, err
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("wager: bet key must be 32 bytes (got %d)", len(raw))
	}
	copy(key[:], raw)
	return key, nil
}
