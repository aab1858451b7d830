package common

import "math/big"

// LowestSetBit returns the index of the lowest set bit of v. The result for a
// zero value is 0; callers that distinguish the zero case must check v first.
func LowestSetBit(v *big.Int) uint {
	if v == nil || v.Sign() == 0 {
		return 0
	}
	return v.TrailingZeroBits()
}
