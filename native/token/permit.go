package token

import (
	"encoding/binary"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var permitDomain = []byte("flipnet/token/permit/v1")

// PermitDigest computes the message hash an owner signs to authorise a
// spender allowance without an on-ledger approval transaction. The nonce binds
// each permit to a single use.
func PermitDigest(owner, spender [20]byte, symbol string, value *big.Int, deadline uint64, nonce uint64) [32]byte {
	var deadlineBuf, nonceBuf [8]byte
	binary.BigEndian.PutUint64(deadlineBuf[:], deadline)
	binary.BigEndian.PutUint64(nonceBuf[:], nonce)
	amount := cloneBigInt(value)
	digest := ethcrypto.Keccak256(
		permitDomain,
		owner[:],
		spender[:],
		[]byte(symbol),
		amount.Bytes(),
		deadlineBuf[:],
		nonceBuf[:],
	)
	var out [32]byte
	copy(out[:], digest)
	return out
}

// Permit applies a signed allowance. The signature must be a 65-byte
// secp256k1 signature over PermitDigest recovering to the owner address.
func (l *Ledger) Permit(owner, spender [20]byte, symbol string, value *big.Int, deadline uint64, now uint64, sig []byte) error {
	if err := l.ensureState(); err != nil {
		return err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	if deadline != 0 && now > deadline {
		return ErrPermitExpired
	}
	if len(sig) != 65 {
		return ErrPermitInvalid
	}
	nonce, err := l.state.PermitNonce(owner)
	if err != nil {
		return err
	}
	digest := PermitDigest(owner, spender, normalized, value, deadline, nonce)
	pub, err := ethcrypto.SigToPub(digest[:], sig)
	if err != nil {
		return ErrPermitInvalid
	}
	recovered := ethcrypto.PubkeyToAddress(*pub)
	if [20]byte(recovered) != owner {
		return ErrPermitInvalid
	}
	if err := l.Approve(owner, spender, normalized, value); err != nil {
		return err
	}
	return l.state.SetPermitNonce(owner, nonce+1)
}
