package rpc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"flipnet/crypto"
)

func parseAmount(amount string) (*big.Int, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return nil, fmt.Errorf("amount is required")
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount")
	}
	return value, nil
}

func parseAddress(addr string) ([20]byte, error) {
	var out [20]byte
	decoded, err := crypto.DecodeAddress(strings.TrimSpace(addr))
	if err != nil {
		return out, err
	}
	copy(out[:], decoded.Bytes())
	return out, nil
}

func addressString(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.FLPPrefix, addr[:]).String()
}

// parseTag decodes an optional 0x-prefixed hex tag of at most 32 bytes,
// left-aligned into the fixed array.
func parseTag(tag string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(tag), "0x")
	if trimmed == "" {
		return out, nil
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("invalid tag hex")
	}
	if len(raw) > 32 {
		return out, fmt.Errorf("tag exceeds 32 bytes")
	}
	copy(out[:], raw)
	return out, nil
}

func parseCommitment(commitment string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(commitment), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) != 32 {
		return out, fmt.Errorf("commitment must be 32 hex bytes")
	}
	copy(out[:], raw)
	return out, nil
}

// decodeParams unmarshals the single positional parameter object every
// flipnet method uses.
func decodeParams(w http.ResponseWriter, req *RPCRequest, out interface{}) bool {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "expected a single params object")
		return false
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params: "+err.Error())
		return false
	}
	return true
}

func writeServerError(w http.ResponseWriter, req *RPCRequest, err error) {
	writeError(w, http.StatusOK, req.ID, codeServerError, err.Error())
}

func writeInvalidParams(w http.ResponseWriter, req *RPCRequest, err error) {
	writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error())
}
