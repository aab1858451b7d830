package rpc

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flipnet/native/token"
)

type tokenBalanceParams struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

type tokenSymbolParams struct {
	Symbol string `json:"symbol"`
}

type tokenTransferParams struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

type tokenApproveParams struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Symbol  string `json:"symbol"`
	Amount  string `json:"amount"`
}

type tokenPermitParams struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Symbol    string `json:"symbol"`
	Value     string `json:"value"`
	Deadline  uint64 `json:"deadline"`
	Signature string `json:"signature"`
}

type tokenDenylistParams struct {
	Caller  string `json:"caller"`
	Address string `json:"address"`
	Blocked bool   `json:"blocked"`
}

func normalizeSymbol(symbol string) (string, error) {
	return token.NormalizeSymbol(symbol)
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, req *RPCRequest) {
	var params tokenBalanceParams
	if !decodeParams(w, req, &params) {
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	symbol, err := normalizeSymbol(params.Symbol)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	balance, err := s.node.TokenBalance(addr, symbol)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"balance": balance.String()})
}

func (s *Server) handleTokenSupply(w http.ResponseWriter, req *RPCRequest) {
	var params tokenSymbolParams
	if !decodeParams(w, req, &params) {
		return
	}
	symbol, err := normalizeSymbol(params.Symbol)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	supply, err := s.node.TokenSupply(symbol)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"supply": supply.String()})
}

func (s *Server) handleTokenAllowance(w http.ResponseWriter, req *RPCRequest) {
	var params tokenApproveParams
	if !decodeParams(w, req, &params) {
		return
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	spender, err := parseAddress(params.Spender)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	symbol, err := normalizeSymbol(params.Symbol)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	allowance, err := s.node.TokenAllowance(owner, spender, symbol)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"allowance": allowance.String()})
}

func (s *Server) handleTokenTransfer(w http.ResponseWriter, req *RPCRequest) {
	var params tokenTransferParams
	if !decodeParams(w, req, &params) {
		return
	}
	from, err := parseAddress(params.From)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	to, err := parseAddress(params.To)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	symbol, err := normalizeSymbol(params.Symbol)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.TokenTransfer(from, to, symbol, amount); err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

func (s *Server) handleTokenApprove(w http.ResponseWriter, req *RPCRequest) {
	var params tokenApproveParams
	if !decodeParams(w, req, &params) {
		return
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	spender, err := parseAddress(params.Spender)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	symbol, err := normalizeSymbol(params.Symbol)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.TokenApprove(owner, spender, symbol, amount); err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

func (s *Server) handleTokenPermit(w http.ResponseWriter, req *RPCRequest) {
	var params tokenPermitParams
	if !decodeParams(w, req, &params) {
		return
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	spender, err := parseAddress(params.Spender)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	symbol, err := normalizeSymbol(params.Symbol)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	value, err := parseAmount(params.Value)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(params.Signature), "0x"))
	if err != nil {
		writeInvalidParams(w, req, fmt.Errorf("invalid signature hex"))
		return
	}
	now := uint64(time.Now().Unix())
	if err := s.node.TokenPermit(owner, spender, symbol, value, params.Deadline, now, sig); err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

func (s *Server) handleTokenSetDenylisted(w http.ResponseWriter, req *RPCRequest) {
	var params tokenDenylistParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.TokenSetDenylisted(caller, addr, params.Blocked); err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"blocked": params.Blocked})
}
