package rpc

import (
	"encoding/hex"
	"net/http"

	"flipnet/native/wager"
)

type wagerPlaceParams struct {
	Caller     string `json:"caller"`
	Amount     string `json:"amount"`
	Payment    string `json:"payment"`
	Tag        string `json:"tag,omitempty"`
	Commitment string `json:"commitment"`
}

type wagerKeyParams struct {
	Key string `json:"key"`
	// Budget caps the execution allowance for cancellations; zero means
	// unlimited.
	Budget uint64 `json:"budget,omitempty"`
}

type wagerClaimParams struct {
	Caller string `json:"caller"`
	To     string `json:"to,omitempty"`
}

type wagerAddrParams struct {
	Address string `json:"address"`
}

type wagerExclusionParams struct {
	Caller string `json:"caller"`
	Until  uint64 `json:"until"`
}

type wagerUpdateParams struct {
	Caller            string  `json:"caller"`
	FeeRateBps        *uint64 `json:"feeRateBps,omitempty"`
	MinBet            *string `json:"minBet,omitempty"`
	MaxBet            *string `json:"maxBet,omitempty"`
	DividendThreshold *string `json:"dividendThreshold,omitempty"`
	Provider          *string `json:"provider,omitempty"`
	CallbackGasLimit  *uint64 `json:"callbackGasLimit,omitempty"`
	TimeoutSeconds    *uint64 `json:"timeoutSeconds,omitempty"`
}

type wagerBetResult struct {
	Key           string `json:"key"`
	Player        string `json:"player"`
	Expiry        uint64 `json:"expiry"`
	Status        string `json:"status"`
	Flips         uint64 `json:"flips,omitempty"`
	Amount        string `json:"amount"`
	Tag           string `json:"tag"`
	StakeSnapshot string `json:"stakeSnapshot"`
}

func betStatus(bet *wager.Bet) string {
	switch {
	case bet.Pending():
		return "pending"
	case bet.Result == wager.ResultCancelled:
		return "cancelled"
	case bet.Won():
		return "won"
	default:
		return "lost"
	}
}

func (s *Server) handleWagerQuote(w http.ResponseWriter, req *RPCRequest) {
	commitment, fee, err := s.node.WagerQuote()
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{
		"commitment": "0x" + hex.EncodeToString(commitment[:]),
		"oracleFee":  fee.String(),
	})
}

func (s *Server) handleWagerPlace(w http.ResponseWriter, req *RPCRequest) {
	var params wagerPlaceParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	payment, err := parseAmount(params.Payment)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	tag, err := parseTag(params.Tag)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	commitment, err := parseCommitment(params.Commitment)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	key, err := s.node.WagerPlace(caller, amount, tag, commitment, payment)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{
		"key":      key.String(),
		"sequence": key.Sequence(),
	})
}

func (s *Server) handleWagerCancel(w http.ResponseWriter, req *RPCRequest) {
	var params wagerKeyParams
	if !decodeParams(w, req, &params) {
		return
	}
	key, err := wager.ParseBetKey(params.Key)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.WagerCancel(key, params.Budget); err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"cancelled": true})
}

func (s *Server) handleWagerClaim(w http.ResponseWriter, req *RPCRequest) {
	var params wagerClaimParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	to := caller
	if params.To != "" {
		if to, err = parseAddress(params.To); err != nil {
			writeInvalidParams(w, req, err)
			return
		}
	}
	paid, err := s.node.WagerClaim(caller, to)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"claimed": paid.String()})
}

func (s *Server) handleWagerGet(w http.ResponseWriter, req *RPCRequest) {
	var params wagerKeyParams
	if !decodeParams(w, req, &params) {
		return
	}
	key, err := wager.ParseBetKey(params.Key)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	bet, exists, err := s.node.WagerBet(key)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	if !exists {
		writeServerError(w, req, wager.ErrUnknownBet)
		return
	}
	writeResult(w, req.ID, wagerBetResult{
		Key:           key.String(),
		Player:        addressString(bet.Player),
		Expiry:        bet.Expiry,
		Status:        betStatus(bet),
		Flips:         bet.DecodeFlips(),
		Amount:        bet.Amount.String(),
		Tag:           "0x" + hex.EncodeToString(bet.Tag[:]),
		StakeSnapshot: bet.StakeSnapshot.String(),
	})
}

func (s *Server) handleWagerEpoch(w http.ResponseWriter, req *RPCRequest) {
	epoch, err := s.node.WagerEpoch()
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"epoch": epoch})
}

func (s *Server) handleWagerReservation(w http.ResponseWriter, req *RPCRequest) {
	reservation, err := s.node.WagerReservation()
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"reservation": reservation.String()})
}

func (s *Server) handleWagerFallbackBalance(w http.ResponseWriter, req *RPCRequest) {
	var params wagerAddrParams
	if !decodeParams(w, req, &params) {
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	claimable, err := s.node.WagerFallbackBalance(addr)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"claimable": claimable.String()})
}

func (s *Server) handleWagerParams(w http.ResponseWriter, req *RPCRequest) {
	params, err := s.node.WagerParams()
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	commitment := params.Commitment()
	writeResult(w, req.ID, map[string]interface{}{
		"feeRateBps":          params.FeeRateBps,
		"minBet":              params.MinBet.String(),
		"maxBet":              params.MaxBet.String(),
		"dividendThreshold":   params.DividendThreshold.String(),
		"provider":            addressString(params.Provider),
		"callbackGasLimit":    params.CallbackGasLimit,
		"timeoutSeconds":      params.TimeoutSeconds,
		"initialBonusReserve": params.InitialBonusReserve.String(),
		"commitment":          "0x" + hex.EncodeToString(commitment[:]),
	})
}

func (s *Server) handleWagerSetSelfExclusion(w http.ResponseWriter, req *RPCRequest) {
	var params wagerExclusionParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.SetSelfExclusion(caller, params.Until); err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"until": params.Until})
}

func (s *Server) handleWagerUpdateParams(w http.ResponseWriter, req *RPCRequest) {
	var params wagerUpdateParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	err = s.node.WithWagerAdmin(func(e *wager.Engine) error {
		if params.FeeRateBps != nil {
			if err := e.UpdateFeeRate(caller, *params.FeeRateBps); err != nil {
				return err
			}
		}
		if params.MinBet != nil || params.MaxBet != nil {
			live, err := e.Params()
			if err != nil {
				return err
			}
			minBet, maxBet := live.MinBet, live.MaxBet
			if params.MinBet != nil {
				if minBet, err = parseAmount(*params.MinBet); err != nil {
					return err
				}
			}
			if params.MaxBet != nil {
				if maxBet, err = parseAmount(*params.MaxBet); err != nil {
					return err
				}
			}
			if err := e.UpdateBetLimits(caller, minBet, maxBet); err != nil {
				return err
			}
		}
		if params.DividendThreshold != nil {
			threshold, err := parseAmount(*params.DividendThreshold)
			if err != nil {
				return err
			}
			if err := e.UpdateDividendThreshold(caller, threshold); err != nil {
				return err
			}
		}
		if params.Provider != nil {
			provider, err := parseAddress(*params.Provider)
			if err != nil {
				return err
			}
			if err := e.UpdateProvider(caller, provider); err != nil {
				return err
			}
		}
		if params.CallbackGasLimit != nil {
			if err := e.UpdateCallbackGasLimit(caller, *params.CallbackGasLimit); err != nil {
				return err
			}
		}
		if params.TimeoutSeconds != nil {
			if err := e.UpdateTimeout(caller, *params.TimeoutSeconds); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"updated": true})
}
